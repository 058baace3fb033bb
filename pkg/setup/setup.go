// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package setup

import (
	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/term"
)

// entry is a stored non-unit clause together with its watched pair — the
// two literals AddUnit's propagation loop checks before paying for a full
// PropagateUnits call — and a cached Bloom summary of its terms.
type entry struct {
	c              clause.Clause
	watch1, watch2 clause.Literal
	sum            clause.Summary
}

// Setup is the ground clause store: a set of unit literals plus a set of
// non-unit clauses, closed incrementally under unit propagation. There is
// no parent chain; cheap branching is provided by ShallowCopy, not by
// chaining Setups together (see the design note on the superseded
// parent-pointer scheme).
type Setup struct {
	units       *UnitStore
	clauses     []entry
	emptyClause bool

	// shallowLive enforces the exactly-one-live-ShallowCopy invariant and
	// gates AddClause/Minimize, which are disallowed while a scope is open.
	shallowLive bool
}

// New returns an empty Setup.
func New() *Setup {
	return &Setup{units: NewUnitStore()}
}

// Consistent reports whether the clauses currently stored contain no pair
// of complementary literals sharing a left-hand side. This is sound but
// incomplete: it only detects unit-clash-type inconsistency visible
// directly on the clause surface, not anything that would require actual
// resolution to uncover. empty_clause, once set, short-circuits every
// query regardless.
func (s *Setup) Consistent() bool {
	if s.emptyClause {
		return false
	}
	return consistentOver(s.clauses)
}

// consistentOver runs the bucket-based complementary-literal scan Consistent
// and LocallyConsistent both need, over whichever clause subset the caller
// has already restricted to: every literal of every entry is bucketed by
// its lhs hash, and a bucket hit triggers a Complementary check against
// every literal already seen in it — a pair need not come from the same
// clause to be caught, which a per-clause PropagateUnits check alone could
// never see.
func consistentOver(entries []entry) bool {
	buckets := make(map[uint64][]clause.Literal)
	for _, e := range entries {
		for _, l := range e.c.Literals() {
			h := l.Hash()
			for _, other := range buckets[h] {
				if l.Complementary(other) {
					return false
				}
			}
			buckets[h] = append(buckets[h], l)
		}
	}
	return true
}

// Determines reports whether a positive unit pins down t's value.
func (s *Setup) Determines(t term.Term) bool { return s.units.Determines(t) }

// Units returns the known unit literals in insertion order.
func (s *Setup) Units() []clause.Literal {
	out := make([]clause.Literal, s.units.Size())
	for i := range out {
		out[i] = s.units.At(i)
	}
	return out
}

// NumSlots returns the size of the index range clause(i) accepts: the
// distinguished empty-clause slot (if inconsistent), then the unit index
// band, then the stored multi-literal clauses.
func (s *Setup) NumSlots() int {
	n := s.units.Size() + len(s.clauses)
	if s.emptyClause {
		n++
	}
	return n
}

// Clause materializes the clause at slot i: the empty clause if i is the
// distinguished empty-clause slot, a unit clause if i falls in the unit
// index band, otherwise the stored clause with current units propagated
// into it.
func (s *Setup) Clause(i int) clause.Clause {
	base := 0
	if s.emptyClause {
		if i == 0 {
			return clause.New()
		}
		base = 1
	}
	nUnits := s.units.Size()
	if i < base+nUnits {
		return clause.UnitClause(s.units.At(i - base))
	}
	return s.clauses[i-base-nUnits].c.PropagateUnits(s.units)
}

// AddClause asserts c. If, after propagating known units into it, c turns
// out empty the Setup becomes inconsistent; if it turns out a unit the
// addition is forwarded to AddUnit; otherwise c is appended to the clause
// store with an initial watched pair of its first and last literals.
//
// AddClause is disallowed while a ShallowCopy is live: only AddUnit may be
// called through an open scope.
func (s *Setup) AddClause(c clause.Clause) Result {
	if s.shallowLive {
		panic("setup: AddClause called while a ShallowCopy is live")
	}
	s.units.UnsealOriginal()
	if s.emptyClause {
		return Inconsistent
	}
	c = c.PropagateUnits(s.units)
	switch {
	case c.Invalid():
		s.emptyClause = true
		return Inconsistent
	case c.Valid():
		return Subsumed
	case c.Unit():
		return s.AddUnit(c.First())
	}
	s.clauses = append(s.clauses, entry{c: c, watch1: c.First(), watch2: c.Last(), sum: clause.NewSummary(c)})
	return OK
}

// AddUnit asserts unit literal a, then iteratively propagates it (and any
// further units it produces) through the watched pairs of stored clauses
// until the propagation cursor catches up with the unit vector or the
// store becomes inconsistent.
//
// Unlike AddClause, AddUnit may be called while a ShallowCopy is live —
// that is exactly what a scope is for: branching on hypothetical units
// without mutating the parent beyond the scope's lifetime.
func (s *Setup) AddUnit(a clause.Literal) Result {
	if s.emptyClause {
		return Inconsistent
	}
	cursor := s.units.Size()
	res := s.units.Add(a)
	if res == Inconsistent {
		s.emptyClause = true
		return Inconsistent
	}
	if res == Subsumed {
		return Subsumed
	}
	for cursor < s.units.Size() {
		u := s.units.At(cursor)
		cursor++
		if s.propagateInto(u) == Inconsistent {
			return Inconsistent
		}
	}
	return OK
}

// propagateInto walks the clause store for clauses whose watched pair
// contains a literal complementary to u, recomputing each such clause by
// PropagateUnits. A clause that collapses to a unit feeds back into
// units.Add, possibly enqueueing further propagation for the caller's
// cursor loop to pick up.
func (s *Setup) propagateInto(u clause.Literal) Result {
	kept := s.clauses[:0]
	for _, e := range s.clauses {
		if !e.watch1.Complementary(u) && !e.watch2.Complementary(u) {
			kept = append(kept, e)
			continue
		}
		c2 := e.c.PropagateUnits(s.units)
		switch {
		case c2.Invalid():
			s.emptyClause = true
			return Inconsistent
		case c2.Valid():
			// discharged; drop it
		case c2.Unit():
			if r := s.units.Add(c2.First()); r == Inconsistent {
				s.emptyClause = true
				return Inconsistent
			}
		default:
			kept = append(kept, entry{c: c2, watch1: c2.First(), watch2: c2.Last(), sum: clause.NewSummary(c2)})
		}
	}
	s.clauses = kept
	return OK
}

// Minimize is the offline closure pass run once after initial population
// and before queries. It re-adds each negative unit to re-trigger
// subsumption checks against positive units sharing the same left-hand
// term, then walks the clause store back-to-front dropping any clause
// subsumed by a clause that survives it, and finally seals the unit store.
//
// Minimize is disallowed while a ShallowCopy is live.
func (s *Setup) Minimize() {
	if s.shallowLive {
		panic("setup: Minimize called while a ShallowCopy is live")
	}
	if s.emptyClause {
		s.units.Truncate(0)
		s.clauses = nil
		return
	}

	negatives := make([]clause.Literal, 0)
	for i := 0; i < s.units.Size(); i++ {
		if u := s.units.At(i); !u.Sign() {
			negatives = append(negatives, u)
		}
	}
	for _, u := range negatives {
		s.units.Remove(u)
		if r := s.units.Add(u); r == Inconsistent {
			s.emptyClause = true
			s.units.Truncate(0)
			s.clauses = nil
			return
		}
	}

	kept := make([]entry, 0, len(s.clauses))
	for i := len(s.clauses) - 1; i >= 0; i-- {
		c2 := s.clauses[i].c.PropagateUnits(s.units)
		switch {
		case c2.Invalid():
			s.emptyClause = true
			s.units.Truncate(0)
			s.clauses = nil
			return
		case c2.Valid():
			continue
		case c2.Unit():
			if r := s.units.Add(c2.First()); r == Inconsistent {
				s.emptyClause = true
				s.units.Truncate(0)
				s.clauses = nil
				return
			}
			continue
		}
		subsumed := false
		for _, k := range kept {
			if k.c.Subsumes(c2) {
				subsumed = true
				break
			}
		}
		if subsumed {
			continue
		}
		kept = append(kept, entry{c: c2, watch1: c2.First(), watch2: c2.Last(), sum: clause.NewSummary(c2)})
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	s.clauses = kept
	s.units.SealOriginal()
}

// Subsumes reports whether this Setup entails d: every model of the Setup
// satisfies d. An inconsistent Setup entails everything; an empty d is
// entailed only by an inconsistent Setup; otherwise any stored unit
// subsuming d settles it immediately, a positive unit d can never be
// subsumed by a non-unit clause (so that search is skipped), and failing
// that, stored clauses whose watched pair passes the cheap two-literal
// necessary condition are checked for full subsumption.
func (s *Setup) Subsumes(d clause.Clause) bool {
	if s.emptyClause {
		return true
	}
	if d.Invalid() {
		return false
	}
	for i := 0; i < s.units.Size(); i++ {
		if unitSubsumesClause(s.units.At(i), d) {
			return true
		}
	}
	if d.Unit() && d.First().Sign() {
		return false
	}
	reduced := d.PropagateUnits(s.units)
	if reduced.Valid() {
		return true
	}
	for _, e := range s.clauses {
		if !clause.WatchedPairNecessary(e.watch1, e.watch2, reduced) {
			continue
		}
		if e.c.Subsumes(reduced) {
			return true
		}
	}
	return false
}

func unitSubsumesClause(u clause.Literal, d clause.Clause) bool {
	for _, b := range d.Literals() {
		if u.Subsumes(b) {
			return true
		}
	}
	return false
}

// LocallyConsistent is Consistent restricted to the clauses whose term set
// overlaps ts, pre-filtered by Bloom intersection before the exact
// membership check. It lets an epistemic-guarantee check over a bounded
// term set avoid paying for clauses it can prove are irrelevant.
func (s *Setup) LocallyConsistent(ts []term.Term) bool {
	if s.emptyClause {
		return false
	}
	hashes := make([]uint64, len(ts))
	lookup := make(map[uint64]struct{}, len(ts))
	for i, t := range ts {
		hashes[i] = t.Hash()
		lookup[t.Hash()] = struct{}{}
	}
	tsSummary := clause.NewSummaryFromHashes(hashes)
	var restricted []entry
	for _, e := range s.clauses {
		if !e.sum.MayOverlap(tsSummary) {
			continue
		}
		if !clauseMentionsAny(e.c, lookup) {
			continue
		}
		restricted = append(restricted, e)
	}
	return consistentOver(restricted)
}

func clauseMentionsAny(c clause.Clause, ts map[uint64]struct{}) bool {
	for _, l := range c.Literals() {
		if termMentionsAny(l.Lhs(), ts) || termMentionsAny(l.Rhs(), ts) {
			return true
		}
	}
	return false
}

func termMentionsAny(t term.Term, ts map[uint64]struct{}) bool {
	if _, ok := ts[t.Hash()]; ok {
		return true
	}
	for _, a := range t.Args() {
		if termMentionsAny(a, ts) {
			return true
		}
	}
	return false
}
