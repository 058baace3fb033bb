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

package clause

import (
	"fmt"
	"sort"
	"strings"
)

// Clause is a sorted, duplicate-free disjunction of literals. The empty
// clause represents logical falsity; Setup reports reaching it as an
// ordinary (not exceptional) Inconsistent result rather than an error.
type Clause struct {
	lits []Literal
	// valid marks a clause known to be trivially satisfied independent of
	// its literal list, e.g. after PropagateUnits discharges it via a
	// subsuming unit. Kept separate from lits so such a clause still
	// prints and compares sensibly.
	valid bool
}

// New builds a Clause from the given literals, sorting them and dropping
// identical duplicates. Literals that are merely subsumed by another
// literal of the set are kept.
func New(lits ...Literal) Clause {
	s := append([]Literal(nil), lits...)
	sort.Slice(s, func(i, j int) bool { return s[i].Cmp(s[j]) < 0 })
	s = dedupe(s)
	return Clause{lits: s}
}

// UnitClause builds a one-literal clause.
func UnitClause(a Literal) Clause { return Clause{lits: []Literal{a}} }

// Valid returns a clause known to be trivially true.
func Valid() Clause { return Clause{valid: true} }

func dedupe(sorted []Literal) []Literal {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, l := range sorted[1:] {
		if !out[len(out)-1].Equal(l) {
			out = append(out, l)
		}
	}
	return out
}

// Size returns the number of literals in this clause.
func (c Clause) Size() int { return len(c.lits) }

// Literals returns the clause's sorted, deduplicated literals.
func (c Clause) Literals() []Literal { return c.lits }

// Invalid reports whether this is the empty clause: logical falsity.
func (c Clause) Invalid() bool { return !c.valid && len(c.lits) == 0 }

// Valid reports whether this clause is trivially true, either because it
// was built that way or because one of its literals is "s = s".
func (c Clause) Valid() bool {
	if c.valid {
		return true
	}
	for _, l := range c.lits {
		if l.Valid() {
			return true
		}
	}
	return false
}

// Unit reports whether this clause has exactly one literal.
func (c Clause) Unit() bool { return len(c.lits) == 1 }

// First returns the clause's lexicographically first literal. Panics on an
// empty clause; callers check Invalid/Unit first.
func (c Clause) First() Literal { return c.lits[0] }

// Last returns the clause's lexicographically last literal.
func (c Clause) Last() Literal { return c.lits[len(c.lits)-1] }

// Primitive reports whether every literal in this clause is primitive.
func (c Clause) Primitive() bool {
	for _, l := range c.lits {
		if !l.Primitive() {
			return false
		}
	}
	return true
}

// UnitLookup is the narrow view PropagateUnits needs of a unit store.
// setup.UnitStore satisfies this directly; tests can supply a trivial implementation
// without dragging in the whole setup package.
type UnitLookup interface {
	// ComplementaryUnit returns a known unit literal that directly negates
	// a, if one exists.
	ComplementaryUnit(a Literal) (Literal, bool)
	// SubsumingUnit returns a known unit literal that subsumes a, if one
	// exists.
	SubsumingUnit(a Literal) (Literal, bool)
}

// PropagateUnits rewrites this clause against a set of known units: any
// literal complementary to a known unit is dropped (it can never hold), and
// if any literal is subsumed by a known unit the whole clause is trivially
// satisfied. The original clause is left untouched.
func (c Clause) PropagateUnits(units UnitLookup) Clause {
	if c.valid {
		return c
	}
	kept := make([]Literal, 0, len(c.lits))
	for _, a := range c.lits {
		if _, ok := units.SubsumingUnit(a); ok {
			return Valid()
		}
		if _, ok := units.ComplementaryUnit(a); ok {
			continue
		}
		kept = append(kept, a)
	}
	return New(kept...)
}

// Subsumes reports whether c subsumes d: every literal of c is subsumed by
// some literal of d, which makes d redundant whenever c is already known.
func (c Clause) Subsumes(d Clause) bool {
	if c.Valid() {
		return true
	}
	if d.Valid() {
		return false
	}
	for _, a := range c.lits {
		if !subsumesAny(a, d.lits) {
			return false
		}
	}
	return true
}

func subsumesAny(a Literal, lits []Literal) bool {
	for _, b := range lits {
		if a.Subsumes(b) {
			return true
		}
	}
	return false
}

// WatchedPairNecessary is a cheap necessary (not sufficient) condition for
// c.Subsumes(d), checked before paying for the full O(|c|*|d|) comparison:
// two watched literals of c — typically its first and last, the ones most
// likely to fail — must each be subsumed by some literal of d.
func WatchedPairNecessary(watch1, watch2 Literal, d Clause) bool {
	if d.Valid() {
		return true
	}
	return subsumesAny(watch1, d.lits) && subsumesAny(watch2, d.lits)
}

func (c Clause) String() string {
	if c.valid {
		return "⊤"
	}
	if c.Invalid() {
		return "⊥"
	}
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " ∨ "))
}
