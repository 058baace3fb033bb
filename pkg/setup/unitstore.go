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

// Package setup implements the incremental clause store the rest of the
// reasoner asserts ground facts into: UnitStore, Clause storage with
// watched-pair propagation, Minimize, and the ShallowCopy scope that lets a
// query branch on hypothetical units without disturbing the parent.
package setup

import (
	"sort"

	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/term"
)

// Result is the outcome of adding a clause or a unit: whether it extended
// the store, was already implied (Subsumed), or drove the store to
// inconsistency.
type Result int

const (
	// OK indicates the addition extended the store's state.
	OK Result = iota
	// Subsumed indicates the addition was already implied and changed
	// nothing.
	Subsumed
	// Inconsistent indicates the addition drove the store to the empty
	// clause. This is a normal value, not an error: callers are expected
	// to check for it, not to treat its return as exceptional.
	Inconsistent
)

// UnitStore holds the set of asserted unit literals, organized as a dense
// vector (insertion order, for iteration and propagation order) and a hash
// set keyed by left-hand term (for O(1) complementarity/subsumption
// probes). It also supports a sealed prefix: once SealOriginal is called,
// the leading n_orig entries are sorted and dropped from the hash set, so
// later probes against that stable prefix use binary search instead of
// paying hashing costs on every query.
type UnitStore struct {
	units []clause.Literal
	index map[uint64][]int

	sealedLen int // -1 when unsealed
	sortedIdx []int
}

// NewUnitStore returns an empty unit store.
func NewUnitStore() *UnitStore {
	return &UnitStore{index: make(map[uint64][]int), sealedLen: -1}
}

// Size returns the number of known units.
func (s *UnitStore) Size() int { return len(s.units) }

// At returns the unit at position i in insertion order.
func (s *UnitStore) At(i int) clause.Literal { return s.units[i] }

// Add inserts a unit literal, short-circuiting on the trivial and
// subsumption/complementarity cases so a caller never has to check those
// separately. It implements clause.UnitLookup so a UnitStore doubles as the
// lookup table PropagateUnits needs.
func (s *UnitStore) Add(a clause.Literal) Result {
	if a.Invalid() {
		return Inconsistent
	}
	if a.Valid() {
		return Subsumed
	}
	if _, ok := s.SubsumingUnit(a); ok {
		return Subsumed
	}
	if _, ok := s.ComplementaryUnit(a); ok {
		return Inconsistent
	}
	s.append(a)
	return OK
}

// Remove deletes the given unit literal, if present. It finds the literal by
// a linear scan of the unit vector and removes it via swap-erase: the last
// element takes its place, so nothing after it is shifted. Minimize uses this to re-add negative units and re-trigger
// subsumption checks against positive units sharing the same left side.
func (s *UnitStore) Remove(a clause.Literal) {
	idx := -1
	for i, u := range s.units {
		if u.Equal(a) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.removeFromIndex(s.units[idx], idx)
	last := len(s.units) - 1
	if idx != last {
		moved := s.units[last]
		s.units[idx] = moved
		s.reindexMoved(moved, last, idx)
	}
	s.units = s.units[:last]
	if s.sealedLen > last {
		s.sealedLen = -1
		s.sortedIdx = nil
	}
}

// ComplementaryUnit returns a known unit that is the direct negation of a,
// if one exists, checking both the unsealed hash index and, if the store is
// sealed, the sealed prefix via sealedIndices.
func (s *UnitStore) ComplementaryUnit(a clause.Literal) (clause.Literal, bool) {
	for _, idx := range s.index[a.Hash()] {
		u := s.units[idx]
		if u.Complementary(a) {
			return u, true
		}
	}
	for _, idx := range s.sealedIndices(a.Lhs()) {
		u := s.units[idx]
		if u.Complementary(a) {
			return u, true
		}
	}
	return clause.Literal{}, false
}

// SubsumingUnit returns a known unit that subsumes a, if one exists, checking
// both the unsealed hash index and, if the store is sealed, the sealed
// prefix via sealedIndices.
func (s *UnitStore) SubsumingUnit(a clause.Literal) (clause.Literal, bool) {
	for _, idx := range s.index[a.Hash()] {
		u := s.units[idx]
		if u.Subsumes(a) {
			return u, true
		}
	}
	for _, idx := range s.sealedIndices(a.Lhs()) {
		u := s.units[idx]
		if u.Subsumes(a) {
			return u, true
		}
	}
	return clause.Literal{}, false
}

// Determines reports whether there is a known positive unit with the given
// left-hand term, i.e. whether t's value is pinned down.
func (s *UnitStore) Determines(t term.Term) bool {
	for _, idx := range s.index[t.Hash()] {
		u := s.units[idx]
		if u.Sign() && u.Lhs().Equal(t) {
			return true
		}
	}
	for _, idx := range s.sealedIndices(t) {
		u := s.units[idx]
		if u.Sign() && u.Lhs().Equal(t) {
			return true
		}
	}
	return false
}

// sealedIndices returns the indices within the sealed prefix whose literal's
// left-hand term is lhs, found by binary search over sortedIdx. SealOriginal
// leaves s.units[:sealedLen] sorted by Literal.Cmp, whose primary key is the
// left-hand term, so the matching run is contiguous and sortedIdx need only
// be walked to its edges rather than scanned linearly. This is what lets
// ComplementaryUnit/SubsumingUnit/Determines see units added before the most
// recent Minimize without paying to rebuild the hash index for them.
func (s *UnitStore) sealedIndices(lhs term.Term) []int {
	if s.sealedLen <= 0 {
		return nil
	}
	lo, hi := 0, s.sealedLen
	for lo < hi {
		mid := (lo + hi) / 2
		if s.units[s.sortedIdx[mid]].Lhs().Cmp(lhs) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	start := lo
	hi = s.sealedLen
	for lo < hi {
		mid := (lo + hi) / 2
		if s.units[s.sortedIdx[mid]].Lhs().Cmp(lhs) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return s.sortedIdx[start:lo]
}

// SealOriginal sorts and deduplicates the current unit vector, records its
// length as the sealed prefix, and drops its entries from the hash set:
// later probes use binary search over this prefix plus the hash set for
// anything added afterwards. Minimize calls this once at the end of its
// pass so stable, fully-propagated units stop paying hashing costs during
// query-time propagation.
func (s *UnitStore) SealOriginal() {
	sort.Slice(s.units, func(i, j int) bool { return s.units[i].Cmp(s.units[j]) < 0 })
	deduped := s.units[:0]
	for _, u := range s.units {
		if len(deduped) == 0 || !deduped[len(deduped)-1].Equal(u) {
			deduped = append(deduped, u)
		}
	}
	s.units = deduped
	s.sealedLen = len(s.units)
	s.sortedIdx = make([]int, s.sealedLen)
	s.index = make(map[uint64][]int)
	for i := range s.sortedIdx {
		s.sortedIdx[i] = i
	}
}

// UnsealOriginal re-inserts the sealed prefix into the hash set, returning
// the store to its fully-hashed state. A no-op if the store is not sealed.
func (s *UnitStore) UnsealOriginal() {
	if s.sealedLen < 0 {
		return
	}
	for i := 0; i < s.sealedLen; i++ {
		s.index[s.units[i].Hash()] = append(s.index[s.units[i].Hash()], i)
	}
	s.sealedLen = -1
	s.sortedIdx = nil
}

// Truncate discards every unit from n onward. Used by ShallowCopy.Drop to
// roll back speculative units added inside a scope.
func (s *UnitStore) Truncate(n int) {
	for i := len(s.units) - 1; i >= n; i-- {
		s.removeFromIndex(s.units[i], i)
	}
	s.units = s.units[:n]
	if s.sealedLen > n {
		s.sealedLen = -1
		s.sortedIdx = nil
	}
}

func (s *UnitStore) append(a clause.Literal) {
	idx := len(s.units)
	s.units = append(s.units, a)
	s.index[a.Hash()] = append(s.index[a.Hash()], idx)
}

func (s *UnitStore) removeFromIndex(a clause.Literal, idx int) {
	bucket := s.index[a.Hash()]
	for i, v := range bucket {
		if v == idx {
			s.index[a.Hash()] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

func (s *UnitStore) reindexMoved(a clause.Literal, from, to int) {
	bucket := s.index[a.Hash()]
	for i, v := range bucket {
		if v == from {
			bucket[i] = to
			return
		}
	}
}
