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
	"github.com/bits-and-blooms/bitset"

	"github.com/epistemic-go/limbo/pkg/term"
)

// bloomBits and bloomProbes size the per-clause summary used to skip
// LocallyConsistent work against clauses that plainly share no
// term. This is purely an accelerator: dropping it changes nothing about
// which answers Setup returns, only how fast it gets there.
const (
	bloomBits   = 256
	bloomProbes = 4
)

// Summary is an optional Bloom-filter digest of the terms appearing in a
// clause: both sides of every literal and all of their argument subterms.
// Two clauses whose summaries share no bit in common cannot possibly share
// a term, which lets callers skip the exact comparison entirely.
type Summary struct {
	bits *bitset.BitSet
}

// NewSummary builds a Bloom summary over a clause's literals.
func NewSummary(c Clause) Summary {
	hashes := make([]uint64, 0, len(c.lits)*2)
	var add func(t term.Term)
	add = func(t term.Term) {
		hashes = append(hashes, t.Hash())
		for _, a := range t.Args() {
			add(a)
		}
	}
	for _, l := range c.lits {
		add(l.Lhs())
		add(l.Rhs())
	}
	return NewSummaryFromHashes(hashes)
}

// NewSummaryFromHashes builds a Bloom summary directly from term hashes,
// for callers summarizing something other than a clause's own literals
// (e.g. a caller-supplied term set used to scope a locality check).
func NewSummaryFromHashes(hashes []uint64) Summary {
	bs := bitset.New(bloomBits)
	for _, h := range hashes {
		addToBloom(bs, h)
	}
	return Summary{bits: bs}
}

func addToBloom(bs *bitset.BitSet, h uint64) {
	h1, h2 := splitHash(h)
	for i := uint64(0); i < bloomProbes; i++ {
		bs.Set(uint(h1+i*h2) % bloomBits)
	}
}

// splitHash derives two independent probe seeds from a single hash value,
// in the style of double hashing used by most Bloom filter implementations.
func splitHash(h uint64) (uint64, uint64) {
	h1 := h ^ (h >> 33)
	h2 := (h * 0x9E3779B97F4A7C15) ^ (h1 >> 29)
	return h1, h2 | 1
}

// MayOverlap reports whether two summaries could possibly describe clauses
// that share a term. A false result is conclusive; a true result only
// means the exact check still has to run.
func (s Summary) MayOverlap(o Summary) bool {
	return s.bits.IntersectionCardinality(o.bits) > 0
}
