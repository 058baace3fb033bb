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

// Package clause implements the ground reasoning layer sitting directly on
// top of package term: equality/inequality literals, clauses built from
// them, and the unit propagation and subsumption checks clauses support on
// their own (without reference to a Setup).
package clause

import (
	"fmt"

	"github.com/epistemic-go/limbo/pkg/term"
)

// Literal is an equality or inequality between two terms, stored in
// canonical form: the "heavier" side — a function application, if either
// side is one — is always Lhs, which keeps Literal equality and ordering
// independent of construction order. This mirrors the Equality type the
// reasoner's clause layer is modeled on, generalized from a single
// constant-or-variable right-hand side to arbitrary ground right-hand
// terms.
type Literal struct {
	sign bool // true: "=", false: "≠"
	lhs  term.Term
	rhs  term.Term
}

// Eq builds a canonicalized equality literal between a and b.
func Eq(a, b term.Term) Literal {
	l, r := canonicalize(a, b)
	return Literal{true, l, r}
}

// Neq builds a canonicalized inequality literal between a and b.
func Neq(a, b term.Term) Literal {
	l, r := canonicalize(a, b)
	return Literal{false, l, r}
}

// canonicalize decides which of a, b goes on the left: function
// applications outrank variables and names, and ties are broken by
// allocation order so that Eq(a,b) and Eq(b,a) always produce the same
// Literal.
func canonicalize(a, b term.Term) (term.Term, term.Term) {
	af, bf := a.Function(), b.Function()
	if af != bf {
		if bf {
			return b, a
		}
		return a, b
	}
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// Sign returns true for an equality, false for an inequality.
func (a Literal) Sign() bool { return a.sign }

// Lhs returns the canonical left-hand term.
func (a Literal) Lhs() term.Term { return a.lhs }

// Rhs returns the canonical right-hand term.
func (a Literal) Rhs() term.Term { return a.rhs }

// Flip negates this literal, turning an equality into an inequality and
// vice versa, without disturbing the canonical side ordering.
func (a Literal) Flip() Literal { return Literal{!a.sign, a.lhs, a.rhs} }

// Valid reports whether this literal is trivially true: "s = s".
func (a Literal) Valid() bool { return a.sign && a.lhs.Equal(a.rhs) }

// Invalid reports whether this literal is trivially false: "s ≠ s".
func (a Literal) Invalid() bool { return !a.sign && a.lhs.Equal(a.rhs) }

// Primitive reports whether this is an equality/inequality between a
// function application over names and variables on one side, and a name or
// variable on the other, or an equality/inequality with no function
// application on either side — the shapes a literal must have before it may
// sit inside a Setup clause.
func (a Literal) Primitive() bool {
	if a.lhs.Function() {
		return a.lhs.Primitive() && !a.rhs.Function()
	}
	return !a.rhs.Function()
}

// Quasiprimitive reports whether both sides are quasiprimitive terms, a
// weaker condition than Primitive used while Flatten is still lifting
// nested function applications out of a literal.
func (a Literal) Quasiprimitive() bool {
	return a.lhs.Quasiprimitive() && a.rhs.Quasiprimitive()
}

// Equal reports whether two literals are the identical (sign, sides)
// triple, after canonicalization.
func (a Literal) Equal(b Literal) bool {
	return a.sign == b.sign && a.lhs.Equal(b.lhs) && a.rhs.Equal(b.rhs)
}

// Complementary reports whether a and b are direct negations of one
// another — same sides, opposite sign. Used by unit propagation and by
// Setup to detect an empty clause.
func (a Literal) Complementary(b Literal) bool {
	return a.sign != b.sign && a.lhs.Equal(b.lhs) && a.rhs.Equal(b.rhs)
}

// Subsumes reports whether a subsumes b: every model satisfying a also
// satisfies b. Besides literal identity, the only non-trivial case is an
// equality forcing an inequality between two distinct standard names under
// the unique-names assumption — e.g. "s = n1" subsumes "s ≠ n2" whenever n1
// and n2 are different names. This is adapted directly from the teacher's
// Equality.Subsumes: an inequality never subsumes anything beyond itself,
// and nothing ever subsumes an equality beyond itself.
func (a Literal) Subsumes(b Literal) bool {
	if a.Equal(b) {
		return true
	}
	if !a.sign || b.sign {
		return false
	}
	return a.lhs.Equal(b.lhs) && a.rhs.Kind() == term.NameKind && b.rhs.Kind() == term.NameKind && !a.rhs.Equal(b.rhs)
}

// Cmp gives literals a total order: by left side, then right side, then
// sign (equalities before inequalities). Clause keeps its literals sorted
// by this order so binary search and watched-pair lookups are possible.
func (a Literal) Cmp(b Literal) int {
	if c := a.lhs.Cmp(b.lhs); c != 0 {
		return c
	}
	if c := a.rhs.Cmp(b.rhs); c != 0 {
		return c
	}
	switch {
	case a.sign == b.sign:
		return 0
	case a.sign:
		return -1
	default:
		return 1
	}
}

// Hash returns a hash over the literal's left-hand side only. UnitStore
// keys its hash set on exactly this value, so every unit with a common
// left-hand term lands in the same collision bucket.
func (a Literal) Hash() uint64 { return a.lhs.Hash() }

func (a Literal) String() string {
	op := "="
	if !a.sign {
		op = "≠"
	}
	return fmt.Sprintf("%s %s %s", a.lhs, op, a.rhs)
}
