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

// Package formula implements the formula tree that feeds ground clauses
// into a Setup: the tagged Atomic/Not/Or/Exists/Know/Cons/Bel/Guarantee
// variants, and the normalization pipeline (Rectify, Normalize, Flatten,
// AsUnivClause) that reduces a formula down to the clauses a Setup can
// consume.
package formula

import (
	"fmt"

	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/term"
)

// Kind tags which variant a Formula is.
type Kind uint8

const (
	// AtomicKind wraps a ground clause.
	AtomicKind Kind = iota
	// NotKind negates its single argument.
	NotKind
	// OrKind is a binary disjunction.
	OrKind
	// ExistsKind existentially binds a variable over its argument.
	ExistsKind
	// KnowKind is the knowledge operator at a belief level.
	KnowKind
	// ConsKind is the consistency/conceivability operator at a belief level.
	ConsKind
	// BelKind is conditional belief: Bel(k,l, antecedent, consequent).
	BelKind
	// GuaranteeKind is the epistemic-guarantee operator at a belief level.
	GuaranteeKind
)

func (k Kind) String() string {
	switch k {
	case AtomicKind:
		return "Atomic"
	case NotKind:
		return "Not"
	case OrKind:
		return "Or"
	case ExistsKind:
		return "Exists"
	case KnowKind:
		return "Know"
	case ConsKind:
		return "Cons"
	case BelKind:
		return "Bel"
	case GuaranteeKind:
		return "Guarantee"
	default:
		return "Unknown"
	}
}

// Formula is a node in the formula tree. Variants share one struct, tagged
// by kind, rather than one Go type per variant: this keeps Traverse,
// Substitute and the normalizer as single recursive functions with a type
// switch instead of eight mutually recursive visitor implementations.
//
// Formula values are always handled through *Formula; Clone performs the
// deep copy a caller needs before mutating a shared tree in place.
type Formula struct {
	kind Kind

	clause clause.Clause // Atomic

	arg *Formula // Not, Exists, Know, Cons, Guarantee

	left, right *Formula // Or

	variable term.Term // Exists

	level uint // Know, Cons, Guarantee

	antecedent *Formula // Bel
	consequent *Formula // Bel
	belCache   *Formula // Bel: cached ¬antecedent ∨ consequent
	belK       uint     // Bel
	belL       uint     // Bel

	freeVars     []term.Term
	freeComputed bool
}

// Atomic wraps a ground clause as a formula.
func Atomic(c clause.Clause) *Formula { return &Formula{kind: AtomicKind, clause: c} }

// Not negates a.
func Not(a *Formula) *Formula { return &Formula{kind: NotKind, arg: a} }

// OrF builds a binary disjunction of l and r. Named OrF (not Or) to avoid
// shadowing the builtin-looking boolean connective name across the
// package's exported surface.
func OrF(l, r *Formula) *Formula { return &Formula{kind: OrKind, left: l, right: r} }

// Exists existentially binds x over a.
func Exists(x term.Term, a *Formula) *Formula {
	return &Formula{kind: ExistsKind, variable: x, arg: a}
}

// Know builds the knowledge operator Know(k, a) at belief level k.
func Know(k uint, a *Formula) *Formula { return &Formula{kind: KnowKind, level: k, arg: a} }

// Cons builds the consistency/conceivability operator Cons(k, a).
func Cons(k uint, a *Formula) *Formula { return &Formula{kind: ConsKind, level: k, arg: a} }

// Guarantee builds the epistemic-guarantee operator Guarantee(k, a).
func Guarantee(k uint, a *Formula) *Formula {
	return &Formula{kind: GuaranteeKind, level: k, arg: a}
}

// Bel builds conditional belief Bel(k, l, antecedent, consequent), caching
// its classical unfolding ¬antecedent ∨ consequent for use during
// normalization.
func Bel(k, l uint, antecedent, consequent *Formula) *Formula {
	return &Formula{
		kind:       BelKind,
		belK:       k,
		belL:       l,
		antecedent: antecedent,
		consequent: consequent,
		belCache:   OrF(Not(antecedent.Clone()), consequent.Clone()),
	}
}

// Kind returns this node's variant tag.
func (f *Formula) Kind() Kind { return f.kind }

// Clause returns the clause of an Atomic formula. Panics on any other kind.
func (f *Formula) Clause() clause.Clause {
	f.mustBe(AtomicKind)
	return f.clause
}

// Arg returns the single child of Not, Exists, Know, Cons or Guarantee.
func (f *Formula) Arg() *Formula {
	switch f.kind {
	case NotKind, ExistsKind, KnowKind, ConsKind, GuaranteeKind:
		return f.arg
	default:
		panic(fmt.Sprintf("formula: Arg() called on %v", f.kind))
	}
}

// Left returns the left child of Or.
func (f *Formula) Left() *Formula {
	f.mustBe(OrKind)
	return f.left
}

// Right returns the right child of Or.
func (f *Formula) Right() *Formula {
	f.mustBe(OrKind)
	return f.right
}

// Variable returns the binder of Exists.
func (f *Formula) Variable() term.Term {
	f.mustBe(ExistsKind)
	return f.variable
}

// Level returns the belief level of Know, Cons or Guarantee.
func (f *Formula) Level() uint {
	switch f.kind {
	case KnowKind, ConsKind, GuaranteeKind:
		return f.level
	default:
		panic(fmt.Sprintf("formula: Level() called on %v", f.kind))
	}
}

// Antecedent returns the antecedent of Bel.
func (f *Formula) Antecedent() *Formula {
	f.mustBe(BelKind)
	return f.antecedent
}

// Consequent returns the consequent of Bel.
func (f *Formula) Consequent() *Formula {
	f.mustBe(BelKind)
	return f.consequent
}

// BelLevels returns the (k, l) belief levels of Bel.
func (f *Formula) BelLevels() (uint, uint) {
	f.mustBe(BelKind)
	return f.belK, f.belL
}

// Unfolded returns Bel's cached classical unfolding ¬antecedent ∨
// consequent, used by Normalize instead of re-deriving it every time.
func (f *Formula) Unfolded() *Formula {
	f.mustBe(BelKind)
	return f.belCache
}

func (f *Formula) mustBe(k Kind) {
	if f.kind != k {
		panic(fmt.Sprintf("formula: expected %v, got %v", k, f.kind))
	}
}

// Clone returns a deep, independent copy of f.
func (f *Formula) Clone() *Formula {
	if f == nil {
		return nil
	}
	c := &Formula{kind: f.kind, clause: f.clause, variable: f.variable, level: f.level, belK: f.belK, belL: f.belL}
	c.arg = f.arg.Clone()
	c.left = f.left.Clone()
	c.right = f.right.Clone()
	c.antecedent = f.antecedent.Clone()
	c.consequent = f.consequent.Clone()
	c.belCache = f.belCache.Clone()
	return c
}

// Equal reports deep structural equality.
func (f *Formula) Equal(o *Formula) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case AtomicKind:
		return clausesEqual(f.clause, o.clause)
	case NotKind:
		return f.arg.Equal(o.arg)
	case OrKind:
		return f.left.Equal(o.left) && f.right.Equal(o.right)
	case ExistsKind:
		return f.variable.Equal(o.variable) && f.arg.Equal(o.arg)
	case KnowKind, ConsKind, GuaranteeKind:
		return f.level == o.level && f.arg.Equal(o.arg)
	case BelKind:
		return f.belK == o.belK && f.belL == o.belL && f.antecedent.Equal(o.antecedent) && f.consequent.Equal(o.consequent)
	default:
		return false
	}
}

func clausesEqual(a, b clause.Clause) bool {
	al, bl := a.Literals(), b.Literals()
	if len(al) != len(bl) {
		return false
	}
	for i := range al {
		if !al[i].Equal(bl[i]) {
			return false
		}
	}
	return true
}

// FreeVars returns this formula's free variables, computed once and cached
// on first use. The order is insertion order of first occurrence, not
// sorted, which keeps Rectify's "pre-seed seen with free variables as
// identity" step stable.
func (f *Formula) FreeVars() []term.Term {
	if !f.freeComputed {
		seen := map[uint64]struct{}{}
		var out []term.Term
		f.collectFreeVars(map[uint64]struct{}{}, seen, &out)
		f.freeVars = out
		f.freeComputed = true
	}
	return f.freeVars
}

func (f *Formula) collectFreeVars(bound map[uint64]struct{}, seen map[uint64]struct{}, out *[]term.Term) {
	switch f.kind {
	case AtomicKind:
		for _, l := range f.clause.Literals() {
			collectTermVars(l.Lhs(), bound, seen, out)
			collectTermVars(l.Rhs(), bound, seen, out)
		}
	case NotKind, KnowKind, ConsKind, GuaranteeKind:
		f.arg.collectFreeVars(bound, seen, out)
	case OrKind:
		f.left.collectFreeVars(bound, seen, out)
		f.right.collectFreeVars(bound, seen, out)
	case ExistsKind:
		inner := cloneBoundSet(bound)
		inner[f.variable.Hash()] = struct{}{}
		f.arg.collectFreeVars(inner, seen, out)
	case BelKind:
		f.antecedent.collectFreeVars(bound, seen, out)
		f.consequent.collectFreeVars(bound, seen, out)
	}
}

func collectTermVars(t term.Term, bound, seen map[uint64]struct{}, out *[]term.Term) {
	if t.Variable() {
		if _, isBound := bound[t.Hash()]; isBound {
			return
		}
		if _, already := seen[t.Hash()]; already {
			return
		}
		seen[t.Hash()] = struct{}{}
		*out = append(*out, t)
		return
	}
	for _, a := range t.Args() {
		collectTermVars(a, bound, seen, out)
	}
}

func cloneBoundSet(bound map[uint64]struct{}) map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(bound)+1)
	for k := range bound {
		out[k] = struct{}{}
	}
	return out
}

// Objective reports whether f contains no modal operator (Know, Cons, Bel
// or Guarantee) anywhere.
func (f *Formula) Objective() bool {
	switch f.kind {
	case AtomicKind:
		return true
	case NotKind:
		return f.arg.Objective()
	case OrKind:
		return f.left.Objective() && f.right.Objective()
	case ExistsKind:
		return f.arg.Objective()
	default:
		return false
	}
}

// Subjective reports whether every atom of f is rigid: no function symbols
// appear anywhere in its clauses, only names and variables.
func (f *Formula) Subjective() bool {
	switch f.kind {
	case AtomicKind:
		for _, l := range f.clause.Literals() {
			if l.Lhs().Function() || l.Rhs().Function() {
				return false
			}
		}
		return true
	case NotKind, KnowKind, ConsKind, GuaranteeKind:
		return f.arg.Subjective()
	case OrKind:
		return f.left.Subjective() && f.right.Subjective()
	case ExistsKind:
		return f.arg.Subjective()
	case BelKind:
		return f.antecedent.Subjective() && f.consequent.Subjective()
	default:
		return true
	}
}

// QuantifiedIn reports whether f has a free variable occurring underneath
// a modal operator — the condition under which a quantifier cannot simply
// be pulled out past that operator during Or-merging. Know, Cons and Bel
// each decide this directly from their own free-variable set; it does not
// propagate through Not, since negating a modal formula does not by itself
// expose any new variable to an outer quantifier.
func (f *Formula) QuantifiedIn() bool {
	switch f.kind {
	case AtomicKind, NotKind:
		return false
	case OrKind:
		return f.left.QuantifiedIn() || f.right.QuantifiedIn()
	case ExistsKind, GuaranteeKind:
		return f.arg.QuantifiedIn()
	case KnowKind, ConsKind:
		return len(f.arg.FreeVars()) > 0
	case BelKind:
		return len(f.belCache.FreeVars()) > 0
	default:
		return false
	}
}

// TriviallyValid reports whether f is syntactically ⊤: an Atomic formula
// whose clause is trivially valid.
func (f *Formula) TriviallyValid() bool {
	return f.kind == AtomicKind && f.clause.Valid()
}

// TriviallyInvalid reports whether f is syntactically ⊥: an Atomic formula
// whose clause is the empty clause.
func (f *Formula) TriviallyInvalid() bool {
	return f.kind == AtomicKind && f.clause.Invalid()
}

func (f *Formula) String() string {
	switch f.kind {
	case AtomicKind:
		return f.clause.String()
	case NotKind:
		return fmt.Sprintf("¬%s", f.arg)
	case OrKind:
		return fmt.Sprintf("(%s ∨ %s)", f.left, f.right)
	case ExistsKind:
		return fmt.Sprintf("∃%s %s", f.variable, f.arg)
	case KnowKind:
		return fmt.Sprintf("K%d %s", f.level, f.arg)
	case ConsKind:
		return fmt.Sprintf("M%d %s", f.level, f.arg)
	case GuaranteeKind:
		return fmt.Sprintf("G%d %s", f.level, f.arg)
	case BelKind:
		return fmt.Sprintf("B%d,%d(%s => %s)", f.belK, f.belL, f.antecedent, f.consequent)
	default:
		return "?"
	}
}

// Traverse visits every subformula of f, including f itself, depth-first.
// visit returning false stops recursion into that node's children (but
// sibling traversal continues).
func (f *Formula) Traverse(visit func(*Formula) bool) {
	if f == nil || !visit(f) {
		return
	}
	switch f.kind {
	case NotKind, KnowKind, ConsKind, GuaranteeKind, ExistsKind:
		f.arg.Traverse(visit)
	case OrKind:
		f.left.Traverse(visit)
		f.right.Traverse(visit)
	case BelKind:
		f.antecedent.Traverse(visit)
		f.consequent.Traverse(visit)
	}
}

// Substitute rewrites f's free occurrences of the variables named in sub
// (keyed by term.Term.Hash) to their replacement terms, leaving bound
// occurrences alone via a scope-local bound-set threaded through Exists.
// It takes the term Factory that originally built f explicitly, rather
// than reaching for a package-level one, so rebuilding function
// applications over substituted arguments still hash-conses into the
// right table.
func (f *Formula) Substitute(factory *term.Factory, sub map[uint64]term.Term) *Formula {
	return f.substitute(factory, sub, map[uint64]struct{}{})
}

func (f *Formula) substitute(factory *term.Factory, sub map[uint64]term.Term, bound map[uint64]struct{}) *Formula {
	switch f.kind {
	case AtomicKind:
		lits := make([]clause.Literal, 0, f.clause.Size())
		for _, l := range f.clause.Literals() {
			nl := substituteTerm(factory, l.Lhs(), sub, bound)
			nr := substituteTerm(factory, l.Rhs(), sub, bound)
			if l.Sign() {
				lits = append(lits, clause.Eq(nl, nr))
			} else {
				lits = append(lits, clause.Neq(nl, nr))
			}
		}
		return Atomic(clause.New(lits...))
	case NotKind:
		return Not(f.arg.substitute(factory, sub, bound))
	case OrKind:
		return OrF(f.left.substitute(factory, sub, bound), f.right.substitute(factory, sub, bound))
	case ExistsKind:
		inner := cloneBoundSet(bound)
		inner[f.variable.Hash()] = struct{}{}
		return Exists(f.variable, f.arg.substitute(factory, sub, inner))
	case KnowKind:
		return Know(f.level, f.arg.substitute(factory, sub, bound))
	case ConsKind:
		return Cons(f.level, f.arg.substitute(factory, sub, bound))
	case GuaranteeKind:
		return Guarantee(f.level, f.arg.substitute(factory, sub, bound))
	case BelKind:
		return Bel(f.belK, f.belL, f.antecedent.substitute(factory, sub, bound), f.consequent.substitute(factory, sub, bound))
	default:
		return f
	}
}

func substituteTerm(factory *term.Factory, t term.Term, sub map[uint64]term.Term, bound map[uint64]struct{}) term.Term {
	if t.Variable() {
		if _, isBound := bound[t.Hash()]; isBound {
			return t
		}
		if r, ok := sub[t.Hash()]; ok {
			return r
		}
		return t
	}
	if t.Name() {
		return t
	}
	args := t.Args()
	newArgs := make([]term.Term, len(args))
	changed := false
	for i, a := range args {
		na := substituteTerm(factory, a, sub, bound)
		newArgs[i] = na
		if !na.Equal(a) {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return factory.NewTerm(t.Symbol(), newArgs)
}
