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

package formula

import (
	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/term"
	"github.com/epistemic-go/limbo/pkg/util"
)

// NF puts f into the reasoner's normal form: Clone, Rectify (unique
// binders), Normalize (negation/quantifier pushdown and, if distribute is
// set, modal distribution), Flatten(0) (lift non-primitive terms out of
// literals), and a final Normalize pass to clean up whatever Flatten's
// fresh existentials exposed.
func NF(f *Formula, factory *term.Factory, distribute bool) *Formula {
	g := Rectify(f.Clone(), factory)
	g = Normalize(g, distribute)
	g = Flatten(g, factory, 0)
	return Normalize(g, distribute)
}

// Rectify renames bound variables so that every binder in f is unique and
// disjoint from f's free variables. seen maps a variable to the name it
// should be read as in the current subtree; it is pre-seeded with f's free
// variables as their own identity. Entering Exists(x, ...) when x already
// has a binding in seen means x shadows an outer binder (or is itself bound
// twice); a fresh variable of x's sort is allocated and seen is extended
// for the subtree only.
func Rectify(f *Formula, factory *term.Factory) *Formula {
	seen := make(map[uint64]term.Term, len(f.FreeVars()))
	for _, v := range f.FreeVars() {
		seen[v.Hash()] = v
	}
	return rectify(f, factory, seen)
}

func rectify(f *Formula, factory *term.Factory, seen map[uint64]term.Term) *Formula {
	switch f.kind {
	case AtomicKind:
		lits := make([]clause.Literal, 0, f.clause.Size())
		for _, l := range f.clause.Literals() {
			nl := rectifyTerm(factory, l.Lhs(), seen)
			nr := rectifyTerm(factory, l.Rhs(), seen)
			if l.Sign() {
				lits = append(lits, clause.Eq(nl, nr))
			} else {
				lits = append(lits, clause.Neq(nl, nr))
			}
		}
		return Atomic(clause.New(lits...))
	case NotKind:
		return Not(rectify(f.arg, factory, seen))
	case OrKind:
		return OrF(rectify(f.left, factory, seen), rectify(f.right, factory, seen))
	case ExistsKind:
		x := f.variable
		inner := make(map[uint64]term.Term, len(seen)+1)
		for k, v := range seen {
			inner[k] = v
		}
		newX := x
		if _, already := seen[x.Hash()]; already {
			newX = factory.NewVariable(x.Sort())
		}
		inner[x.Hash()] = newX
		return Exists(newX, rectify(f.arg, factory, inner))
	case KnowKind:
		return Know(f.level, rectify(f.arg, factory, seen))
	case ConsKind:
		return Cons(f.level, rectify(f.arg, factory, seen))
	case GuaranteeKind:
		return Guarantee(f.level, rectify(f.arg, factory, seen))
	case BelKind:
		return Bel(f.belK, f.belL, rectify(f.antecedent, factory, seen), rectify(f.consequent, factory, seen))
	default:
		return f
	}
}

func rectifyTerm(factory *term.Factory, t term.Term, seen map[uint64]term.Term) term.Term {
	if t.Variable() {
		if r, ok := seen[t.Hash()]; ok {
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
		na := rectifyTerm(factory, a, seen)
		if !na.Equal(a) {
			changed = true
		}
		newArgs[i] = na
	}
	if !changed {
		return t
	}
	return factory.NewTerm(t.Symbol(), newArgs)
}

// Normalize pushes negations inward, flattens nested Or into a single
// clause where the quantifier prefixes permit it, and — when distribute is
// set — pushes Know/Cons through Or, Exists and clause structure (DistK,
// DistM).
func Normalize(f *Formula, distribute bool) *Formula {
	switch f.kind {
	case AtomicKind:
		return Atomic(f.clause)
	case NotKind:
		return normalizeNot(f.arg, distribute)
	case OrKind:
		return normalizeOr(Normalize(f.left, distribute), Normalize(f.right, distribute))
	case ExistsKind:
		alpha := Normalize(f.arg, distribute)
		if !freeIn(f.variable, f.arg) {
			return alpha
		}
		return Exists(f.variable, alpha)
	case KnowKind:
		alpha := Normalize(f.arg, distribute)
		if distribute {
			return distK(f.level, alpha)
		}
		return Know(f.level, alpha)
	case ConsKind:
		alpha := Normalize(f.arg, distribute)
		if distribute {
			return distM(f.level, alpha)
		}
		return Cons(f.level, alpha)
	case GuaranteeKind:
		return Guarantee(f.level, Normalize(f.arg, distribute))
	case BelKind:
		ante := Normalize(f.antecedent, distribute)
		conse := Normalize(f.consequent, distribute)
		cache := Normalize(f.belCache, distribute)
		return belWithCache(f.belK, f.belL, ante, conse, cache)
	default:
		return f
	}
}

// normalizeNot implements Not's Normalize, dispatching on the kind of the
// negated subformula rather than Not's own.
func normalizeNot(arg *Formula, distribute bool) *Formula {
	switch arg.kind {
	case AtomicKind:
		if arg.clause.Unit() {
			return Atomic(clause.UnitClause(arg.clause.First().Flip()))
		}
		return Not(Atomic(arg.clause))
	case NotKind:
		return Normalize(arg.arg, distribute)
	case OrKind:
		return Not(Normalize(arg, distribute))
	case ExistsKind:
		return Not(Exists(arg.variable, Normalize(arg.arg, distribute)))
	case KnowKind, ConsKind, BelKind, GuaranteeKind:
		return Not(Normalize(arg, distribute))
	default:
		return Not(Normalize(arg, distribute))
	}
}

// normalizeOr merges two already-normalized Or branches into a single
// Atomic (re-wrapped in the combined quantifier prefix) whenever both
// branches reduce to an Atomic under a prefix whose Not-parity is even, or
// — for an odd prefix — whose Atomic is a unit clause, since flipping a
// unit literal absorbs one more Not. Otherwise the Or is kept.
func normalizeOr(l, r *Formula) *Formula {
	lp, ls := quantifierPrefix(l)
	rp, rs := quantifierPrefix(r)
	if ls.kind != AtomicKind || rs.kind != AtomicKind {
		return OrF(l, r)
	}
	if !lp.Even() && !ls.clause.Unit() {
		return OrF(l, r)
	}
	if !rp.Even() && !rs.clause.Unit() {
		return OrF(l, r)
	}
	lc := ls.clause
	if !lp.Even() {
		lp.AppendNot()
		lc = clause.UnitClause(lc.First().Flip())
	}
	rc := rs.clause
	if !rp.Even() {
		rp.AppendNot()
		rc = clause.UnitClause(rc.First().Flip())
	}
	lits := append(append([]clause.Literal(nil), lc.Literals()...), rc.Literals()...)
	merged := Atomic(clause.New(lits...))
	return lp.PrependTo(rp.PrependTo(merged))
}

// distK is DistK: it pushes Know(k, ·) through a classically-negated
// Or/Exists/clause that already resulted from Normalize, per the
// reasoner's De Morgan-form knowledge distribution.
func distK(k uint, alpha *Formula) *Formula {
	if alpha.kind != NotKind {
		return Know(k, alpha)
	}
	beta := alpha.arg
	switch beta.kind {
	case AtomicKind:
		lits := beta.clause.Literals()
		switch {
		case len(lits) == 1:
			return Know(k, Atomic(clause.UnitClause(lits[0].Flip())))
		case len(lits) >= 2:
			var gamma *Formula
			for _, a := range lits {
				delta := Know(k, Atomic(clause.UnitClause(a.Flip())))
				if gamma == nil {
					gamma = delta
				} else {
					gamma = OrF(gamma, delta)
				}
			}
			return Not(gamma)
		}
		return Know(k, alpha)
	case NotKind:
		return distK(k, beta.arg.Clone())
	case OrKind:
		return Not(OrF(
			Not(distK(k, Not(beta.left.Clone()))),
			Not(distK(k, Not(beta.right.Clone()))),
		))
	case ExistsKind:
		return Not(Exists(beta.variable, Not(distK(k, Not(beta.arg.Clone())))))
	case KnowKind, ConsKind, BelKind, GuaranteeKind:
		return Know(k, alpha)
	default:
		return Know(k, alpha)
	}
}

// distM is DistM: consistency distributes over Or and Exists, and over a
// clause of two or more literals it unfolds into a disjunction of Know of
// each literal's flip — joint non-entailment of any of the clause's
// negated literals is exactly what makes the clause conceivable.
func distM(k uint, alpha *Formula) *Formula {
	switch alpha.kind {
	case AtomicKind:
		lits := alpha.clause.Literals()
		if len(lits) >= 2 {
			var gamma *Formula
			for _, a := range lits {
				delta := Know(k, Atomic(clause.UnitClause(a.Flip())))
				if gamma == nil {
					gamma = delta
				} else {
					gamma = OrF(gamma, delta)
				}
			}
			return gamma
		}
		return Cons(k, alpha)
	case OrKind:
		return OrF(distM(k, alpha.left.Clone()), distM(k, alpha.right.Clone()))
	case ExistsKind:
		return Exists(alpha.variable, distM(k, alpha.arg.Clone()))
	default:
		return Cons(k, alpha)
	}
}

// Flatten lifts non-primitive terms out of f's literals, introducing fresh
// existentially-bound variables and the inequalities (new ≠ old) that tie
// them to the subterms they replace. nots tracks the Not-nesting Flatten has descended
// through so far: even means the Atomic it eventually reaches is read at
// universal polarity, odd at existential — see flattenAtomic for how that
// parity is absorbed into the result's leading/trailing Not.
func Flatten(f *Formula, factory *term.Factory, nots int) *Formula {
	switch f.kind {
	case AtomicKind:
		return flattenAtomic(f, nots, factory)
	case NotKind:
		return Not(Flatten(f.arg, factory, nots+1))
	case OrKind:
		return OrF(Flatten(f.left, factory, nots), Flatten(f.right, factory, nots))
	case ExistsKind:
		return Exists(f.variable, Flatten(f.arg, factory, nots))
	case KnowKind:
		return Know(f.level, Flatten(f.arg, factory, 0))
	case ConsKind:
		return Cons(f.level, Flatten(f.arg, factory, 0))
	case GuaranteeKind:
		// Guarantee does not reset nots: it has no modal structure of its
		// own to insulate its argument from the surrounding polarity.
		return Guarantee(f.level, Flatten(f.arg, factory, nots))
	case BelKind:
		ante := Flatten(f.antecedent, factory, 0)
		conse := Flatten(f.consequent, factory, 0)
		cache := Flatten(f.belCache, factory, 0)
		return belWithCache(f.belK, f.belL, ante, conse, cache)
	default:
		return f
	}
}

func flattenAtomic(f *Formula, nots int, factory *term.Factory) *Formula {
	c := f.clause
	addDoubleNegation := nots%2 == 1 && c.Unit()
	if addDoubleNegation {
		c = clause.UnitClause(c.First().Flip())
	}

	queue := append([]clause.Literal(nil), c.Literals()...)
	termToVar := make(map[uint64]term.Term)
	for _, a := range queue {
		if !a.Sign() && a.Lhs().Function() && a.Rhs().Variable() {
			termToVar[a.Lhs().Hash()] = a.Rhs()
		}
	}

	var lits []clause.Literal
	var prefix Prefix
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		switch {
		case literalFlattenable(a):
			lits = append(lits, a)
		case a.Rhs().Function() && (!a.Sign() || allPositive(queue)):
			oldT := a.Rhs()
			if a.Lhs().Arity() < a.Rhs().Arity() {
				oldT = a.Lhs()
			}
			newA, newB := freshenTerm(factory, termToVar, &prefix, a, oldT)
			queue = append(queue, newA, newB)
		default:
			for _, argT := range a.Lhs().Args() {
				if !argT.Function() {
					continue
				}
				newA, newB := freshenTerm(factory, termToVar, &prefix, a, argT)
				queue = append(queue, newA, newB)
				break
			}
		}
	}

	if prefix.Size() == 0 {
		return f.Clone()
	}
	if !addDoubleNegation {
		prefix.PrependNot()
	}
	prefix.AppendNot()
	return prefix.PrependTo(Atomic(clause.New(lits...)))
}

// freshenTerm looks up (or allocates) the fresh variable standing in for
// oldT, records it in the prefix on first allocation, and returns the
// literal a rewritten to use it together with the new ≠ oldT side
// constraint that must be queued alongside it.
func freshenTerm(factory *term.Factory, termToVar map[uint64]term.Term, prefix *Prefix, a clause.Literal, oldT term.Term) (clause.Literal, clause.Literal) {
	newT, ok := termToVar[oldT.Hash()]
	if !ok {
		newT = factory.NewVariable(oldT.Sort())
		termToVar[oldT.Hash()] = newT
		prefix.AppendExists(newT)
	}
	newA := substituteLiteralTerm(factory, a, oldT, newT)
	newB := clause.Neq(newT, oldT)
	return newA, newB
}

// freeIn reports whether v occurs among f's free variables, matching the
// reasoner's SortedTermSet::contains(x_) check in Exists::Normalize.
func freeIn(v term.Term, f *Formula) bool {
	for _, fv := range f.FreeVars() {
		if fv.Equal(v) {
			return true
		}
	}
	return false
}

func literalFlattenable(a clause.Literal) bool {
	return a.Quasiprimitive() || (!a.Lhs().Function() && !a.Rhs().Function())
}

func allPositive(lits []clause.Literal) bool {
	for _, a := range lits {
		if !a.Sign() {
			return false
		}
	}
	return true
}

func substituteLiteralTerm(factory *term.Factory, a clause.Literal, old, repl term.Term) clause.Literal {
	nl := replaceTerm(factory, a.Lhs(), old, repl)
	nr := replaceTerm(factory, a.Rhs(), old, repl)
	if a.Sign() {
		return clause.Eq(nl, nr)
	}
	return clause.Neq(nl, nr)
}

func replaceTerm(factory *term.Factory, t, old, repl term.Term) term.Term {
	if t.Equal(old) {
		return repl
	}
	if !t.Function() {
		return t
	}
	args := t.Args()
	newArgs := make([]term.Term, len(args))
	changed := false
	for i, a := range args {
		r := replaceTerm(factory, a, old, repl)
		if !r.Equal(a) {
			changed = true
		}
		newArgs[i] = r
	}
	if !changed {
		return t
	}
	return factory.NewTerm(t.Symbol(), newArgs)
}

// AsUnivClause recognizes a Normalize+Flatten'd formula that is
// semantically a single universally-closed clause, returning it if so.
func AsUnivClause(f *Formula, nots int) util.Maybe[clause.Clause] {
	switch f.kind {
	case AtomicKind:
		if nots%2 != 0 {
			return util.Nothing[clause.Clause]()
		}
		for _, a := range f.clause.Literals() {
			if !literalFlattenable(a) {
				return util.Nothing[clause.Clause]()
			}
		}
		return util.Just(f.clause)
	case NotKind:
		return AsUnivClause(f.arg, nots+1)
	case OrKind:
		if nots%2 != 0 {
			return util.Nothing[clause.Clause]()
		}
		c1 := AsUnivClause(f.left, nots)
		c2 := AsUnivClause(f.right, nots)
		if c1.IsEmpty() || c2.IsEmpty() {
			return util.Nothing[clause.Clause]()
		}
		lits := append(append([]clause.Literal(nil), c1.Unwrap().Literals()...), c2.Unwrap().Literals()...)
		return util.Just(clause.New(lits...))
	case ExistsKind:
		if nots%2 == 0 {
			return util.Nothing[clause.Clause]()
		}
		return AsUnivClause(f.arg, nots)
	default:
		return util.Nothing[clause.Clause]()
	}
}

// belWithCache builds a Bel node with an explicitly supplied cache rather
// than recomputing ¬antecedent ∨ consequent, for the Normalize/Flatten
// passes that normalize or flatten the cache independently from its
// components and must not have it silently regenerated out of sync.
func belWithCache(k, l uint, antecedent, consequent, cache *Formula) *Formula {
	return &Formula{
		kind:       BelKind,
		belK:       k,
		belL:       l,
		antecedent: antecedent,
		consequent: consequent,
		belCache:   cache,
	}
}
