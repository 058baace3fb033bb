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
	"testing"

	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/term"
)

// countBound collects every variable a formula binds directly (ignoring
// modal operators, which this test does not need to see through).
func countBound(f *Formula, out *[]term.Term) {
	f.Traverse(func(n *Formula) bool {
		if n.Kind() == ExistsKind {
			*out = append(*out, n.Variable())
		}
		return true
	})
}

func TestRectifyGivesDistinctBinders(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	x := fac.NewVariable(sort)
	p := fac.NewFunction(sort, 1)
	q := fac.NewFunction(sort, 1)
	n := fac.NewName(sort)

	px := fac.NewTerm(p, []term.Term{x})
	qx := fac.NewTerm(q, []term.Term{x})

	inner := Exists(x, Atomic(clause.UnitClause(clause.Eq(qx, n))))
	outer := Exists(x, OrF(Atomic(clause.UnitClause(clause.Eq(px, n))), inner))

	r := Rectify(outer, fac)

	var bound []term.Term
	countBound(r, &bound)
	if len(bound) != 2 {
		t.Fatalf("expected 2 binders after Rectify, got %d", len(bound))
	}
	if bound[0].Equal(bound[1]) {
		t.Fatalf("Rectify should have given the shadowed binder a fresh variable, got the same term twice")
	}
	if bound[0].Sort() != bound[1].Sort() {
		t.Fatalf("fresh variable should keep the original's sort")
	}
}

func TestRectifyIsIdempotent(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	x := fac.NewVariable(sort)
	p := fac.NewFunction(sort, 1)
	n := fac.NewName(sort)
	px := fac.NewTerm(p, []term.Term{x})

	f := Exists(x, OrF(Atomic(clause.UnitClause(clause.Eq(px, n))), Exists(x, Atomic(clause.UnitClause(clause.Eq(px, n))))))

	once := Rectify(f, fac)
	twice := Rectify(once, fac)

	var b1, b2 []term.Term
	countBound(once, &b1)
	countBound(twice, &b2)
	if len(b1) != len(b2) {
		t.Fatalf("Rectify should be idempotent in binder count: %d vs %d", len(b1), len(b2))
	}
	if !b1[0].Equal(b2[0]) || !b1[1].Equal(b2[1]) {
		t.Fatalf("re-rectifying an already-rectified formula should not rename its binders again")
	}
}

func TestFlattenLiftsNestedFunctionTerm(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	c := fac.NewName(sort)
	a := fac.NewName(sort)
	g := fac.NewFunction(sort, 1)
	f := fac.NewFunction(sort, 1)

	gc := fac.NewTerm(g, []term.Term{c})
	fgc := fac.NewTerm(f, []term.Term{gc})

	// f(g(c)) = a, under even polarity (nots = 0). g(c) is itself a
	// primitive term (a function applied only to names), so lifting it to
	// a fresh variable y leaves both f(y) = a and y ≠ g(c) already
	// primitive — one fresh existential suffices, not two.
	lit := Atomic(clause.UnitClause(clause.Eq(fgc, a)))
	flat := Flatten(lit, fac, 0)

	if flat.Kind() != NotKind {
		t.Fatalf("expected a leading Not, got %v", flat.Kind())
	}
	inner := flat.Arg()
	nExists := 0
	for inner.Kind() == ExistsKind {
		nExists++
		inner = inner.Arg()
	}
	if nExists != 1 {
		t.Fatalf("expected exactly one fresh existential binder, got %d", nExists)
	}
	if inner.Kind() != NotKind {
		t.Fatalf("expected a trailing Not wrapping the flattened clause, got %v", inner.Kind())
	}
	if inner.Arg().Kind() != AtomicKind {
		t.Fatalf("expected the flattened clause at the core, got %v", inner.Arg().Kind())
	}
	if inner.Arg().Clause().Size() != 2 {
		t.Fatalf("expected a 2-literal flattened clause (f(y)=a ∨ y≠g(c)), got %d", inner.Arg().Clause().Size())
	}
	for _, l := range inner.Arg().Clause().Literals() {
		if !l.Primitive() {
			t.Fatalf("every literal in a flattened clause must be primitive, got %s", l)
		}
	}
}

func TestFlattenNoOpOnAlreadyPrimitiveLiteral(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	a := fac.NewName(sort)
	fsym := fac.NewFunction(sort, 0)
	fn := fac.NewTerm(fsym, nil)

	lit := Atomic(clause.UnitClause(clause.Eq(fn, a)))
	flat := Flatten(lit, fac, 0)
	if flat.Kind() != AtomicKind {
		t.Fatalf("a primitive literal should pass through Flatten unchanged, got %v", flat.Kind())
	}
}

func TestDistKSplitsClauseAcrossKnow(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	a := fac.NewName(sort)
	b := fac.NewName(sort)
	fsym := fac.NewFunction(sort, 0)
	fn := fac.NewTerm(fsym, nil)

	p := clause.Eq(fn, a)
	q := clause.Eq(fn, b)
	f := Know(1, Not(Atomic(clause.New(p, q))))

	nf := Normalize(f, true)
	if nf.Kind() != NotKind {
		t.Fatalf("expected DistK to produce a leading Not, got %v", nf.Kind())
	}
	or := nf.Arg()
	if or.Kind() != OrKind {
		t.Fatalf("expected an Or of per-literal Know under the leading Not, got %v", or.Kind())
	}
	if or.Left().Kind() != KnowKind || or.Right().Kind() != KnowKind {
		t.Fatalf("both Or branches should be Know")
	}
}

func TestNormalizeMergesOrOfAtomics(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	a := fac.NewName(sort)
	b := fac.NewName(sort)
	fsym := fac.NewFunction(sort, 0)
	fn := fac.NewTerm(fsym, nil)

	f := OrF(Atomic(clause.UnitClause(clause.Eq(fn, a))), Atomic(clause.UnitClause(clause.Eq(fn, b))))
	nf := Normalize(f, false)
	if nf.Kind() != AtomicKind {
		t.Fatalf("expected Or of two atomics to merge into one Atomic, got %v", nf.Kind())
	}
	if nf.Clause().Size() != 2 {
		t.Fatalf("expected the merged clause to have both literals, got %d", nf.Clause().Size())
	}
}

func TestNFIsIdempotent(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	a := fac.NewName(sort)
	b := fac.NewName(sort)
	fsym := fac.NewFunction(sort, 0)
	fn := fac.NewTerm(fsym, nil)

	f := Not(Atomic(clause.New(clause.Eq(fn, a), clause.Eq(fn, b))))
	once := NF(f, fac, false)
	twice := NF(once, fac, false)
	if !once.Equal(twice) {
		t.Fatalf("NF should be idempotent: NF(NF(f)) should equal NF(f)")
	}
}

func TestAsUnivClauseRecognizesFlattenedAtomic(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	a := fac.NewName(sort)
	fsym := fac.NewFunction(sort, 0)
	fn := fac.NewTerm(fsym, nil)

	f := Atomic(clause.UnitClause(clause.Eq(fn, a)))
	m := AsUnivClause(f, 0)
	if m.IsEmpty() {
		t.Fatalf("expected a primitive even-polarity atomic to be recognized as a universal clause")
	}
	if m.Unwrap().Size() != 1 {
		t.Fatalf("expected the recognized clause to keep its single literal")
	}

	if !AsUnivClause(f, 1).IsEmpty() {
		t.Fatalf("odd nots should not be recognized as a universal clause")
	}
}

func TestQuantifiedInDetectsFreeVariableUnderModal(t *testing.T) {
	fac := term.NewFactory()
	sort := fac.NewSort()
	x := fac.NewVariable(sort)
	p := fac.NewFunction(sort, 1)
	px := fac.NewTerm(p, []term.Term{x})
	n := fac.NewName(sort)

	f := Know(1, Atomic(clause.UnitClause(clause.Eq(px, n))))
	if !f.QuantifiedIn() {
		t.Fatalf("a free variable under Know should be QuantifiedIn")
	}

	// An enclosing Exists does not change Know's own judgment of its body:
	// that's exactly the signal DistK needs to know there's a quantifier
	// still to push through the modal operator.
	g := Exists(x, f)
	if !g.QuantifiedIn() {
		t.Fatalf("QuantifiedIn should propagate up through Exists unchanged")
	}

	if Atomic(clause.UnitClause(clause.Eq(px, n))).QuantifiedIn() {
		t.Fatalf("an Atomic with a free variable but no enclosing modal operator is not QuantifiedIn")
	}
}
