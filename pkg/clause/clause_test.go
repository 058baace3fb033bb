package clause

import (
	"testing"

	"github.com/epistemic-go/limbo/pkg/term"
)

type fakeUnits struct {
	units []Literal
}

func (f fakeUnits) ComplementaryUnit(a Literal) (Literal, bool) {
	for _, u := range f.units {
		if u.Complementary(a) {
			return u, true
		}
	}
	return Literal{}, false
}

func (f fakeUnits) SubsumingUnit(a Literal) (Literal, bool) {
	for _, u := range f.units {
		if u.Subsumes(a) {
			return u, true
		}
	}
	return Literal{}, false
}

func TestLiteralCanonicalization(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	b := f.NewName(sort)

	if !Eq(a, b).Equal(Eq(b, a)) {
		t.Fatalf("Eq should canonicalize regardless of argument order")
	}
}

func TestLiteralSubsumptionViaUniqueNames(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n1 := f.NewName(sort)
	n2 := f.NewName(sort)

	eq := Eq(x, n1)
	neq := Neq(x, n2)

	if !eq.Subsumes(neq) {
		t.Fatalf("x=n1 should subsume x≠n2 for distinct names n1,n2")
	}
	if neq.Subsumes(eq) {
		t.Fatalf("an inequality must never subsume an equality")
	}
}

func TestLiteralSubsumptionRequiresDistinctNames(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n := f.NewName(sort)

	eq := Eq(x, n)
	neq := Neq(x, n)

	if eq.Subsumes(neq) {
		t.Fatalf("x=n must not subsume x≠n: that pair is complementary, not subsuming")
	}
}

func TestLiteralComplementary(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n := f.NewName(sort)

	a := Eq(x, n)
	b := Neq(x, n)
	if !a.Complementary(b) || !b.Complementary(a) {
		t.Fatalf("x=n and x≠n must be complementary")
	}
}

func TestPropagateUnitsDropsComplementaryLiteral(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n1 := f.NewName(sort)
	n2 := f.NewName(sort)

	c := New(Eq(x, n1), Eq(x, n2))
	units := fakeUnits{units: []Literal{Neq(x, n1)}}

	result := c.PropagateUnits(units)
	if result.Size() != 1 || !result.First().Equal(Eq(x, n2)) {
		t.Fatalf("expected only x=n2 to survive propagation, got %v", result)
	}
}

func TestPropagateUnitsToEmptyClause(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n1 := f.NewName(sort)

	c := UnitClause(Eq(x, n1))
	units := fakeUnits{units: []Literal{Neq(x, n1)}}

	result := c.PropagateUnits(units)
	if !result.Invalid() {
		t.Fatalf("propagating the sole literal's complement should yield the empty clause, got %v", result)
	}
}

func TestClauseSubsumes(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n1 := f.NewName(sort)
	n2 := f.NewName(sort)

	c := UnitClause(Eq(x, n1))
	d := New(Neq(x, n2), Eq(x, n1))

	if !c.Subsumes(d) {
		t.Fatalf("x=n1 should subsume (x≠n2 ∨ x=n1)")
	}
}

func TestClauseReaddInvariance(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	x := f.NewVariable(sort)
	n1 := f.NewName(sort)
	n2 := f.NewName(sort)

	lits := []Literal{Eq(x, n1), Eq(x, n2), Eq(x, n1)}
	c1 := New(lits...)
	c2 := New(append(append([]Literal{}, lits...), lits...)...)

	if c1.Size() != c2.Size() {
		t.Fatalf("re-adding duplicate literals must not change clause contents")
	}
}
