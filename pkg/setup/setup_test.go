package setup

import (
	"testing"

	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/term"
)

func TestUnitSubsumption(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	b := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	if r := s.AddClause(clause.UnitClause(clause.Eq(fn, a))); r != OK {
		t.Fatalf("expected OK adding {f=a}, got %v", r)
	}
	if r := s.AddClause(clause.New(clause.Eq(fn, a), clause.Eq(fn, b))); r != Subsumed && r != OK {
		t.Fatalf("adding {f=a ∨ f=b} should not be rejected, got %v", r)
	}
	s.Minimize()

	if !s.Subsumes(clause.UnitClause(clause.Eq(fn, a))) {
		t.Fatalf("Subsumes({f=a}) should be true")
	}
	if !s.Subsumes(clause.New(clause.Eq(fn, a), clause.Eq(fn, b))) {
		t.Fatalf("Subsumes({f=a ∨ f=b}) should be true")
	}
	if s.Subsumes(clause.UnitClause(clause.Eq(fn, b))) {
		t.Fatalf("Subsumes({f=b}) should be false")
	}
}

func TestUnitPropagationToEmptyClause(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	b := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	s.AddClause(clause.New(clause.Eq(fn, a), clause.Eq(fn, b)))
	if r := s.AddUnit(clause.Neq(fn, a)); r != OK {
		t.Fatalf("expected OK adding f≠a, got %v", r)
	}
	r := s.AddUnit(clause.Neq(fn, b))
	if r != Inconsistent {
		t.Fatalf("expected Inconsistent adding f≠b, got %v", r)
	}
	if s.Consistent() {
		t.Fatalf("Consistent() should be false once the empty clause is derived")
	}
}

func TestShallowCopyIsolation(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	b := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	s.AddClause(clause.UnitClause(clause.Eq(fn, a)))
	s.AddClause(clause.New(clause.Eq(fn, a), clause.Eq(fn, b)))
	s.Minimize()

	sc := s.Shallow()
	if r := sc.setup.AddUnit(clause.Neq(fn, a)); r != Inconsistent {
		t.Fatalf("expected adding f≠a inside the scope to be Inconsistent, got %v", r)
	}
	sc.Drop()

	if !s.Subsumes(clause.UnitClause(clause.Eq(fn, a))) {
		t.Fatalf("parent Subsumes({f=a}) should still be true after dropping the scope")
	}
	if !s.Consistent() {
		t.Fatalf("parent should still be consistent after dropping the scope")
	}
}

func TestShallowCopyRejectsSecondLiveScope(t *testing.T) {
	s := New()
	sc := s.Shallow()
	defer sc.Drop()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic opening a second live ShallowCopy")
		}
	}()
	s.Shallow()
}

func TestAddClauseRejectedWhileShallowLive(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	sc := s.Shallow()
	defer sc.Drop()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected AddClause to panic while a ShallowCopy is live")
		}
	}()
	s.AddClause(clause.UnitClause(clause.Eq(fn, a)))
}

func TestAddUnitFlipMakesEmptyClause(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	lit := clause.Eq(fn, a)
	s.AddUnit(lit)
	if r := s.AddUnit(lit.Flip()); r != Inconsistent {
		t.Fatalf("AddUnit(a) followed by AddUnit(a.flip()) should be Inconsistent, got %v", r)
	}
}

func TestAddUnitFlipMakesEmptyClauseAfterMinimize(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	lit := clause.Eq(fn, a)
	s.AddUnit(lit)
	// Minimize seals the unit store's original prefix, moving fn=a out of
	// the hash index. AddUnit must still see it via the sealed-prefix
	// binary search, not silently re-add its complement as a fresh unit.
	s.Minimize()
	if r := s.AddUnit(lit.Flip()); r != Inconsistent {
		t.Fatalf("AddUnit(a.flip()) after Minimize sealed a should be Inconsistent, got %v", r)
	}
}

func TestLocallyConsistentDetectsComplementaryPairAcrossClauses(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	b := f.NewName(sort)
	c := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)
	gn := f.NewTerm(f.NewFunction(sort, 0), nil)
	hn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	clause1 := clause.New(clause.Eq(fn, a), clause.Eq(gn, b))
	clause2 := clause.New(clause.Neq(fn, a), clause.Eq(hn, c))
	if r := s.AddClause(clause1); r != OK {
		t.Fatalf("expected OK adding clause1, got %v", r)
	}
	if r := s.AddClause(clause2); r != OK {
		t.Fatalf("expected OK adding clause2, got %v", r)
	}

	// fn=a (in clause1) and fn≠a (in clause2) are complementary, but neither
	// clause is individually invalidated by unit propagation — only a
	// cross-clause bucket scan over the overlapping term set catches it.
	if s.LocallyConsistent([]term.Term{fn}) {
		t.Fatalf("expected LocallyConsistent({fn}) to detect the complementary pair split across clause1/clause2")
	}
	if !s.LocallyConsistent([]term.Term{gn}) {
		t.Fatalf("expected LocallyConsistent({gn}) to stay true: gn's literals are not complementary")
	}
}

func TestMinimizeIdempotent(t *testing.T) {
	f := term.NewFactory()
	sort := f.NewSort()
	a := f.NewName(sort)
	b := f.NewName(sort)
	fn := f.NewTerm(f.NewFunction(sort, 0), nil)

	s := New()
	s.AddClause(clause.UnitClause(clause.Eq(fn, a)))
	s.AddClause(clause.New(clause.Eq(fn, a), clause.Eq(fn, b)))
	s.Minimize()

	before := s.NumSlots()
	s.units.UnsealOriginal()
	s.Minimize()
	after := s.NumSlots()

	if before != after {
		t.Fatalf("Minimize should be idempotent: slots went from %d to %d", before, after)
	}
}
