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

package registry

import (
	"errors"
	"testing"

	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/formula"
	"github.com/epistemic-go/limbo/pkg/term"
)

func TestRegisterAndLookupRoundTrip(t *testing.T) {
	fac := term.NewFactory()
	r := New(fac, nil)

	if err := r.RegisterSort("T"); err != nil {
		t.Fatalf("RegisterSort failed: %v", err)
	}
	if err := r.RegisterVariable("x", "T"); err != nil {
		t.Fatalf("RegisterVariable failed: %v", err)
	}
	if err := r.RegisterName("a", "T"); err != nil {
		t.Fatalf("RegisterName failed: %v", err)
	}
	if err := r.RegisterFunction("f", 1, "T"); err != nil {
		t.Fatalf("RegisterFunction failed: %v", err)
	}

	if !r.IsRegisteredSort("T") || !r.IsRegisteredVariable("x") ||
		!r.IsRegisteredName("a") || !r.IsRegisteredFunction("f") {
		t.Fatalf("expected every registered id to report as registered")
	}

	x, err := r.LookupVariable("x")
	if err != nil {
		t.Fatalf("LookupVariable failed: %v", err)
	}
	if !x.Variable() {
		t.Fatalf("expected x to be a variable term")
	}

	sym, err := r.LookupFunction("f")
	if err != nil {
		t.Fatalf("LookupFunction failed: %v", err)
	}
	if sym.Arity() != 1 {
		t.Fatalf("expected f/1, got arity %d", sym.Arity())
	}
}

func TestRegisterSortDuplicateFails(t *testing.T) {
	fac := term.NewFactory()
	r := New(fac, nil)
	if err := r.RegisterSort("T"); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	err := r.RegisterSort("T")
	if err == nil {
		t.Fatalf("expected a duplicate error re-registering T")
	}
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected errors.Is(err, ErrDuplicate), got %v", err)
	}
}

func TestLookupMissingIsNotFound(t *testing.T) {
	fac := term.NewFactory()
	r := New(fac, nil)
	if _, err := r.LookupSort("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound), got %v", err)
	}
}

func TestRegisterVariableUnknownSortFails(t *testing.T) {
	fac := term.NewFactory()
	r := New(fac, nil)
	if err := r.RegisterVariable("x", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a not-found error for the unknown sort, got %v", err)
	}
}

func TestMetaVariableRegisterUnregisterRoundTrip(t *testing.T) {
	fac := term.NewFactory()
	r := New(fac, nil)
	if err := r.RegisterSort("T"); err != nil {
		t.Fatalf("RegisterSort failed: %v", err)
	}
	sort, _ := r.LookupSort("T")
	mv := fac.NewVariable(sort)

	if err := r.RegisterMetaVariable("?1", mv); err != nil {
		t.Fatalf("RegisterMetaVariable failed: %v", err)
	}
	if !r.IsRegisteredMetaVariable("?1") {
		t.Fatalf("expected ?1 to be registered")
	}
	if err := r.UnregisterMetaVariable("?1"); err != nil {
		t.Fatalf("UnregisterMetaVariable failed: %v", err)
	}
	if r.IsRegisteredMetaVariable("?1") {
		t.Fatalf("expected ?1 to no longer be registered")
	}
	if err := r.UnregisterMetaVariable("?1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a not-found error unregistering twice, got %v", err)
	}
}

func TestRegisterFormulaStoresAClone(t *testing.T) {
	fac := term.NewFactory()
	r := New(fac, nil)
	sort := fac.NewSort()
	a := fac.NewName(sort)
	fsym := fac.NewFunction(sort, 0)
	fn := fac.NewTerm(fsym, nil)

	phi := formula.Atomic(clause.UnitClause(clause.Eq(fn, a)))
	if err := r.RegisterFormula("phi", phi); err != nil {
		t.Fatalf("RegisterFormula failed: %v", err)
	}
	stored, err := r.LookupFormula("phi")
	if err != nil {
		t.Fatalf("LookupFormula failed: %v", err)
	}
	if !stored.Equal(phi) {
		t.Fatalf("expected the stored formula to equal the registered one")
	}
	if stored == phi {
		t.Fatalf("expected RegisterFormula to store a clone, not alias the caller's formula")
	}
}

// countingLogger counts how many times each Logger method fires, enough to
// confirm the Registry actually reports through it rather than only
// through NoopLogger.
type countingLogger struct {
	NoopLogger
	registers int
}

func (c *countingLogger) RegisterSort(string) { c.registers++ }

func TestRegistryReportsThroughLogger(t *testing.T) {
	fac := term.NewFactory()
	log := &countingLogger{}
	r := New(fac, log)
	if err := r.RegisterSort("T"); err != nil {
		t.Fatalf("RegisterSort failed: %v", err)
	}
	if log.registers != 1 {
		t.Fatalf("expected exactly one RegisterSort event, got %d", log.registers)
	}
}
