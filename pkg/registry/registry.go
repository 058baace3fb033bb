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

// Package registry is the naming context a parser or REPL sits on top of:
// it maps textual identifiers to the opaque sorts, variables, names,
// functions and formulas the core (package term, package formula) works
// with, and reports every mutation through a Logger. It is grounded on the
// reference implementation's Context class, generalized from six
// hand-written id→value maps to one generic table per naming space.
package registry

import (
	"github.com/epistemic-go/limbo/pkg/formula"
	"github.com/epistemic-go/limbo/pkg/term"
)

// Registry binds textual identifiers to terms and formulas allocated from a
// single term.Factory, and reports every bind/unbind through a Logger.
// Unlike the factory it wraps, a Registry is inherently about human-facing
// names; package term and package formula never see a string.
type Registry struct {
	factory *term.Factory
	logger  Logger

	sorts     table[term.Sort]
	vars      table[term.Term]
	names     table[term.Term]
	funs      table[term.Symbol]
	metaVars  table[term.Term]
	formulas  table[*formula.Formula]
}

// New returns an empty Registry over factory. A nil logger installs
// NoopLogger.
func New(factory *term.Factory, logger Logger) *Registry {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Registry{
		factory:  factory,
		logger:   logger,
		sorts:    newTable[term.Sort]("sort"),
		vars:     newTable[term.Term]("variable"),
		names:    newTable[term.Term]("name"),
		funs:     newTable[term.Symbol]("function"),
		metaVars: newTable[term.Term]("meta-variable"),
		formulas: newTable[*formula.Formula]("formula"),
	}
}

// Logger returns the Logger this Registry reports events through, so a
// caller driving a Setup/Formula pipeline directly can reuse it for
// AddToKb/Query events without constructing a second one.
func (r *Registry) Logger() Logger { return r.logger }

// Factory returns the term.Factory this Registry allocates from.
func (r *Registry) Factory() *term.Factory { return r.factory }

// RegisterSort allocates a fresh sort and binds id to it.
func (r *Registry) RegisterSort(id string) error {
	sort := r.factory.NewSort()
	if err := r.sorts.Register(id, sort); err != nil {
		return err
	}
	r.logger.RegisterSort(id)
	return nil
}

// RegisterVariable allocates a fresh variable of the sort bound to sortID
// and binds id to it.
func (r *Registry) RegisterVariable(id, sortID string) error {
	sort, err := r.sorts.Lookup(sortID)
	if err != nil {
		return err
	}
	v := r.factory.NewVariable(sort)
	if err := r.vars.Register(id, v); err != nil {
		return err
	}
	r.logger.RegisterVariable(id, sortID)
	return nil
}

// RegisterName allocates a fresh standard name of the sort bound to sortID
// and binds id to it.
func (r *Registry) RegisterName(id, sortID string) error {
	sort, err := r.sorts.Lookup(sortID)
	if err != nil {
		return err
	}
	n := r.factory.NewName(sort)
	if err := r.names.Register(id, n); err != nil {
		return err
	}
	r.logger.RegisterName(id, sortID)
	return nil
}

// RegisterFunction allocates a fresh function symbol of the given arity and
// the sort bound to sortID, and binds id to it.
func (r *Registry) RegisterFunction(id string, arity uint, sortID string) error {
	sort, err := r.sorts.Lookup(sortID)
	if err != nil {
		return err
	}
	sym := r.factory.NewFunction(sort, arity)
	if err := r.funs.Register(id, sym); err != nil {
		return err
	}
	r.logger.RegisterFunction(id, arity, sortID)
	return nil
}

// RegisterMetaVariable binds id to an already-constructed term t, standing
// in for a placeholder the parser has not yet grounded. Unlike variables
// and names, meta-variables are expected to be unregistered and
// re-registered as grounding proceeds.
func (r *Registry) RegisterMetaVariable(id string, t term.Term) error {
	if err := r.metaVars.Register(id, t); err != nil {
		return err
	}
	r.logger.RegisterMetaVariable(id, t)
	return nil
}

// UnregisterMetaVariable removes id's meta-variable binding.
func (r *Registry) UnregisterMetaVariable(id string) error {
	if err := r.metaVars.Unregister(id); err != nil {
		return err
	}
	r.logger.UnregisterMetaVariable(id)
	return nil
}

// RegisterFormula binds id to a clone of phi, so that later mutation of the
// caller's formula cannot reach back into the registry's copy.
func (r *Registry) RegisterFormula(id string, phi *formula.Formula) error {
	if err := r.formulas.Register(id, phi.Clone()); err != nil {
		return err
	}
	r.logger.RegisterFormula(id, phi)
	return nil
}

// IsRegisteredSort, IsRegisteredVariable, ... report whether id is bound in
// the corresponding naming space.
func (r *Registry) IsRegisteredSort(id string) bool         { return r.sorts.Registered(id) }
func (r *Registry) IsRegisteredVariable(id string) bool     { return r.vars.Registered(id) }
func (r *Registry) IsRegisteredName(id string) bool         { return r.names.Registered(id) }
func (r *Registry) IsRegisteredFunction(id string) bool     { return r.funs.Registered(id) }
func (r *Registry) IsRegisteredMetaVariable(id string) bool { return r.metaVars.Registered(id) }
func (r *Registry) IsRegisteredFormula(id string) bool      { return r.formulas.Registered(id) }

// IsRegisteredTerm reports whether id names any kind of term: variable,
// name, or meta-variable (functions are symbols, not terms, so they are
// deliberately excluded — mirrors the reference implementation).
func (r *Registry) IsRegisteredTerm(id string) bool {
	return r.IsRegisteredVariable(id) || r.IsRegisteredName(id) || r.IsRegisteredMetaVariable(id)
}

// LookupSort, LookupVariable, ... resolve id in the corresponding naming
// space, or report a NotFound error.
func (r *Registry) LookupSort(id string) (term.Sort, error)   { return r.sorts.Lookup(id) }
func (r *Registry) LookupVariable(id string) (term.Term, error) { return r.vars.Lookup(id) }
func (r *Registry) LookupName(id string) (term.Term, error)     { return r.names.Lookup(id) }
func (r *Registry) LookupFunction(id string) (term.Symbol, error) { return r.funs.Lookup(id) }
func (r *Registry) LookupMetaVariable(id string) (term.Term, error) {
	return r.metaVars.Lookup(id)
}
func (r *Registry) LookupFormula(id string) (*formula.Formula, error) {
	return r.formulas.Lookup(id)
}
