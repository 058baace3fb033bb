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

// Package term implements the ground/variable term layer of the reasoner:
// sorts, symbols and hash-consed terms.  Everything here is deliberately
// small and low-level; the parser-facing registry in package registry is
// what gives these opaque identities human-readable names.
package term

import "fmt"

// Sort is a small integer tag tracking which domain a term belongs to (the
// reasoner never interprets sorts itself; it only uses them to avoid
// allocating a fresh variable of the wrong kind during Rectify/Flatten).
type Sort uint32

// Kind classifies what a Term (or the Symbol underlying it) represents.
type Kind uint8

const (
	// VariableKind identifies a bound or free logic variable.
	VariableKind Kind = iota
	// NameKind identifies a standard name: a rigid, pairwise-distinct
	// constant under the unique-names assumption.
	NameKind
	// FunctionKind identifies a function symbol applied to zero or more
	// arguments (nullary function symbols act like plain constants, but
	// unlike names they are not assumed pairwise distinct).
	FunctionKind
)

func (k Kind) String() string {
	switch k {
	case VariableKind:
		return "variable"
	case NameKind:
		return "name"
	case FunctionKind:
		return "function"
	default:
		return "unknown"
	}
}

// Symbol is the identity of a variable, name or function.  Symbols are
// allocated by a Factory and compared by id, never by structure: two
// Symbols with the same kind/sort/arity are still distinct unless they were
// handed out by the same allocation.
type Symbol struct {
	id    uint64
	kind  Kind
	sort  Sort
	arity uint8
}

// Sort returns the sort this symbol belongs to.
func (s Symbol) Sort() Sort { return s.sort }

// Kind returns whether this is a variable, name or function symbol.
func (s Symbol) Kind() Kind { return s.kind }

// Arity returns the number of arguments a function symbol expects.  Always
// zero for variables and names.
func (s Symbol) Arity() uint { return uint(s.arity) }

// Variable returns true iff this symbol identifies a variable.
func (s Symbol) Variable() bool { return s.kind == VariableKind }

// Name returns true iff this symbol identifies a standard name.
func (s Symbol) Name() bool { return s.kind == NameKind }

// Function returns true iff this symbol identifies a function.
func (s Symbol) Function() bool { return s.kind == FunctionKind }

// Id returns the symbol's allocation-order identity, exposed so registries
// built on top of this package can key their own lookup tables on it.
func (s Symbol) Id() uint64 { return s.id }

func (s Symbol) String() string {
	switch s.kind {
	case VariableKind:
		return fmt.Sprintf("x%d", s.id)
	case NameKind:
		return fmt.Sprintf("#%d", s.id)
	default:
		return fmt.Sprintf("f%d/%d", s.id, s.arity)
	}
}
