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

package term

import (
	"fmt"
	"strings"
)

// node is the hash-consed representation backing a Term.  Term identity is
// pointer identity on *node: two Terms are equal iff they share a node.
type node struct {
	symbol Symbol
	args   []Term
	// seq records allocation order.  It gives Terms a total order and a
	// cheap hash without resorting to unsafe.Pointer arithmetic.
	seq uint64
}

// Term is an opaque, hash-consed first-order term: a variable, a name, or a
// function symbol applied to a sequence of argument Terms.  Terms compare
// by identity, not by structure — obtaining two structurally identical
// terms from the same Factory always yields the same Term.
type Term struct {
	n *node
}

// Sort returns the sort of this term.
func (t Term) Sort() Sort { return t.n.symbol.sort }

// Kind returns whether this term is a variable, name or function
// application.
func (t Term) Kind() Kind { return t.n.symbol.kind }

// Symbol returns the underlying symbol (the function symbol for function
// applications, or the variable/name symbol itself otherwise).
func (t Term) Symbol() Symbol { return t.n.symbol }

// Variable returns true iff this term is a variable.
func (t Term) Variable() bool { return t.n.symbol.kind == VariableKind }

// Name returns true iff this term is a standard name.
func (t Term) Name() bool { return t.n.symbol.kind == NameKind }

// Function returns true iff this term is a function application.
func (t Term) Function() bool { return t.n.symbol.kind == FunctionKind }

// Arity returns the number of arguments this term was applied to.
func (t Term) Arity() uint { return uint(len(t.n.args)) }

// Args returns this term's arguments.  Empty for variables and names.
func (t Term) Args() []Term { return t.n.args }

// Primitive reports whether this term is a function application every one
// of whose arguments is a name or a variable — the grounded shape a literal
// needs before it can appear in a clause.
func (t Term) Primitive() bool {
	if !t.Function() {
		return false
	}
	return t.Quasiprimitive()
}

// Quasiprimitive reports whether every argument of this term is a name or a
// variable. Vacuously true for variables and names themselves, since they
// have no arguments; used by Flatten to decide whether a subterm still
// needs lifting out of its enclosing literal.
func (t Term) Quasiprimitive() bool {
	for _, a := range t.n.args {
		if !a.Variable() && !a.Name() {
			return false
		}
	}
	return true
}

// Equal reports whether two Terms are the same hash-consed term.
func (t Term) Equal(o Term) bool { return t.n == o.n }

// Cmp gives Terms a total, deterministic (within a single Factory's
// lifetime) order based on allocation sequence. Used to keep clause
// literals and unit stores sorted.
func (t Term) Cmp(o Term) int {
	if t.n == o.n {
		return 0
	} else if t.n.seq < o.n.seq {
		return -1
	}
	return 1
}

// Hash returns a cheap, deterministic hash suitable for hash-set buckets
// and Bloom filter probes. It is the allocation sequence number, not a
// cryptographic digest.
func (t Term) Hash() uint64 { return t.n.seq }

func (t Term) String() string {
	if t.Arity() == 0 {
		return t.n.symbol.String()
	}
	parts := make([]string, len(t.n.args))
	for i, a := range t.n.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.n.symbol.String(), strings.Join(parts, ","))
}
