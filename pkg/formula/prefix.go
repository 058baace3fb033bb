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

import "github.com/epistemic-go/limbo/pkg/term"

// prefixOp is one element of a Prefix: either a Not or an Exists binder.
// Ordering matters — Not and Exists elements interleave, and a run of
// Exists elements does not collapse the Nots around it.
type prefixOp struct {
	isNot bool
	x     term.Term
}

// Prefix is an ordered sequence of Not/Exists quantifier operations that
// have been pulled off the outside of a formula during Normalize's Or-merge
// step. It exists because pulling two atomics' prefixes apart, merging
// their clauses, and re-wrapping the result must reproduce the exact nesting
// the prefixes originally had — a bare parity counter plus a flat list of
// existentials is not enough: PrependTo re-applies every element, not just
// the odd Not left over after cancellation.
type Prefix struct {
	ops []prefixOp
}

// PrependNot adds a Not as the new outermost element.
func (p *Prefix) PrependNot() {
	p.ops = append([]prefixOp{{isNot: true}}, p.ops...)
}

// AppendNot adds a Not as the new innermost element.
func (p *Prefix) AppendNot() {
	p.ops = append(p.ops, prefixOp{isNot: true})
}

// PrependExists adds an Exists x as the new outermost element.
func (p *Prefix) PrependExists(x term.Term) {
	p.ops = append([]prefixOp{{x: x}}, p.ops...)
}

// AppendExists adds an Exists x as the new innermost element.
func (p *Prefix) AppendExists(x term.Term) {
	p.ops = append(p.ops, prefixOp{x: x})
}

// Size returns the number of elements in the prefix.
func (p Prefix) Size() int { return len(p.ops) }

// Even reports whether the prefix contains an even number of Not elements.
func (p Prefix) Even() bool {
	n := 0
	for _, op := range p.ops {
		if op.isNot {
			n++
		}
	}
	return n%2 == 0
}

// PrependTo wraps alpha in every element of the prefix, innermost element
// first, preserving the exact order the elements were inserted in.
func (p Prefix) PrependTo(alpha *Formula) *Formula {
	for i := len(p.ops) - 1; i >= 0; i-- {
		op := p.ops[i]
		if op.isNot {
			alpha = Not(alpha)
		} else {
			alpha = Exists(op.x, alpha)
		}
	}
	return alpha
}

// quantifierPrefix strips every leading Not/Exists off f, returning the
// accumulated Prefix and the first non-Not, non-Exists formula underneath.
// Any other Formula kind is its own quantifier_prefix base case: an empty
// Prefix over itself.
func quantifierPrefix(f *Formula) (Prefix, *Formula) {
	switch f.kind {
	case NotKind:
		p, base := quantifierPrefix(f.arg)
		p.PrependNot()
		return p, base
	case ExistsKind:
		p, base := quantifierPrefix(f.arg)
		p.PrependExists(f.variable)
		return p, base
	default:
		return Prefix{}, f
	}
}
