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

package setup

// ShallowCopy is a scope-bound snapshot token. It records the Setup's
// current empty_clause flag, the size of its unit store and a copy of its
// clause entries on creation, and restores exactly those three items on
// Drop — regardless of what AddUnit calls happened in between. Units are
// only ever appended inside a scope, so truncating them suffices; the clause
// entries are copied because AddUnit's propagation drops and rewrites them
// in place. This supersedes the older parent-pointer design, where each
// branch kept its own suffix and clause(i) had to walk a chain.
//
// A ShallowCopy is non-copyable and non-movable: at most one may be live
// per Setup at a time, enforced by Setup.shallowLive. While one is live,
// the owning Setup accepts AddUnit calls only; AddClause and Minimize both
// panic.
type ShallowCopy struct {
	setup *Setup

	savedEmpty   bool
	savedUnits   int
	savedClauses []entry

	dropped bool
}

// Shallow opens a ShallowCopy scope on s. Panics if a scope is already
// live on this Setup.
func (s *Setup) Shallow() *ShallowCopy {
	if s.shallowLive {
		panic("setup: a ShallowCopy is already live on this Setup")
	}
	s.shallowLive = true
	return &ShallowCopy{
		setup:        s,
		savedEmpty:   s.emptyClause,
		savedUnits:   s.units.Size(),
		savedClauses: append([]entry(nil), s.clauses...),
	}
}

// Drop restores the Setup to its pre-create state: the same empty_clause
// flag, the same units vector, the same clauses vector, bit for bit. Safe
// to call more than once; only the first call has an effect.
func (sc *ShallowCopy) Drop() {
	if sc.dropped {
		return
	}
	sc.dropped = true
	s := sc.setup
	s.units.Truncate(sc.savedUnits)
	s.clauses = sc.savedClauses
	s.emptyClause = sc.savedEmpty
	s.shallowLive = false
}
