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

import "fmt"

// Kind distinguishes the two ways a registry lookup can fail. Neither is
// silent: every Register/Lookup method that can fail returns one of these
// wrapped in an Error, never a bare bool or a zero value standing in for
// failure.
type Kind uint8

const (
	// Duplicate means an id is already bound in a registry that does not
	// permit overwriting (registering the same id twice).
	Duplicate Kind = iota
	// NotFound means a lookup or unregister missed: no id bound.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Duplicate:
		return "duplicate"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error reports a registry contract violation: a duplicate registration or
// a lookup/unregister against an id that was never bound. Space is the
// name of the sub-registry involved (sort, variable, name, function,
// meta-variable, formula), which callers use to build precise diagnostics
// without parsing the message string.
type Error struct {
	Kind  Kind
	Space string
	ID    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("registry: %s %s: %q", e.Space, e.Kind, e.ID)
}

// Is lets errors.Is(err, registry.ErrDuplicate) and errors.Is(err,
// registry.ErrNotFound) match regardless of which sub-registry or id
// produced the error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Space == "" || t.Space == e.Space)
}

// ErrDuplicate and ErrNotFound are sentinels for errors.Is against any
// registry.Error, irrespective of space or id.
var (
	ErrDuplicate = &Error{Kind: Duplicate}
	ErrNotFound  = &Error{Kind: NotFound}
)
