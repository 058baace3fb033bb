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
	"github.com/sirupsen/logrus"

	"github.com/epistemic-go/limbo/pkg/formula"
	"github.com/epistemic-go/limbo/pkg/term"
)

// Logger is notified of every naming-context event and every knowledge-base
// mutation/query the Registry drives, one method per event kind. It mirrors
// the reference implementation's functor-over-a-tagged-union design, split
// into a conventional Go interface since there is no call for the original's
// single dispatch point once each event carries its own method.
//
// Implementations must not block or panic: a Logger observes, it never
// vetoes. The zero value of NoopLogger is always a valid Logger.
type Logger interface {
	RegisterSort(id string)
	RegisterVariable(id, sortID string)
	RegisterName(id, sortID string)
	RegisterFunction(id string, arity uint, sortID string)
	RegisterMetaVariable(id string, t term.Term)
	RegisterFormula(id string, phi *formula.Formula)
	UnregisterMetaVariable(id string)
	AddToKb(alpha *formula.Formula, accepted bool)
	Query(phi *formula.Formula, yes bool)
}

// NoopLogger discards every event. It is the Registry's default so that
// constructing one never requires picking a concrete Logger.
type NoopLogger struct{}

func (NoopLogger) RegisterSort(string)                     {}
func (NoopLogger) RegisterVariable(string, string)          {}
func (NoopLogger) RegisterName(string, string)              {}
func (NoopLogger) RegisterFunction(string, uint, string)    {}
func (NoopLogger) RegisterMetaVariable(string, term.Term)   {}
func (NoopLogger) RegisterFormula(string, *formula.Formula) {}
func (NoopLogger) UnregisterMetaVariable(string)            {}
func (NoopLogger) AddToKb(*formula.Formula, bool)           {}
func (NoopLogger) Query(*formula.Formula, bool)             {}

// LogrusLogger reports every event as a structured logrus entry. This is
// the Logger a CLI front-end normally installs: --verbose maps directly to
// the underlying logrus level, and every event becomes one field-tagged
// line rather than a fixed printf format.
type LogrusLogger struct {
	Entry *logrus.Entry
}

// NewLogrusLogger wraps l (or logrus.StandardLogger() if l is nil) as a
// Logger.
func NewLogrusLogger(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{Entry: l.WithField("component", "registry")}
}

func (g LogrusLogger) RegisterSort(id string) {
	g.Entry.WithField("id", id).Debug("register sort")
}

func (g LogrusLogger) RegisterVariable(id, sortID string) {
	g.Entry.WithFields(logrus.Fields{"id": id, "sort": sortID}).Debug("register variable")
}

func (g LogrusLogger) RegisterName(id, sortID string) {
	g.Entry.WithFields(logrus.Fields{"id": id, "sort": sortID}).Debug("register name")
}

func (g LogrusLogger) RegisterFunction(id string, arity uint, sortID string) {
	g.Entry.WithFields(logrus.Fields{"id": id, "arity": arity, "sort": sortID}).Debug("register function")
}

func (g LogrusLogger) RegisterMetaVariable(id string, t term.Term) {
	g.Entry.WithFields(logrus.Fields{"id": id, "term": t.String()}).Debug("register meta-variable")
}

func (g LogrusLogger) RegisterFormula(id string, phi *formula.Formula) {
	g.Entry.WithFields(logrus.Fields{"id": id, "formula": phi.String()}).Debug("register formula")
}

func (g LogrusLogger) UnregisterMetaVariable(id string) {
	g.Entry.WithField("id", id).Debug("unregister meta-variable")
}

func (g LogrusLogger) AddToKb(alpha *formula.Formula, accepted bool) {
	g.Entry.WithFields(logrus.Fields{"formula": alpha.String(), "accepted": accepted}).Info("add to kb")
}

func (g LogrusLogger) Query(phi *formula.Formula, yes bool) {
	g.Entry.WithFields(logrus.Fields{"formula": phi.String(), "yes": yes}).Info("query")
}
