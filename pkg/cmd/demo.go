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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epistemic-go/limbo/pkg/clause"
	"github.com/epistemic-go/limbo/pkg/formula"
	"github.com/epistemic-go/limbo/pkg/registry"
	"github.com/epistemic-go/limbo/pkg/setup"
	"github.com/epistemic-go/limbo/pkg/term"
)

// demoCmd runs a small fixed scenario through the Registry, Setup and
// Formula normalizer, printing what each stage produces. It exists to
// exercise the core end to end from a single entry point; a real front end
// would drive the same Registry/Setup/NF calls from a parsed problem file
// instead of this hard-coded scenario.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a fixed knowledge-base scenario and print each stage's result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo()
	},
}

func runDemo() error {
	fac := term.NewFactory()
	reg := registry.New(fac, registry.NewLogrusLogger(log))

	if err := reg.RegisterSort("object"); err != nil {
		return fmt.Errorf("register sort: %w", err)
	}
	if err := reg.RegisterName("a", "object"); err != nil {
		return fmt.Errorf("register name a: %w", err)
	}
	if err := reg.RegisterName("b", "object"); err != nil {
		return fmt.Errorf("register name b: %w", err)
	}
	if err := reg.RegisterFunction("f", 0, "object"); err != nil {
		return fmt.Errorf("register function f: %w", err)
	}

	a, _ := reg.LookupName("a")
	b, _ := reg.LookupName("b")
	fsym, _ := reg.LookupFunction("f")
	fn := fac.NewTerm(fsym, nil)

	s := setup.New()
	unit := clause.UnitClause(clause.Eq(fn, a))
	disj := clause.New(clause.Eq(fn, a), clause.Eq(fn, b))

	reg.Logger().AddToKb(formula.Atomic(unit), s.AddClause(unit) != setup.Inconsistent)
	reg.Logger().AddToKb(formula.Atomic(disj), s.AddClause(disj) != setup.Inconsistent)
	s.Minimize()

	fmt.Println("setup after Minimize:")
	for i := 0; i < s.NumSlots(); i++ {
		fmt.Printf("  %s\n", s.Clause(i))
	}

	probe := clause.UnitClause(clause.Eq(fn, b))
	yes := s.Subsumes(probe)
	reg.Logger().Query(formula.Atomic(probe), yes)
	fmt.Printf("Subsumes(%s) = %v\n", probe, yes)

	know := formula.Know(1, formula.Not(formula.Atomic(disj)))
	nf := formula.NF(know, fac, true)
	fmt.Printf("NF(Know(1, ¬(%s))) = %s\n", disj, nf)

	return nil
}
