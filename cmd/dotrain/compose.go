// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/rainlanguage/dotrain/compose"
	"github.com/rainlanguage/dotrain/document"
	"github.com/rainlanguage/dotrain/internal/config"
	"github.com/rainlanguage/dotrain/internal/diag"
	"github.com/rainlanguage/dotrain/meta"
	"github.com/rainlanguage/dotrain/rainlang"
)

type composeFlags struct {
	entrypoints []string
	binds       []string
	localOnly   bool
}

func newComposeCmd(g *globalFlags) *cobra.Command {
	cf := &composeFlags{}
	cmd := &cobra.Command{
		Use:   "compose <file.rain>",
		Short: "Compose one or more entrypoint bindings into rainlang text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, g, cf, args[0])
		},
	}
	cmd.Flags().StringSliceVarP(&cf.entrypoints, "entrypoint", "e", nil, "binding name to compose (repeatable)")
	cmd.Flags().StringArrayVar(&cf.binds, "bind", nil, "quoted key=value override, shlex-tokenized")
	cmd.Flags().BoolVar(&cf.localOnly, "local-data-only", false, "never attempt a remote meta search")
	return cmd
}

// parseBinds tokenizes a `--bind` value with shlex so operators can pass
// shell-quoted rebind expressions (e.g. `--bind 'name="a value"'`) without
// the caller having to hand-roll its own quoting rules. Order is preserved
// so synthesized bindings land in a deterministic, input-order sequence.
func parseBinds(values []string) ([]document.Rebind, error) {
	var out []document.Rebind
	for _, v := range values {
		tokens, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("invalid --bind %q: %w", v, err)
		}
		for _, tok := range tokens {
			k, val, ok := strings.Cut(tok, "=")
			if !ok {
				return nil, fmt.Errorf("invalid --bind token %q, want key=value", tok)
			}
			out = append(out, document.Rebind{Name: k, Value: val})
		}
	}
	return out, nil
}

func runCompose(cmd *cobra.Command, g *globalFlags, cf *composeFlags, path string) error {
	runID := diag.NewRunID()

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	settings, err := config.Load(g.rainconfigPath)
	if err != nil {
		return err
	}

	binds, err := parseBinds(cf.binds)
	if err != nil {
		return err
	}
	if g.verbose && len(binds) > 0 {
		diag.Dump(cmd.ErrOrStderr(), "binds", binds)
	}

	var words []rainlang.KnownWord
	for _, w := range settings.Words {
		words = append(words, rainlang.KnownWord{Word: w})
	}

	var store meta.Store
	if !cf.localOnly {
		store = meta.NewMemStore()
	}

	doc := document.Parse(context.Background(), string(src), document.Options{
		Store:      store,
		Subgraphs:  settings.Subgraphs,
		KnownWords: words,
		Rebinds:    binds,
	})

	if g.verbose {
		diag.Dump(cmd.ErrOrStderr(), "raindocument", doc)
	}

	entrypoints := cf.entrypoints
	if len(entrypoints) == 0 {
		return fmt.Errorf("at least one --entrypoint is required")
	}

	text, err := compose.Compose(doc, entrypoints)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	if g.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s complete\n", runID)
	}
	return nil
}
