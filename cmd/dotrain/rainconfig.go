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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRainconfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rainconfig",
		Short: "Inspect rainconfig and document front matter",
	}
	cmd.AddCommand(newRainconfigInfoCmd(g))
	return cmd
}

func newRainconfigInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.rain>",
		Short: "Print a dotrain file's front matter as parsed YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			span := frontMatterText(string(raw))
			if span == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(no front matter)")
				return nil
			}
			var doc yaml.Node
			if err := yaml.Unmarshal([]byte(span), &doc); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "front matter is not valid YAML: %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), span)
				return nil
			}
			out, err := yaml.Marshal(&doc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// frontMatterText extracts a dotrain source's leading `---`-delimited
// front-matter block, if present, for best-effort YAML display only; the
// document package's own parser never attempts a structured YAML parse of
// it, since dotrain front matter is informational and not load-bearing for
// compilation.
func frontMatterText(src string) string {
	if !strings.HasPrefix(src, "---\n") {
		return ""
	}
	rest := src[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		return ""
	}
	return rest[:idx]
}
