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
	"github.com/spf13/cobra"
)

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	rainconfigPath string
	verbose        bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "dotrain",
		Short:         "Parse and compose dotrain source files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.rainconfigPath, "rainconfig", "", "path to a rainconfig.yaml settings file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "dump parse trees to stderr")

	root.AddCommand(newComposeCmd(flags))
	root.AddCommand(newRainconfigCmd(flags))
	return root
}
