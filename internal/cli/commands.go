/*
Copyright 2026 The Tunebench Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/tunebench-io/tunebench/internal/log"
)

// Globals holds the persistent flag values shared across every
// sub-command, assembled once by the root command's PersistentPreRunE.
type Globals struct {
	ConfigPath []string
	Verbosity  int

	Log logr.Logger
}

// NewRootCommand builds the tunebench root command and attaches every
// leaf command.
func NewRootCommand() *cobra.Command {
	g := &Globals{}
	streams := &IOStreams{}

	rootCmd := &cobra.Command{
		Use:               "tunebench",
		Short:             "Closed-loop performance tuning trial control plane",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			SetStreams(streams, cmd)
			g.Log = log.New(streams.ErrOut, g.Verbosity)
		},
	}

	rootCmd.PersistentFlags().StringArrayVar(&g.ConfigPath, "config-path", nil, "additional directory to search for referenced config documents, may be repeated")
	rootCmd.PersistentFlags().CountVarP(&g.Verbosity, "verbose", "v", "increase logging verbosity, may be repeated")

	rootCmd.AddCommand(newRunCommand(g, streams))
	rootCmd.AddCommand(newResumeCommand(g, streams))
	rootCmd.AddCommand(newTrialsCommand(g, streams))
	rootCmd.AddCommand(newExperimentsCommand(g, streams))
	rootCmd.AddCommand(newVersionCommand(streams))

	return rootCmd
}
