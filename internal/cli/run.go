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
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunebench-io/tunebench/pkg/config"
	"github.com/tunebench-io/tunebench/pkg/driver"
	"github.com/tunebench-io/tunebench/pkg/optimizer"
	"github.com/tunebench-io/tunebench/pkg/storage"
)

// runOptions backs both the "run" and "resume" commands: resuming an
// experiment is the same trial loop started against an already-known
// experiment id, rather than a freshly minted one.
type runOptions struct {
	g       *Globals
	streams *IOStreams

	experimentID  string
	targetMetric  string
	maximize      bool
	maxIterations int
	seed          int64
	groups        []string

	requireExperimentID bool
}

func newRunCommand(g *Globals, streams *IOStreams) *cobra.Command {
	o := &runOptions{g: g, streams: streams}
	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Run a new experiment to convergence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}
	o.addFlags(cmd)
	return cmd
}

func newResumeCommand(g *Globals, streams *IOStreams) *cobra.Command {
	o := &runOptions{g: g, streams: streams, requireExperimentID: true}
	cmd := &cobra.Command{
		Use:   "resume <config>",
		Short: "Resume a previously started experiment's pending trials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}
	o.addFlags(cmd)
	return cmd
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.experimentID, "experiment-id", "", "experiment id; generated for run, required for resume")
	cmd.Flags().StringVar(&o.targetMetric, "target-metric", "score", "name of the score to optimize")
	cmd.Flags().BoolVar(&o.maximize, "maximize", false, "maximize the target metric instead of minimizing it")
	cmd.Flags().IntVar(&o.maxIterations, "max-iterations", 25, "optimizer iteration limit; suggest/register rounds continue while the iteration count is at most this value")
	cmd.Flags().Int64Var(&o.seed, "seed", 1, "random seed for the built-in optimizer")
	cmd.Flags().StringArrayVar(&o.groups, "group", nil, "tunable group name to vary; may be repeated, defaults to every group")
}

func (o *runOptions) run(cmd *cobra.Command, configRef string) error {
	ctx := cmd.Context()

	if o.experimentID == "" {
		if o.requireExperimentID {
			return fmt.Errorf("resume requires --experiment-id")
		}
		o.experimentID = uuid.NewString()
	}

	loader := config.NewLoader(o.g.ConfigPath)
	bundle, err := loader.Load(ctx, configRef)
	if err != nil {
		return err
	}
	if bundle.Tunables == nil {
		return fmt.Errorf("config %q declares no tunables", configRef)
	}
	if bundle.Root == nil {
		return fmt.Errorf("config %q declares no root environment", configRef)
	}

	groups := o.groups
	if len(groups) == 0 {
		groups = bundle.Tunables.Names()
	}

	target := optimizer.NewTarget(o.targetMetric, o.maximize)
	opt := optimizer.NewRandomOptimizer(bundle.Tunables, target, o.maxIterations, o.seed)
	store := storage.NewMemoryStorage()
	drv := driver.New(bundle.Root, opt, store, groups, bundle.GlobalConfig, o.g.Log)

	key := storage.ExperimentKey{
		ExperimentID:  o.experimentID,
		RootHash:      bundle.Tunables.Hash(),
		TargetMetric:  o.targetMetric,
		SchemaVersion: "1.0.0",
	}

	runFunc := func() tea.Msg {
		score, err := drv.Run(ctx, key)
		return resultMsg{score: score, err: err}
	}

	m := newRunModel(o.experimentID, runFunc)
	p := tea.NewProgram(m, tea.WithInput(o.streams.In), tea.WithOutput(o.streams.Out))
	if err := p.Start(); err != nil {
		return err
	}
	return m.err
}
