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

	"github.com/spf13/cobra"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/storage"
)

type experimentsOptions struct {
	g       *Globals
	streams *IOStreams

	experimentID string
	targetMetric string
	maximize     bool
	format       string
}

func newExperimentsCommand(g *Globals, streams *IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiments",
		Short: "Inspect experiments recorded by storage",
	}
	cmd.AddCommand(newExperimentsDescribeCommand(g, streams))
	return cmd
}

func newExperimentsDescribeCommand(g *Globals, streams *IOStreams) *cobra.Command {
	o := &experimentsOptions{g: g, streams: streams}
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize an experiment's trial counts and best score",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.describe(cmd)
		},
	}
	cmd.Flags().StringVar(&o.experimentID, "experiment-id", "", "experiment id to describe")
	cmd.Flags().StringVar(&o.targetMetric, "target-metric", "score", "name of the score to optimize")
	cmd.Flags().BoolVar(&o.maximize, "maximize", false, "the target metric was maximized rather than minimized")
	cmd.Flags().StringVarP(&o.format, "output", "o", "", "output format: json, yaml, or empty for a summary")
	_ = cmd.MarkFlagRequired("experiment-id")
	return cmd
}

func (o *experimentsOptions) describe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	var backend storage.Storage = storage.NewMemoryStorage()

	lister, ok := backend.(storage.Lister)
	if !ok {
		return fmt.Errorf("storage backend does not support listing trials")
	}
	key := storage.ExperimentKey{ExperimentID: o.experimentID, TargetMetric: o.targetMetric}
	trials, err := lister.ListTrials(ctx, key)
	if err != nil {
		return err
	}

	p := Printer{Format: o.format}
	return p.PrintExperiment(o.streams.Out, summarize(o.experimentID, o.targetMetric, o.maximize, trials))
}

// summarize reduces a trial list to the counts and best score an
// "experiments describe" caller wants, independent of how the trials
// were fetched.
func summarize(experimentID, targetMetric string, maximize bool, trials []*storage.Trial) ExperimentSummary {
	summary := ExperimentSummary{ExperimentID: experimentID, TargetMetric: targetMetric, TrialCount: len(trials)}
	for _, t := range trials {
		if t.Status == status.Pending {
			summary.PendingCount++
		}
		score, ok := t.Scores[targetMetric]
		if !ok {
			continue
		}
		if summary.BestScore == nil || (maximize && score > *summary.BestScore) || (!maximize && score < *summary.BestScore) {
			s := score
			summary.BestScore = &s
		}
	}
	return summary
}
