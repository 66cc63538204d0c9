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

	"github.com/tunebench-io/tunebench/pkg/storage"
)

// trialsOptions backs "trials list": it opens a fresh store of the kind
// a run would use and lists whatever it holds for the named experiment.
// The bundled in-memory Storage is created empty on every invocation, so
// the command lists no trials against it; a durable Storage
// implementation would make this command useful across invocations.
type trialsOptions struct {
	g       *Globals
	streams *IOStreams

	experimentID string
	targetMetric string
	format       string
}

func newTrialsCommand(g *Globals, streams *IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trials",
		Short: "Inspect trials recorded by storage",
	}
	cmd.AddCommand(newTrialsListCommand(g, streams))
	return cmd
}

func newTrialsListCommand(g *Globals, streams *IOStreams) *cobra.Command {
	o := &trialsOptions{g: g, streams: streams}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the trials recorded for an experiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.list(cmd)
		},
	}
	cmd.Flags().StringVar(&o.experimentID, "experiment-id", "", "experiment id to list trials for")
	cmd.Flags().StringVar(&o.targetMetric, "target-metric", "score", "score name to display in the score column")
	cmd.Flags().StringVarP(&o.format, "output", "o", "", "output format: json, yaml, or empty for a table")
	_ = cmd.MarkFlagRequired("experiment-id")
	return cmd
}

func (o *trialsOptions) list(cmd *cobra.Command) error {
	ctx := cmd.Context()
	var backend storage.Storage = storage.NewMemoryStorage()

	lister, ok := backend.(storage.Lister)
	if !ok {
		return fmt.Errorf("storage backend does not support listing trials")
	}
	trials, err := lister.ListTrials(ctx, storage.ExperimentKey{ExperimentID: o.experimentID})
	if err != nil {
		return err
	}

	rows := make([]TrialRow, len(trials))
	for i, t := range trials {
		row := TrialRow{ID: t.ID, Status: string(t.Status)}
		if score, ok := t.Scores[o.targetMetric]; ok {
			row.Score = &score
		}
		rows[i] = row
	}

	p := Printer{Format: o.format}
	return p.PrintTrials(o.streams.Out, rows)
}
