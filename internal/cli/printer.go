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
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Printer renders a value to an output stream in one of the supported
// formats: table (the zero value), json, or yaml.
type Printer struct {
	Format string
}

// PrintTrials renders rows as a table, or as json/yaml when Format says
// so.
func (p Printer) PrintTrials(w io.Writer, rows []TrialRow) error {
	switch p.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		return yaml.NewEncoder(w).Encode(rows)
	default:
		tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTATUS\tSCORE")
		for _, r := range rows {
			score := "-"
			if r.Score != nil {
				score = fmt.Sprintf("%g", *r.Score)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Status, score)
		}
		return tw.Flush()
	}
}

// PrintExperiment renders a single experiment summary in the requested
// format.
func (p Printer) PrintExperiment(w io.Writer, e ExperimentSummary) error {
	switch p.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	case "yaml":
		return yaml.NewEncoder(w).Encode(e)
	default:
		fmt.Fprintf(w, "experiment:       %s\n", e.ExperimentID)
		fmt.Fprintf(w, "target metric:    %s\n", e.TargetMetric)
		fmt.Fprintf(w, "trials:           %d\n", e.TrialCount)
		fmt.Fprintf(w, "pending:          %d\n", e.PendingCount)
		if e.BestScore != nil {
			fmt.Fprintf(w, "best score:       %g\n", *e.BestScore)
		}
		return nil
	}
}

// TrialRow is the flattened view of a storage.Trial the printer renders.
type TrialRow struct {
	ID     string   `json:"id" yaml:"id"`
	Status string   `json:"status" yaml:"status"`
	Score  *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ExperimentSummary is the flattened view of an experiment's trial list
// the printer renders for "experiments describe".
type ExperimentSummary struct {
	ExperimentID string   `json:"experimentId" yaml:"experimentId"`
	TargetMetric string   `json:"targetMetric" yaml:"targetMetric"`
	TrialCount   int      `json:"trialCount" yaml:"trialCount"`
	PendingCount int      `json:"pendingCount" yaml:"pendingCount"`
	BestScore    *float64 `json:"bestScore,omitempty" yaml:"bestScore,omitempty"`
}
