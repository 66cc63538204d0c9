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
	"testing"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/storage"
)

func TestSummarizePicksMinimumByDefault(t *testing.T) {
	trials := []*storage.Trial{
		{ID: "a", Status: status.Succeeded, Scores: map[string]float64{"score": 5}},
		{ID: "b", Status: status.Succeeded, Scores: map[string]float64{"score": 2}},
		{ID: "c", Status: status.Pending},
	}
	summary := summarize("exp1", "score", false, trials)

	if summary.TrialCount != 3 || summary.PendingCount != 1 {
		t.Fatalf("got %+v", summary)
	}
	if summary.BestScore == nil || *summary.BestScore != 2 {
		t.Fatalf("expected best score 2, got %v", summary.BestScore)
	}
}

func TestSummarizePicksMaximumWhenRequested(t *testing.T) {
	trials := []*storage.Trial{
		{ID: "a", Status: status.Succeeded, Scores: map[string]float64{"score": 5}},
		{ID: "b", Status: status.Succeeded, Scores: map[string]float64{"score": 2}},
	}
	summary := summarize("exp1", "score", true, trials)
	if summary.BestScore == nil || *summary.BestScore != 5 {
		t.Fatalf("expected best score 5, got %v", summary.BestScore)
	}
}

func TestSummarizeIgnoresTrialsMissingTheTargetMetric(t *testing.T) {
	trials := []*storage.Trial{
		{ID: "a", Status: status.Failed, Scores: nil},
	}
	summary := summarize("exp1", "score", false, trials)
	if summary.BestScore != nil {
		t.Fatalf("expected no best score, got %v", summary.BestScore)
	}
}
