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
	"bytes"
	"strings"
	"testing"
)

func TestPrintTrialsTableFormat(t *testing.T) {
	score := 3.5
	var buf bytes.Buffer
	p := Printer{}
	if err := p.PrintTrials(&buf, []TrialRow{
		{ID: "t1", Status: "succeeded", Score: &score},
		{ID: "t2", Status: "pending"},
	}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "t1") || !strings.Contains(out, "3.5") {
		t.Fatalf("expected scored trial row, got:\n%s", out)
	}
	if !strings.Contains(out, "t2") || !strings.Contains(out, "-") {
		t.Fatalf("expected unscored trial row with a placeholder, got:\n%s", out)
	}
}

func TestPrintTrialsJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Format: "json"}
	if err := p.PrintTrials(&buf, []TrialRow{{ID: "t1", Status: "pending"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"id": "t1"`) {
		t.Fatalf("expected indented json, got:\n%s", buf.String())
	}
}

func TestPrintExperimentYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Format: "yaml"}
	if err := p.PrintExperiment(&buf, ExperimentSummary{ExperimentID: "exp1", TargetMetric: "score", TrialCount: 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "experimentId: exp1") {
		t.Fatalf("expected yaml output, got:\n%s", buf.String())
	}
}
