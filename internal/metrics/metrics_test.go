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

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tunebench-io/tunebench/pkg/status"
)

func TestRecorderExposesObservedMetrics(t *testing.T) {
	r := NewRecorder()
	r.ObserveTrial(status.Succeeded, 1.5)
	r.ObserveTrial(status.Failed, 0.25)
	r.IncIteration()
	r.IncIteration()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`tunebench_trials_total{status="succeeded"} 1`,
		`tunebench_trials_total{status="failed"} 1`,
		"tunebench_optimizer_iterations_total 2",
		"tunebench_trial_duration_seconds_count 2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q, got:\n%s", want, body)
		}
	}
}

func TestRecorderIsolatesRegistries(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	a.IncIteration()

	reqA := httptest.NewRequest("GET", "/metrics", nil)
	recA := httptest.NewRecorder()
	a.Handler().ServeHTTP(recA, reqA)

	reqB := httptest.NewRequest("GET", "/metrics", nil)
	recB := httptest.NewRecorder()
	b.Handler().ServeHTTP(recB, reqB)

	if !strings.Contains(recA.Body.String(), "tunebench_optimizer_iterations_total 1") {
		t.Fatalf("recorder a missing its own increment:\n%s", recA.Body.String())
	}
	if strings.Contains(recB.Body.String(), "tunebench_optimizer_iterations_total 1") {
		t.Fatalf("recorder b leaked recorder a's state:\n%s", recB.Body.String())
	}
}
