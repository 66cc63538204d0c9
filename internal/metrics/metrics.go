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

// Package metrics exposes the driver's own iteration and trial counters
// on a Prometheus /metrics endpoint. This is the ambient observability
// concern the teacher wires its controllers with via
// github.com/prometheus/client_golang; the trial control plane has no
// use for the teacher's Prometheus *query* client (internal/metric), only
// for the instrumentation half of the same dependency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tunebench-io/tunebench/pkg/status"
)

// Recorder holds the counters and histogram a single driver run reports.
// Registered against a private registry (never the global
// prometheus.DefaultRegisterer) so multiple Recorders can coexist in the
// same process, e.g. across table-driven tests.
type Recorder struct {
	registry *prometheus.Registry

	trialsTotal     *prometheus.CounterVec
	iterationsTotal prometheus.Counter
	trialDuration   prometheus.Histogram
}

// NewRecorder returns a Recorder with its own private registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	return &Recorder{
		registry: reg,
		trialsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "tunebench",
			Name:      "trials_total",
			Help:      "Total number of trials completed, by terminal status.",
		}, []string{"status"}),
		iterationsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "tunebench",
			Name:      "optimizer_iterations_total",
			Help:      "Total number of optimizer suggest/register rounds completed.",
		}),
		trialDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "tunebench",
			Name:      "trial_duration_seconds",
			Help:      "Wall-clock duration of a single trial's setup+run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveTrial records one completed trial's terminal status and its
// setup+run duration in seconds.
func (r *Recorder) ObserveTrial(st status.Status, durationSeconds float64) {
	r.trialsTotal.WithLabelValues(st.String()).Inc()
	r.trialDuration.Observe(durationSeconds)
}

// IncIteration records one completed optimizer suggest/register round.
func (r *Recorder) IncIteration() {
	r.iterationsTotal.Inc()
}

// Handler returns the http.Handler serving this Recorder's metrics in
// the Prometheus exposition format, suitable for mounting at /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
