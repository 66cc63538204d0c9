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

// Package optimizer implements the pluggable suggest/register contract
// the experiment driver drives the configuration search with.
package optimizer

import (
	"context"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// Target selects which direction a score is optimized in. Exactly one of
// Minimize or Maximize may be requested by a caller building a Target;
// there is no zero-value "neither" target.
type Target struct {
	Metric   string
	Maximize bool
}

// NewTarget constructs a Target. Specifying both maximize and minimize
// is a caller-level configuration error rather than a Target concern:
// callers express direction via the single maximize flag.
func NewTarget(metric string, maximize bool) Target {
	return Target{Metric: metric, Maximize: maximize}
}

// signed returns the score used for modeling: minimization is native, so
// a maximize target negates the observed score.
func (t Target) signed(score float64) float64 {
	if t.Maximize {
		return -score
	}
	return score
}

// Observation is one past (configuration, status, score) tuple fed to
// BulkRegister when warm-starting from prior runs.
type Observation struct {
	Tunables *tunables.TunableGroups
	Status   status.Status
	Score    *float64
}

// Optimizer is the polymorphic suggest/register contract, implemented by
// RandomOptimizer and MockOptimizer. Callers construct a variant directly;
// there is no lookup of variants by name.
type Optimizer interface {
	// Suggest returns a copy of the configuration space with each
	// tunable assigned a value. Successive calls may return duplicates;
	// callers are responsible for de-duplication if desired.
	Suggest(ctx context.Context) (*tunables.TunableGroups, error)

	// Register reports one trial's outcome. score must be present iff
	// st is status.Succeeded; violating this fails with
	// tunerr.KindInconsistentObservation. It returns the signed score
	// actually used for modeling (negated when maximizing).
	Register(ctx context.Context, tg *tunables.TunableGroups, st status.Status, score *float64) (float64, error)

	// BulkRegister feeds a batch of prior observations in one call, used
	// to warm-start the optimizer from storage.
	BulkRegister(ctx context.Context, observations []Observation) error

	// BestObservation returns the best score/configuration seen so far.
	// Either both fields are present or both are nil.
	BestObservation() (score *float64, tg *tunables.TunableGroups)

	// NotConverged reports whether the driver should keep suggesting.
	NotConverged() bool
}
