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

package storage

import (
	"context"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// ExperimentKey identifies an experiment scope: an experiment id, a
// root-environment descriptor hash, the optimization target metric name,
// and a schema version string (compared with semantic-version
// compatibility rules, not string equality).
type ExperimentKey struct {
	ExperimentID  string
	RootHash      string
	TargetMetric  string
	SchemaVersion string
}

// ExperimentScope is a transactional boundary: all trial creations,
// updates and reads within one scope see a consistent view. The storage
// scope holds a handle only the driver holds at any time.
type ExperimentScope interface {
	// Key returns the scope's identifying key.
	Key() ExperimentKey

	// LoadObservations returns every terminally-resolved trial
	// previously recorded in this scope, for optimizer warm-start.
	// Trials recorded under other experiment ids are not included.
	LoadObservations(ctx context.Context) ([]Observation, error)

	// PendingTrials returns trials created but never terminally
	// updated, for driver-restart recovery.
	PendingTrials(ctx context.Context) ([]*Trial, error)

	// CreateTrial allocates and persists a new pending trial bound to
	// tg's snapshot.
	CreateTrial(ctx context.Context, tg *tunables.TunableGroups) (*Trial, error)

	// StartTrial moves a trial from pending to running.
	StartTrial(ctx context.Context, trialID string) (*Trial, error)

	// RecordTelemetry attaches an opportunistic telemetry snapshot to a
	// non-terminal trial; it never affects status.
	RecordTelemetry(ctx context.Context, trialID string, telemetry map[string]any) error

	// CompleteTrial moves a running trial to a terminal status,
	// recording its score map. It is the only way a trial's Scores are
	// set; once complete the trial never changes again.
	CompleteTrial(ctx context.Context, trialID string, st status.Status, scores map[string]float64) (*Trial, error)
}

// Storage opens experiment scopes, verifying compatibility with any
// prior runs recorded under the same experiment id.
type Storage interface {
	// OpenExperiment opens (creating if absent) the scope for key. If an
	// experiment with the same ExperimentID already exists with a
	// different RootHash, TargetMetric, or an incompatible
	// SchemaVersion, it fails with tunerr.KindExperimentMismatch.
	OpenExperiment(ctx context.Context, key ExperimentKey) (ExperimentScope, error)
}

// Lister is implemented by Storage backends that can enumerate every
// trial in a scope directly, for introspection tools (e.g. a CLI's
// trials list command) outside the driver's own pending/observation
// access pattern.
type Lister interface {
	ListTrials(ctx context.Context, key ExperimentKey) ([]*Trial, error)
}
