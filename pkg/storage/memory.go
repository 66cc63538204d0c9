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
	"fmt"
	"sync"

	"github.com/google/uuid"
	hcversion "github.com/hashicorp/go-version"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// MemoryStorage is an in-process Storage implementation: experiment
// scopes and their trials live only for the process lifetime. It backs
// tests and the mock end-to-end scenarios; a durable backend can
// implement the same Storage/ExperimentScope contract against a real
// database.
type MemoryStorage struct {
	mu     sync.Mutex
	scopes map[string]*memoryScope
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{scopes: make(map[string]*memoryScope)}
}

// OpenExperiment implements Storage.
func (s *MemoryStorage) OpenExperiment(ctx context.Context, key ExperimentKey) (ExperimentScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.scopes[key.ExperimentID]; ok {
		if err := checkCompatible(existing.key, key); err != nil {
			return nil, err
		}
		return existing, nil
	}

	scope := &memoryScope{key: key, trials: make(map[string]*Trial)}
	s.scopes[key.ExperimentID] = scope
	return scope, nil
}

// ListTrials implements Lister.
func (s *MemoryStorage) ListTrials(ctx context.Context, key ExperimentKey) ([]*Trial, error) {
	s.mu.Lock()
	scope, ok := s.scopes[key.ExperimentID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	scope.mu.Lock()
	defer scope.mu.Unlock()

	out := make([]*Trial, 0, len(scope.order))
	for _, id := range scope.order {
		out = append(out, scope.trials[id].Copy())
	}
	return out, nil
}

func checkCompatible(have, want ExperimentKey) error {
	if have.RootHash != want.RootHash {
		return tunerr.New(tunerr.KindExperimentMismatch, "experiment %q: root environment hash changed (%s -> %s)", want.ExperimentID, have.RootHash, want.RootHash)
	}
	if have.TargetMetric != want.TargetMetric {
		return tunerr.New(tunerr.KindExperimentMismatch, "experiment %q: target metric changed (%s -> %s)", want.ExperimentID, have.TargetMetric, want.TargetMetric)
	}
	if have.SchemaVersion == "" || want.SchemaVersion == "" {
		return nil
	}
	haveVersion, err := hcversion.NewVersion(have.SchemaVersion)
	if err != nil {
		return tunerr.Wrap(tunerr.KindExperimentMismatch, err, "experiment %q: invalid stored schema version %q", want.ExperimentID, have.SchemaVersion)
	}
	wantVersion, err := hcversion.NewVersion(want.SchemaVersion)
	if err != nil {
		return tunerr.Wrap(tunerr.KindExperimentMismatch, err, "experiment %q: invalid schema version %q", want.ExperimentID, want.SchemaVersion)
	}
	if haveVersion.Segments()[0] != wantVersion.Segments()[0] {
		return tunerr.New(tunerr.KindExperimentMismatch, "experiment %q: incompatible schema version (stored %s, requested %s)", want.ExperimentID, haveVersion, wantVersion)
	}
	return nil
}

type memoryScope struct {
	mu     sync.Mutex
	key    ExperimentKey
	trials map[string]*Trial
	order  []string
}

func (s *memoryScope) Key() ExperimentKey { return s.key }

func (s *memoryScope) LoadObservations(ctx context.Context) ([]Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Observation
	for _, id := range s.order {
		t := s.trials[id]
		if !t.IsTerminal() {
			continue
		}
		obs := Observation{Tunables: t.Tunables, Status: t.Status}
		if score, ok := t.Scores[s.key.TargetMetric]; ok {
			s := score
			obs.Score = &s
		}
		out = append(out, obs)
	}
	return out, nil
}

func (s *memoryScope) PendingTrials(ctx context.Context) ([]*Trial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Trial
	for _, id := range s.order {
		t := s.trials[id]
		if t.IsPending() {
			out = append(out, t.Copy())
		}
	}
	return out, nil
}

func (s *memoryScope) CreateTrial(ctx context.Context, tg *tunables.TunableGroups) (*Trial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Trial{
		ID:           uuid.NewString(),
		ExperimentID: s.key.ExperimentID,
		Tunables:     tg.Copy(),
		Status:       status.Pending,
	}
	s.trials[t.ID] = t
	s.order = append(s.order, t.ID)
	return t.Copy(), nil
}

func (s *memoryScope) StartTrial(ctx context.Context, trialID string) (*Trial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trials[trialID]
	if !ok {
		return nil, fmt.Errorf("trial %q not found", trialID)
	}
	if t.Status != status.Pending {
		return nil, fmt.Errorf("trial %q: cannot start from status %s", trialID, t.Status)
	}
	t.Status = status.Running
	return t.Copy(), nil
}

func (s *memoryScope) RecordTelemetry(ctx context.Context, trialID string, telemetry map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trials[trialID]
	if !ok {
		return fmt.Errorf("trial %q not found", trialID)
	}
	if t.IsTerminal() {
		return fmt.Errorf("trial %q: cannot record telemetry in terminal status %s", trialID, t.Status)
	}
	t.Telemetry = telemetry
	return nil
}

func (s *memoryScope) CompleteTrial(ctx context.Context, trialID string, st status.Status, scores map[string]float64) (*Trial, error) {
	if !st.IsTerminal() {
		return nil, fmt.Errorf("trial %q: %s is not a terminal status", trialID, st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trials[trialID]
	if !ok {
		return nil, fmt.Errorf("trial %q not found", trialID)
	}
	if t.Status != status.Running {
		return nil, fmt.Errorf("trial %q: cannot complete from status %s, only running->terminal is permitted", trialID, t.Status)
	}
	t.Status = st
	t.Scores = scores
	return t.Copy(), nil
}
