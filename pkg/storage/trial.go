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

// Package storage implements the experiment/trial persistence trait: a
// transactional experiment scope and the trials it owns.
package storage

import (
	"time"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// Trial is one concrete execution of an environment with a specific
// tunable assignment. Its tunable snapshot is frozen at creation; once
// terminal, a Trial is immutable.
type Trial struct {
	ID           string
	ExperimentID string
	Tunables     *tunables.TunableGroups
	Status       status.Status
	Scores       map[string]float64
	Telemetry    map[string]any
	StartedAt    time.Time
	EndedAt      time.Time
}

// IsPending reports whether the trial has been created but never
// terminally updated.
func (t *Trial) IsPending() bool { return t.Status == status.Pending }

// IsTerminal reports whether the trial has reached a terminal status.
func (t *Trial) IsTerminal() bool { return t.Status.IsTerminal() }

// Copy returns a deep copy of t.
func (t *Trial) Copy() *Trial {
	c := *t
	if t.Tunables != nil {
		c.Tunables = t.Tunables.Copy()
	}
	if t.Scores != nil {
		c.Scores = make(map[string]float64, len(t.Scores))
		for k, v := range t.Scores {
			c.Scores[k] = v
		}
	}
	if t.Telemetry != nil {
		c.Telemetry = make(map[string]any, len(t.Telemetry))
		for k, v := range t.Telemetry {
			c.Telemetry[k] = v
		}
	}
	return &c
}

// Observation is the (configuration, status, score) view of a completed
// trial the experiment driver feeds to an optimizer's bulk register.
type Observation struct {
	Tunables *tunables.TunableGroups
	Status   status.Status
	Score    *float64
}
