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

// Package environment implements the environment state machine: a tree
// of setup/run/teardown nodes representing a host, a workload, or both.
package environment

import (
	"context"

	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// Result is the row-like structure a successful Run produces, indexed by
// metric name.
type Result map[string]float64

// Telemetry is an opportunistic snapshot reported by Status; its shape is
// node-kind specific and opaque to callers other than for logging.
type Telemetry map[string]any

// Node is a setup/run/teardown/status lifecycle participant. Both Setup
// and Teardown must be idempotent: repeated invocation with identical
// arguments yields the same observable state and the same result.
type Node interface {
	// Name returns the node's configured name.
	Name() string

	// Setup moves the node from fresh (or torn-down) to ready, merging
	// tunables, const_args and global overrides into the node's
	// parameter dict. It reports whether the node became ready.
	Setup(ctx context.Context, group *tunables.TunableGroups, globalConfig service.Params) (bool, error)

	// Run fires only once the node is ready; it blocks until a terminal
	// status is reached.
	Run(ctx context.Context) (status.Status, Result, error)

	// Teardown may attempt remote cleanup but must never propagate an
	// error to the caller: failures are only ever logged.
	Teardown(ctx context.Context)

	// Status returns an opportunistic telemetry snapshot without
	// blocking for a terminal state.
	Status(ctx context.Context) (status.Status, Telemetry)

	// IsReady reports whether the last Setup call succeeded.
	IsReady() bool
}
