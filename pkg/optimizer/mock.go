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

package optimizer

import (
	"context"

	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// MockOptimizer replays a fixed SuggestFunc, sharing the same
// Register/BestObservation/NotConverged bookkeeping as every other
// Optimizer so driver tests observe realistic convergence behavior.
type MockOptimizer struct {
	bookkeeping

	SuggestFunc func(iteration int) (*tunables.TunableGroups, error)
	calls       int
}

// NewMockOptimizer returns a MockOptimizer driven by suggest.
func NewMockOptimizer(suggest func(iteration int) (*tunables.TunableGroups, error), target Target, maxIterations int) *MockOptimizer {
	return &MockOptimizer{bookkeeping: newBookkeeping(target, maxIterations), SuggestFunc: suggest}
}

// Suggest implements Optimizer.
func (m *MockOptimizer) Suggest(ctx context.Context) (*tunables.TunableGroups, error) {
	m.calls++
	return m.SuggestFunc(m.calls)
}
