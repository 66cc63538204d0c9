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
	"sync"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// bookkeeping implements the Register/BulkRegister/BestObservation/
// NotConverged machinery shared by every concrete Optimizer: iteration
// counting, the InconsistentObservation check, and best-so-far tracking
// under the configured Target. Concrete optimizers embed it and only
// need to implement Suggest.
type bookkeeping struct {
	mu sync.Mutex

	target        Target
	maxIterations int

	iterations  int
	bestSigned  *float64
	bestScore   *float64
	bestTunable *tunables.TunableGroups
}

func newBookkeeping(target Target, maxIterations int) bookkeeping {
	return bookkeeping{target: target, maxIterations: maxIterations}
}

// Register implements Optimizer.Register's shared bookkeeping.
func (b *bookkeeping) Register(ctx context.Context, tg *tunables.TunableGroups, st status.Status, score *float64) (float64, error) {
	if (st == status.Succeeded) != (score != nil) {
		return 0, tunerr.New(tunerr.KindInconsistentObservation, "score must be present iff status is succeeded (status=%s, score-present=%v)", st, score != nil)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.iterations++

	if score == nil {
		return 0, nil
	}
	signed := b.target.signed(*score)
	if b.bestSigned == nil || signed < *b.bestSigned {
		b.bestSigned = &signed
		s := *score
		b.bestScore = &s
		b.bestTunable = tg.Copy()
	}
	return signed, nil
}

// BulkRegister implements Optimizer.BulkRegister's shared bookkeeping.
func (b *bookkeeping) BulkRegister(ctx context.Context, observations []Observation) error {
	for _, o := range observations {
		if _, err := b.Register(ctx, o.Tunables, o.Status, o.Score); err != nil {
			return err
		}
	}
	return nil
}

// BestObservation implements Optimizer.BestObservation.
func (b *bookkeeping) BestObservation() (*float64, *tunables.TunableGroups) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bestScore == nil {
		return nil, nil
	}
	s := *b.bestScore
	return &s, b.bestTunable.Copy()
}

// NotConverged implements Optimizer.NotConverged's default criterion:
// true while the iteration counter is at or below max_iterations.
// maxIterations <= 0 means unbounded.
func (b *bookkeeping) NotConverged() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.maxIterations <= 0 {
		return true
	}
	return b.iterations <= b.maxIterations
}

// Iterations returns the number of Register calls observed so far.
func (b *bookkeeping) Iterations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.iterations
}
