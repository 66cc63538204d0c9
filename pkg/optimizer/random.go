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
	"math/rand"

	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// RandomOptimizer suggests uniformly random assignments over the
// configuration space described by a template TunableGroups, respecting
// each tunable's kind, range, quantization and label set.
type RandomOptimizer struct {
	bookkeeping

	template *tunables.TunableGroups
	rng      *rand.Rand
}

// NewRandomOptimizer returns a RandomOptimizer over template's
// configuration space. seed makes suggestions reproducible.
func NewRandomOptimizer(template *tunables.TunableGroups, target Target, maxIterations int, seed int64) *RandomOptimizer {
	return &RandomOptimizer{
		bookkeeping: newBookkeeping(target, maxIterations),
		template:    template,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Suggest implements Optimizer.
func (r *RandomOptimizer) Suggest(ctx context.Context) (*tunables.TunableGroups, error) {
	suggestion := r.template.Copy()
	for _, name := range suggestion.Names() {
		g, _ := suggestion.Group(name)
		for _, tn := range g.Tunables() {
			v := r.randomValue(tn)
			if err := tn.Assign(v); err != nil {
				return nil, err
			}
		}
	}
	return suggestion, nil
}

func (r *RandomOptimizer) randomValue(tn *tunables.Tunable) tunables.Value {
	if tn.Kind() == tunables.KindCategorical {
		labels := tn.Labels()
		return tunables.StringValue(labels[r.rng.Intn(len(labels))])
	}
	if values, ok := tn.QuantizedValues(); ok {
		return values[r.rng.Intn(len(values))]
	}
	rng := tn.Range()
	x := rng.Min + r.rng.Float64()*(rng.Max-rng.Min)
	if tn.Kind() == tunables.KindInteger {
		return tunables.IntValue(int64(x))
	}
	return tunables.FloatValue(x)
}
