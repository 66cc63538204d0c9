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

package tunables

import "github.com/tunebench-io/tunebench/pkg/tunerr"

// TunableGroup is a named set of tunables with an associated cost. Groups
// are the unit of covariance: an environment declares the groups it
// consumes.
type TunableGroup struct {
	name     string
	cost     float64
	tunables []*Tunable
}

// NewTunableGroup constructs a group from a name, cost and member
// tunables. Tunable names within a group must be unique.
func NewTunableGroup(name string, cost float64, tunables []*Tunable) (*TunableGroup, error) {
	seen := make(map[string]bool, len(tunables))
	for _, tn := range tunables {
		if seen[tn.Name()] {
			return nil, tunerr.New(tunerr.KindConfigInvalid, "group %q: duplicate tunable %q", name, tn.Name())
		}
		seen[tn.Name()] = true
	}
	return &TunableGroup{name: name, cost: cost, tunables: append([]*Tunable(nil), tunables...)}, nil
}

// Name returns the group's name.
func (g *TunableGroup) Name() string { return g.name }

// Cost returns the group's configured cost.
func (g *TunableGroup) Cost() float64 { return g.cost }

// Tunables returns the group's member tunables in declaration order.
func (g *TunableGroup) Tunables() []*Tunable { return g.tunables }

// Tunable looks up a member tunable by name.
func (g *TunableGroup) Tunable(name string) (*Tunable, bool) {
	for _, tn := range g.tunables {
		if tn.Name() == name {
			return tn, true
		}
	}
	return nil, false
}

// Copy returns a deep copy of the group sharing no mutable state with g.
func (g *TunableGroup) Copy() *TunableGroup {
	c := &TunableGroup{name: g.name, cost: g.cost, tunables: make([]*Tunable, len(g.tunables))}
	for i, tn := range g.tunables {
		c.tunables[i] = tn.Copy()
	}
	return c
}
