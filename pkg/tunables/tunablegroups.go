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

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// TunableGroups is a set of named tunable groups, the unit the optimizer
// and environments exchange configuration through.
type TunableGroups struct {
	groups map[string]*TunableGroup
	order  []string
}

// NewTunableGroups constructs a collection from groups; group names must
// be unique per experiment.
func NewTunableGroups(groups []*TunableGroup) (*TunableGroups, error) {
	tg := &TunableGroups{groups: make(map[string]*TunableGroup, len(groups))}
	for _, g := range groups {
		if _, dup := tg.groups[g.Name()]; dup {
			return nil, tunerr.New(tunerr.KindConfigInvalid, "duplicate tunable group %q", g.Name())
		}
		tg.groups[g.Name()] = g
		tg.order = append(tg.order, g.Name())
	}
	return tg, nil
}

// Names returns group names in declaration order.
func (tg *TunableGroups) Names() []string { return append([]string(nil), tg.order...) }

// Group looks up a group by name.
func (tg *TunableGroups) Group(name string) (*TunableGroup, bool) {
	g, ok := tg.groups[name]
	return g, ok
}

// Subgroup returns a new collection containing only the named groups, in
// the order requested. Unknown names are a ConfigInvalid error.
func (tg *TunableGroups) Subgroup(names []string) (*TunableGroups, error) {
	sub := &TunableGroups{groups: make(map[string]*TunableGroup, len(names))}
	for _, n := range names {
		g, ok := tg.groups[n]
		if !ok {
			return nil, tunerr.New(tunerr.KindConfigInvalid, "unknown tunable group %q", n)
		}
		sub.groups[n] = g
		sub.order = append(sub.order, n)
	}
	return sub, nil
}

// Merge returns a new collection combining tg with other; on a group name
// conflict, other's group wins.
func (tg *TunableGroups) Merge(other *TunableGroups) *TunableGroups {
	m := &TunableGroups{groups: make(map[string]*TunableGroup, len(tg.groups)+len(other.groups))}
	for _, n := range tg.order {
		m.groups[n] = tg.groups[n]
		m.order = append(m.order, n)
	}
	for _, n := range other.order {
		if _, exists := m.groups[n]; !exists {
			m.order = append(m.order, n)
		}
		m.groups[n] = other.groups[n]
	}
	return m
}

// GetParamValues produces a flat name->value map combining the current
// value of every tunable in groupNames with baseline: baseline values
// survive unless a named group overwrites them.
func (tg *TunableGroups) GetParamValues(groupNames []string, baseline map[string]Value) (map[string]Value, error) {
	out := make(map[string]Value, len(baseline))
	for k, v := range baseline {
		out[k] = v
	}
	for _, n := range groupNames {
		g, ok := tg.groups[n]
		if !ok {
			return nil, tunerr.New(tunerr.KindConfigInvalid, "unknown tunable group %q", n)
		}
		for _, tn := range g.Tunables() {
			out[tn.Name()] = tn.Current()
		}
	}
	return out, nil
}

// Copy returns a deep copy sharing no mutable state with tg.
func (tg *TunableGroups) Copy() *TunableGroups {
	c := &TunableGroups{groups: make(map[string]*TunableGroup, len(tg.groups)), order: append([]string(nil), tg.order...)}
	for n, g := range tg.groups {
		c.groups[n] = g.Copy()
	}
	return c
}

// Equal reports whether tg and o have the same groups with equal member
// tunables (ignoring declaration order).
func (tg *TunableGroups) Equal(o *TunableGroups) bool {
	if len(tg.groups) != len(o.groups) {
		return false
	}
	for n, g := range tg.groups {
		og, ok := o.groups[n]
		if !ok || len(g.Tunables()) != len(og.Tunables()) {
			return false
		}
		for _, tn := range g.Tunables() {
			otn, ok := og.Tunable(tn.Name())
			if !ok || !tn.Equal(otn) {
				return false
			}
		}
	}
	return true
}

type sortableTriple struct {
	name    string
	kind    Kind
	current string
}

// Hash returns a stable digest derived from (name, kind, current value)
// triples of every member tunable, sorted canonically so that two
// collections with the same content hash identically regardless of
// construction order.
func (tg *TunableGroups) Hash() string {
	var triples []sortableTriple
	for _, g := range tg.groups {
		for _, tn := range g.Tunables() {
			triples = append(triples, sortableTriple{name: tn.Name(), kind: tn.Kind(), current: tn.Current().String()})
		}
	}
	sort.Slice(triples, func(i, j int) bool {
		if triples[i].name != triples[j].name {
			return triples[i].name < triples[j].name
		}
		if triples[i].kind != triples[j].kind {
			return triples[i].kind < triples[j].kind
		}
		return triples[i].current < triples[j].current
	})
	h := sha256.New()
	for _, t := range triples {
		h.Write([]byte(t.name))
		h.Write([]byte{0})
		h.Write([]byte(t.kind))
		h.Write([]byte{0})
		h.Write([]byte(t.current))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// tunableJSON and groupJSON are the wire representations used by
// MarshalJSON/UnmarshalJSON; they carry every unexported field of
// Tunable and TunableGroup under an exported, JSON-tagged name.
type tunableJSON struct {
	Name         string         `json:"name"`
	Kind         Kind           `json:"kind"`
	Default      Value          `json:"default"`
	Current      Value          `json:"current"`
	Range        *Range         `json:"range,omitempty"`
	Log          bool           `json:"log,omitempty"`
	Quantization float64        `json:"quantization,omitempty"`
	Distribution *Distribution  `json:"distribution,omitempty"`
	Special      []SpecialValue `json:"special,omitempty"`
	Labels       []string       `json:"labels,omitempty"`
	LabelWeights []float64      `json:"label_weights,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
}

type groupJSON struct {
	Name     string        `json:"name"`
	Cost     float64       `json:"cost,omitempty"`
	Tunables []tunableJSON `json:"tunables"`
}

// MarshalJSON writes the collection as an ordered list of groups.
func (tg *TunableGroups) MarshalJSON() ([]byte, error) {
	groups := make([]groupJSON, 0, len(tg.order))
	for _, n := range tg.order {
		g := tg.groups[n]
		gj := groupJSON{Name: g.Name(), Cost: g.Cost()}
		for _, tn := range g.Tunables() {
			gj.Tunables = append(gj.Tunables, tunableJSON{
				Name:         tn.Name(),
				Kind:         tn.Kind(),
				Default:      tn.Default(),
				Current:      tn.Current(),
				Range:        tn.Range(),
				Log:          tn.LogScale(),
				Quantization: tn.Quantization(),
				Distribution: tn.Distribution(),
				Special:      tn.SpecialValues(),
				Labels:       tn.Labels(),
				LabelWeights: tn.LabelWeights(),
				Meta:         tn.Metadata(),
			})
		}
		groups = append(groups, gj)
	}
	return json.Marshal(groups)
}

// UnmarshalJSON reads the collection from the ordered-group-list wire
// format written by MarshalJSON.
func (tg *TunableGroups) UnmarshalJSON(b []byte) error {
	var groups []groupJSON
	if err := json.Unmarshal(b, &groups); err != nil {
		return err
	}
	tg.groups = make(map[string]*TunableGroup, len(groups))
	tg.order = nil
	for _, gj := range groups {
		tunables := make([]*Tunable, 0, len(gj.Tunables))
		for _, tj := range gj.Tunables {
			tn := &Tunable{
				name:         tj.Name,
				kind:         tj.Kind,
				def:          tj.Default,
				current:      tj.Current,
				rng:          tj.Range,
				log:          tj.Log,
				quantization: tj.Quantization,
				distribution: tj.Distribution,
				special:      tj.Special,
				labels:       tj.Labels,
				labelWeights: tj.LabelWeights,
				meta:         tj.Meta,
			}
			tunables = append(tunables, tn)
		}
		g := &TunableGroup{name: gj.Name, cost: gj.Cost, tunables: tunables}
		tg.groups[g.Name()] = g
		tg.order = append(tg.order, g.Name())
	}
	return nil
}
