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
	"math"

	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// Kind identifies the domain of a Tunable's values.
type Kind string

const (
	KindInteger     Kind = "integer"
	KindReal        Kind = "real"
	KindCategorical Kind = "categorical"
)

// Distribution describes an optional prior over a numeric tunable's
// range, consulted only by external optimizers; the core package never
// interprets the parameters numerically.
type Distribution struct {
	Name   string             `json:"type"`
	Params map[string]float64 `json:"params,omitempty"`
}

// SpecialValue is a value outside a numeric tunable's normal range that
// is still a legal assignment, with an optional selection weight.
type SpecialValue struct {
	Value  Value   `json:"value"`
	Weight float64 `json:"weight,omitempty"`
}

// Range is a closed numeric interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Unbounded is the cardinality sentinel for tunables with no finite
// enumeration (continuous, unquantized numeric tunables).
const Unbounded = -1

// Tunable is a single named, constrained parameter.
type Tunable struct {
	name string
	kind Kind

	def     Value
	current Value

	rng          *Range
	log          bool
	quantization float64
	distribution *Distribution
	special      []SpecialValue

	labels       []string
	labelWeights []float64

	meta map[string]any
}

// NewNumeric constructs an integer or real tunable with the given range.
// The default value becomes the current value; it must satisfy IsValid.
func NewNumeric(name string, kind Kind, def Value, rng Range) (*Tunable, error) {
	if kind != KindInteger && kind != KindReal {
		return nil, tunerr.New(tunerr.KindConfigInvalid, "tunable %q: numeric constructor requires integer or real kind", name)
	}
	t := &Tunable{name: name, kind: kind, rng: &rng}
	if err := t.Assign(def); err != nil {
		return nil, err
	}
	t.def = t.current
	return t, nil
}

// NewCategorical constructs a categorical tunable with the given label set.
func NewCategorical(name string, def Value, labels []string) (*Tunable, error) {
	if len(labels) == 0 {
		return nil, tunerr.New(tunerr.KindConfigInvalid, "tunable %q: categorical requires at least one label", name)
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return nil, tunerr.New(tunerr.KindConfigInvalid, "tunable %q: duplicate label %q", name, l)
		}
		seen[l] = true
	}
	t := &Tunable{name: name, kind: KindCategorical, labels: append([]string(nil), labels...)}
	if err := t.Assign(def); err != nil {
		return nil, err
	}
	t.def = t.current
	return t, nil
}

// SetLabelWeights attaches optional selection weights to a categorical
// tunable's labels, in the same order as Labels(). It fails if the
// tunable is not categorical or the slice length doesn't match the
// label count.
func (t *Tunable) SetLabelWeights(weights []float64) error {
	if t.kind != KindCategorical {
		return tunerr.New(tunerr.KindConfigInvalid, "tunable %q: label weights require a categorical tunable", t.name)
	}
	if len(weights) != len(t.labels) {
		return tunerr.New(tunerr.KindConfigInvalid, "tunable %q: %d label weights for %d labels", t.name, len(weights), len(t.labels))
	}
	t.labelWeights = append([]float64(nil), weights...)
	return nil
}

// LabelWeights returns the categorical tunable's per-label selection
// weights, or nil if none were set.
func (t *Tunable) LabelWeights() []float64 { return t.labelWeights }

// Name returns the tunable's name.
func (t *Tunable) Name() string { return t.name }

// Kind returns the tunable's kind.
func (t *Tunable) Kind() Kind { return t.kind }

// Default returns the tunable's default value.
func (t *Tunable) Default() Value { return t.def }

// Current returns the tunable's current value.
func (t *Tunable) Current() Value { return t.current }

// Range returns the numeric range, or nil for categorical tunables.
func (t *Tunable) Range() *Range { return t.rng }

// Labels returns the categorical label set, or nil for numeric tunables.
func (t *Tunable) Labels() []string { return t.labels }

// SetLogScale marks a numeric tunable as log-scaled. It has no effect on
// core semantics; it is round-tripped for consumption by optimizers.
func (t *Tunable) SetLogScale(v bool) { t.log = v }

// LogScale reports whether the tunable is log-scaled.
func (t *Tunable) LogScale() bool { return t.log }

// SetQuantization sets the quantization step (integers default to 1 when
// unset). Zero disables quantization.
func (t *Tunable) SetQuantization(step float64) { t.quantization = step }

// Quantization returns the configured quantization step, or zero if unset.
func (t *Tunable) Quantization() float64 { return t.quantization }

// SetDistribution attaches an optional prior distribution descriptor.
func (t *Tunable) SetDistribution(d *Distribution) { t.distribution = d }

// Distribution returns the attached prior distribution descriptor, if any.
func (t *Tunable) Distribution() *Distribution { return t.distribution }

// SetSpecialValues attaches special out-of-range values with weights.
func (t *Tunable) SetSpecialValues(values []SpecialValue) { t.special = values }

// SpecialValues returns the attached special values.
func (t *Tunable) SpecialValues() []SpecialValue { return t.special }

// SetMetadata attaches free-form metadata.
func (t *Tunable) SetMetadata(m map[string]any) { t.meta = m }

// Metadata returns the attached free-form metadata.
func (t *Tunable) Metadata() map[string]any { return t.meta }

// IsValid reports whether v satisfies the kind-specific predicate for
// this tunable without mutating it: in-range, on the quantization grid
// if one is set, or in the special set for numeric tunables; in the
// label list for categorical ones. Special values are exempt from the
// grid check, since they are by definition outside the normal range.
func (t *Tunable) IsValid(v Value) bool {
	switch t.kind {
	case KindCategorical:
		if !v.IsString() {
			return false
		}
		for _, l := range t.labels {
			if l == v.String() {
				return true
			}
		}
		return false
	default:
		if v.IsString() {
			return false
		}
		f, err := v.Float64()
		if err != nil {
			return false
		}
		if t.rng != nil && f >= t.rng.Min && f <= t.rng.Max {
			if t.kind == KindInteger {
				if _, ierr := v.Int64(); ierr != nil {
					return false
				}
			}
			if t.quantization > 0 && !onGrid(f, t.rng.Min, t.quantization) {
				return false
			}
			return true
		}
		for _, sp := range t.special {
			sf, err := sp.Value.Float64()
			if err == nil && sf == f {
				return true
			}
		}
		return false
	}
}

// onGrid reports whether f lies on the quantization grid anchored at
// min with the given step, within floating-point tolerance.
func onGrid(f, min, step float64) bool {
	steps := (f - min) / step
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// Assign coerces and validates value, updating Current on success.
// Fails with KindInvalidValue if out of range/not in the label set, or
// KindPrecisionLoss when a non-integral float is assigned to an integer
// tunable.
func (t *Tunable) Assign(v Value) error {
	if t.kind == KindInteger && !v.IsString() {
		f, ferr := v.Float64()
		if ferr == nil {
			if _, ierr := v.Int64(); ierr != nil {
				return tunerr.New(tunerr.KindPrecisionLoss, "tunable %q: value %v is not integral", t.name, f)
			}
		}
	}
	if !t.IsValid(v) {
		return tunerr.New(tunerr.KindInvalidValue, "tunable %q: value %v is not a valid assignment", t.name, v)
	}
	t.current = v
	return nil
}

// Cardinality returns the number of distinct assignable values: for
// categorical tunables the label count, for integer tunables and
// quantized real tunables the number of quantization steps in range
// (unit steps for an integer with no quantization set), and Unbounded
// for unquantized real tunables.
func (t *Tunable) Cardinality() int {
	switch t.kind {
	case KindCategorical:
		return len(t.labels)
	case KindInteger:
		q := t.quantization
		if q <= 0 {
			q = 1
		}
		return int((t.rng.Max-t.rng.Min)/q) + 1
	default: // real
		if t.quantization <= 0 {
			return Unbounded
		}
		return int((t.rng.Max-t.rng.Min)/t.quantization) + 1
	}
}

// QuantizedValues returns the finite sequence of values steppable by the
// quantization factor (or the unit step for integers). For continuous
// (real, unquantized) tunables it returns ok=false: callers must not
// enumerate an unbounded cardinality.
func (t *Tunable) QuantizedValues() (values []Value, ok bool) {
	if t.kind == KindCategorical {
		values = make([]Value, len(t.labels))
		for i, l := range t.labels {
			values[i] = StringValue(l)
		}
		return values, true
	}
	card := t.Cardinality()
	if card == Unbounded {
		return nil, false
	}
	q := t.quantization
	if q <= 0 {
		q = 1
	}
	values = make([]Value, 0, card)
	for i := 0; i < card; i++ {
		x := t.rng.Min + float64(i)*q
		if x > t.rng.Max+1e-9 {
			break
		}
		if t.kind == KindInteger {
			values = append(values, IntValue(int64(math.Round(x))))
		} else {
			values = append(values, FloatValue(x))
		}
	}
	return values, true
}

// Equal reports whether two tunables compare equal: same name, kind and
// current value.
func (t *Tunable) Equal(o *Tunable) bool {
	return t.name == o.name && t.kind == o.kind && t.current.Equal(o.current)
}

// Less provides the total order over (name, kind, value) used to compare
// tunables canonically (for hashing and deterministic iteration).
func (t *Tunable) Less(o *Tunable) bool {
	if t.name != o.name {
		return t.name < o.name
	}
	if t.kind != o.kind {
		return t.kind < o.kind
	}
	return t.current.Less(o.current)
}

// Copy returns a deep copy sharing no mutable state with t.
func (t *Tunable) Copy() *Tunable {
	c := *t
	if t.rng != nil {
		r := *t.rng
		c.rng = &r
	}
	if t.distribution != nil {
		d := Distribution{Name: t.distribution.Name, Params: make(map[string]float64, len(t.distribution.Params))}
		for k, v := range t.distribution.Params {
			d.Params[k] = v
		}
		c.distribution = &d
	}
	c.special = append([]SpecialValue(nil), t.special...)
	c.labels = append([]string(nil), t.labels...)
	c.labelWeights = append([]float64(nil), t.labelWeights...)
	if t.meta != nil {
		m := make(map[string]any, len(t.meta))
		for k, v := range t.meta {
			m[k] = v
		}
		c.meta = m
	}
	return &c
}
