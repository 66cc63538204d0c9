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

// Package service implements the name->callable service registry and the
// async REST remote-op poller that environments use to talk to hosts.
package service

import (
	"context"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// Params is the single parameter dict every exported operation accepts
// and returns. The returned dict extends the input with any
// continuation handles (poll_url, poll_interval, ...).
type Params map[string]any

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Merge returns a copy of p with extra's keys overlaid.
func (p Params) Merge(extra Params) Params {
	c := p.Clone()
	for k, v := range extra {
		c[k] = v
	}
	return c
}

// Operation is a single exported, callable service action.
type Operation func(ctx context.Context, params Params) (status.Status, Params, error)

// Exports is the name->Operation map a service contributes to the
// registry.
type Exports map[string]Operation

// Provider exports a set of named operations.
type Provider interface {
	Exports() Exports
}

// Handle is an opaque reference to a registered provider. Services never
// hold an owning reference to their parent: they hold a Handle into the
// arena, which the Registry resolves on demand. This avoids cyclic Go
// references between a service and the registry that composed it.
type Handle int

// NoParent is the Handle value meaning "no parent service".
const NoParent Handle = -1

type entry struct {
	provider Provider
	parent   Handle
}

// Registry is an arena of registered providers addressed by Handle. A
// provider registered with a parent Handle may look up operations on its
// parent through the same registry.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider to the arena, optionally under a parent
// Handle, and returns its new Handle.
func (r *Registry) Register(p Provider, parent Handle) Handle {
	r.entries = append(r.entries, entry{provider: p, parent: parent})
	return Handle(len(r.entries) - 1)
}

// Parent returns h's parent Handle, if any.
func (r *Registry) Parent(h Handle) (Handle, bool) {
	if int(h) < 0 || int(h) >= len(r.entries) {
		return NoParent, false
	}
	if r.entries[h].parent == NoParent {
		return NoParent, false
	}
	return r.entries[h].parent, true
}

// Lookup resolves name against h's own exports, falling back to h's
// parent (and so on, transitively) if not found locally.
func (r *Registry) Lookup(h Handle, name string) (Operation, bool) {
	for int(h) >= 0 && int(h) < len(r.entries) {
		if op, ok := r.entries[h].provider.Exports()[name]; ok {
			return op, true
		}
		h = r.entries[h].parent
	}
	return nil, false
}

// Call resolves and invokes name against h, returning a ConfigInvalid
// error if no provider in h's ancestry exports it.
func (r *Registry) Call(ctx context.Context, h Handle, name string, params Params) (status.Status, Params, error) {
	op, ok := r.Lookup(h, name)
	if !ok {
		return status.Failed, nil, tunerr.New(tunerr.KindConfigInvalid, "no service exports operation %q", name)
	}
	return op(ctx, params)
}

// Composite merges the Exports of several providers in order, with later
// providers shadowing earlier ones on name conflicts.
type Composite struct {
	providers []Provider
}

// NewComposite returns a Provider that concatenates the exports of
// providers, in order, with later entries winning conflicts.
func NewComposite(providers ...Provider) *Composite {
	return &Composite{providers: providers}
}

// Exports implements Provider.
func (c *Composite) Exports() Exports {
	out := make(Exports)
	for _, p := range c.providers {
		for name, op := range p.Exports() {
			out[name] = op
		}
	}
	return out
}
