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

package environment

import (
	"context"
	"sync"

	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// CompositeNode aggregates children declared in order. Its traversal
// semantics differ enough from a plain setup/run/teardown triple that it
// implements Node directly rather than through Base/Hooks.
type CompositeNode struct {
	name      string
	children  []Node
	constArgs service.Params

	mu      sync.Mutex
	setUp   []Node // children whose Setup was called (a failing one included), in setup order
	isReady bool
	lastRun status.Status
}

// NewCompositeNode constructs a CompositeNode over children, in the
// order they will be set up, run and (in reverse) torn down. constArgs
// is the composite's own const_args dict, the parameter namespace a
// child's "$name" const_args reference is resolved against prior to
// that child's own setup merge.
func NewCompositeNode(name string, children []Node, constArgs service.Params) *CompositeNode {
	return &CompositeNode{name: name, children: children, constArgs: constArgs}
}

// constArgsHolder is implemented by nodes built on Base, exposing their
// declared (unresolved) const_args so an enclosing composite can resolve
// "$name" references in them against its own const_args.
type constArgsHolder interface {
	ConstArgs() service.Params
}

// Name implements Node.
func (c *CompositeNode) Name() string { return c.name }

// IsReady implements Node.
func (c *CompositeNode) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isReady
}

// Setup implements Node. It short-circuits on the first failing child;
// already-set-up children remain set up (they are still recorded for
// Teardown). The composite becomes ready iff every child became ready.
//
// Before each child's own setup, any "$name" reference in that child's
// const_args is resolved against this composite's const_args and carried
// into the child's setup as a globalConfig overlay, so it participates
// in the child's constArgs/group/globalConfig merge at the same
// precedence as an explicit global override.
func (c *CompositeNode) Setup(ctx context.Context, group *tunables.TunableGroups, globalConfig service.Params) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUp = c.setUp[:0]
	c.isReady = false

	for _, child := range c.children {
		childGlobal := globalConfig
		if holder, ok := child.(constArgsHolder); ok {
			resolved, err := ResolveConstArgs(holder.ConstArgs(), c.constArgs)
			if err != nil {
				return false, err
			}
			childGlobal = globalConfig.Merge(resolved)
		}

		ok, err := child.Setup(ctx, group, childGlobal)
		c.setUp = append(c.setUp, child)
		if err != nil || !ok {
			return false, err
		}
	}
	c.isReady = true
	return true, nil
}

// Run implements Node: children run strictly in order; the first
// non-good status stops the traversal and is returned. On success of
// all children, the last child's result is returned.
func (c *CompositeNode) Run(ctx context.Context) (status.Status, Result, error) {
	var last status.Status
	var lastResult Result
	for _, child := range c.children {
		st, result, err := child.Run(ctx)
		last, lastResult = st, result
		if err != nil {
			c.mu.Lock()
			c.lastRun = status.Failed
			c.mu.Unlock()
			return status.Failed, nil, err
		}
		if !st.IsGood() {
			c.mu.Lock()
			c.lastRun = st
			c.mu.Unlock()
			return st, result, nil
		}
	}
	c.mu.Lock()
	c.lastRun = last
	c.mu.Unlock()
	return last, lastResult, nil
}

// Teardown implements Node: children set up so far are torn down in
// reverse order; each child's teardown runs regardless of any
// predecessor's outcome, and nothing is re-raised to the caller.
func (c *CompositeNode) Teardown(ctx context.Context) {
	c.mu.Lock()
	setUp := append([]Node(nil), c.setUp...)
	c.mu.Unlock()

	for i := len(setUp) - 1; i >= 0; i-- {
		setUp[i].Teardown(ctx)
	}
}

// Status implements Node: aggregates the last known status with each
// child's own telemetry keyed by child name.
func (c *CompositeNode) Status(ctx context.Context) (status.Status, Telemetry) {
	c.mu.Lock()
	st := c.lastRun
	c.mu.Unlock()
	if st == "" {
		st = status.Unknown
	}
	telemetry := make(Telemetry, len(c.children))
	for _, child := range c.children {
		_, t := child.Status(ctx)
		telemetry[child.Name()] = t
	}
	return st, telemetry
}
