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
	"reflect"
	"sync"

	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

type state int

const (
	stateFresh state = iota
	stateConfigured
	stateReady
	stateRunning
	stateCompleted
	stateFailed
	stateTornDown
)

// Hooks is the kind-specific behavior a concrete node type supplies to
// Base. DoSetup runs once the parameter dict has been merged; DoRun
// blocks until terminal; DoTeardown must never panic or return an error
// to the caller.
type Hooks interface {
	DoSetup(ctx context.Context, params service.Params) (bool, error)
	DoRun(ctx context.Context) (status.Status, Result, error)
	DoTeardown(ctx context.Context)
	Telemetry(ctx context.Context) Telemetry
}

// Base implements the common fresh->configured->ready->running->
// (completed|failed)->torn-down state machine and idempotent dispatch to
// Hooks, shared by every non-composite node kind.
type Base struct {
	name       string
	groupNames []string
	constArgs  service.Params
	hooks      Hooks

	mu         sync.Mutex
	state      state
	lastGroup  *tunables.TunableGroups
	lastGlobal service.Params
	lastParams service.Params
	lastStatus status.Status
	lastResult Result
}

// NewBase constructs a Base bound to hooks. hooks is normally the
// concrete node embedding this Base, wired up right after construction.
func NewBase(name string, groupNames []string, constArgs service.Params, hooks Hooks) *Base {
	return &Base{name: name, groupNames: groupNames, constArgs: constArgs, hooks: hooks, state: stateFresh}
}

// Name implements Node.
func (b *Base) Name() string { return b.name }

// ConstArgs returns the node's declared, unresolved const_args, for an
// enclosing composite to resolve "$name" references against its own
// const_args before Setup.
func (b *Base) ConstArgs() service.Params { return b.constArgs }

// SetConstArgs overrides the node's declared const_args.
func (b *Base) SetConstArgs(args service.Params) { b.constArgs = args }

// IsReady implements Node.
func (b *Base) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == stateReady
}

// Setup implements Node. While the node is ready, a call with arguments
// identical to the last successful setup (by group hash and global
// config) is a no-op returning true. In any other state, including after
// a failed setup, the parameters are merged and DoSetup runs again.
func (b *Base) Setup(ctx context.Context, group *tunables.TunableGroups, globalConfig service.Params) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != stateFresh && b.state != stateTornDown {
		if b.state == stateReady && sameSetupArgs(group, globalConfig, b.lastGroup, b.lastGlobal) {
			return true, nil
		}
	}

	merged, err := MergeParams(b.constArgs, group, b.groupNames, globalConfig)
	if err != nil {
		b.state = stateFresh
		return false, err
	}

	b.state = stateConfigured
	ok, err := b.hooks.DoSetup(ctx, merged)
	if err != nil || !ok {
		b.state = stateFresh
		return false, err
	}

	b.state = stateReady
	b.lastGroup = group
	b.lastGlobal = globalConfig
	b.lastParams = merged
	return true, nil
}

func sameSetupArgs(group *tunables.TunableGroups, global service.Params, lastGroup *tunables.TunableGroups, lastGlobal service.Params) bool {
	if lastGroup == nil || group == nil {
		return group == lastGroup && reflect.DeepEqual(global, lastGlobal)
	}
	return group.Hash() == lastGroup.Hash() && reflect.DeepEqual(global, lastGlobal)
}

// Run implements Node. It only fires from the ready state.
func (b *Base) Run(ctx context.Context) (status.Status, Result, error) {
	b.mu.Lock()
	if b.state != stateReady {
		b.mu.Unlock()
		return status.Failed, nil, nil
	}
	b.state = stateRunning
	b.mu.Unlock()

	st, result, err := b.hooks.DoRun(ctx)

	b.mu.Lock()
	if st.IsGood() {
		b.state = stateCompleted
	} else {
		b.state = stateFailed
	}
	b.lastStatus = st
	b.lastResult = result
	b.mu.Unlock()

	return st, result, err
}

// Teardown implements Node.
func (b *Base) Teardown(ctx context.Context) {
	b.mu.Lock()
	if b.state == stateTornDown {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.hooks.DoTeardown(ctx)

	b.mu.Lock()
	b.state = stateTornDown
	b.mu.Unlock()
}

// Status implements Node.
func (b *Base) Status(ctx context.Context) (status.Status, Telemetry) {
	b.mu.Lock()
	st := b.stateStatus()
	b.mu.Unlock()
	return st, b.hooks.Telemetry(ctx)
}

func (b *Base) stateStatus() status.Status {
	switch b.state {
	case stateFresh, stateTornDown:
		return status.Unknown
	case stateConfigured:
		return status.Pending
	case stateReady:
		return status.Ready
	case stateRunning:
		return status.Running
	case stateCompleted:
		return b.lastStatus
	case stateFailed:
		return b.lastStatus
	default:
		return status.Unknown
	}
}
