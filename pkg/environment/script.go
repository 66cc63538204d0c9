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

	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
)

// ScriptKind distinguishes where a ScriptNode's setup/run/teardown
// commands execute.
type ScriptKind int

const (
	// LocalScript runs commands on the control plane host via local_exec.
	LocalScript ScriptKind = iota
	// RemoteScript runs commands on a provisioned host via remote_exec.
	RemoteScript
)

// ScriptNode runs a setup/run/teardown command triple against either the
// local_exec or remote_exec service operation, resolving metric results
// out of the run command's reported stdout-adjacent result map.
type ScriptNode struct {
	*Base

	kind     ScriptKind
	setup    string
	run      string
	teardown string

	registry *service.Registry
	handle   service.Handle

	lastParams service.Params
}

// NewScriptNode constructs a ScriptNode. setup/run/teardown are shell
// commands (for LocalScript) or opaque command strings interpreted by
// the bound remote service (for RemoteScript); any may be empty, in
// which case that phase is a no-op success.
func NewScriptNode(name string, kind ScriptKind, groupNames []string, constArgs service.Params, setup, run, teardown string, registry *service.Registry, handle service.Handle) *ScriptNode {
	n := &ScriptNode{kind: kind, setup: setup, run: run, teardown: teardown, registry: registry, handle: handle}
	n.Base = NewBase(name, groupNames, constArgs, n)
	return n
}

func (n *ScriptNode) opName() string {
	if n.kind == RemoteScript {
		return service.OpRemoteExec
	}
	return service.OpLocalExec
}

// DoSetup implements Hooks.
func (n *ScriptNode) DoSetup(ctx context.Context, params service.Params) (bool, error) {
	n.lastParams = params
	if n.setup == "" {
		return true, nil
	}
	st, _, err := n.registry.Call(ctx, n.handle, n.opName(), params.Merge(service.Params{service.ParamCommand: n.setup}))
	if err != nil {
		return false, err
	}
	return st == status.Succeeded, nil
}

// DoRun implements Hooks.
func (n *ScriptNode) DoRun(ctx context.Context) (status.Status, Result, error) {
	if n.run == "" {
		return status.Succeeded, Result{}, nil
	}
	st, out, err := n.registry.Call(ctx, n.handle, n.opName(), n.lastParams.Merge(service.Params{service.ParamCommand: n.run}))
	if err != nil {
		return status.Failed, nil, err
	}
	if st != status.Succeeded {
		return st, nil, nil
	}
	return status.Succeeded, resultFromParams(out), nil
}

// DoTeardown implements Hooks.
func (n *ScriptNode) DoTeardown(ctx context.Context) {
	if n.teardown == "" {
		return
	}
	_, _, _ = n.registry.Call(ctx, n.handle, n.opName(), n.lastParams.Merge(service.Params{service.ParamCommand: n.teardown}))
}

// Telemetry implements Hooks.
func (n *ScriptNode) Telemetry(ctx context.Context) Telemetry {
	t := make(Telemetry, len(n.lastParams))
	for k, v := range n.lastParams {
		t[k] = v
	}
	return t
}

// resultFromParams extracts any numeric "metrics" sub-map a run command
// reported into a Result; commands that report nothing produce an empty
// (successful, scoreless) Result.
func resultFromParams(params service.Params) Result {
	result := Result{}
	raw, ok := params["metrics"]
	if !ok {
		return result
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return result
	}
	for k, v := range m {
		switch f := v.(type) {
		case float64:
			result[k] = f
		case int:
			result[k] = float64(f)
		}
	}
	return result
}
