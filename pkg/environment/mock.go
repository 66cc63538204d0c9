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

// MockNode is an in-process Node driven entirely by caller-supplied
// functions, used to exercise the driver and composite traversal without
// a real host or service.
type MockNode struct {
	*Base

	// SetupFunc, RunFunc and TeardownFunc default to always-succeed
	// behavior if left nil.
	SetupFunc    func(params service.Params) (bool, error)
	RunFunc      func() (status.Status, Result, error)
	TeardownFunc func()

	torndown bool
}

// NewMockNode constructs a MockNode that always succeeds until its
// fields are overridden.
func NewMockNode(name string, groupNames []string) *MockNode {
	n := &MockNode{}
	n.Base = NewBase(name, groupNames, service.Params{}, n)
	return n
}

// DoSetup implements Hooks.
func (n *MockNode) DoSetup(ctx context.Context, params service.Params) (bool, error) {
	if n.SetupFunc != nil {
		return n.SetupFunc(params)
	}
	return true, nil
}

// DoRun implements Hooks.
func (n *MockNode) DoRun(ctx context.Context) (status.Status, Result, error) {
	if n.RunFunc != nil {
		return n.RunFunc()
	}
	return status.Succeeded, Result{}, nil
}

// DoTeardown implements Hooks.
func (n *MockNode) DoTeardown(ctx context.Context) {
	n.torndown = true
	if n.TeardownFunc != nil {
		n.TeardownFunc()
	}
}

// WasTornDown reports whether Teardown has run at least once.
func (n *MockNode) WasTornDown() bool { return n.torndown }

// Telemetry implements Hooks.
func (n *MockNode) Telemetry(ctx context.Context) Telemetry { return Telemetry{} }
