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

package service

import (
	"context"

	"github.com/tunebench-io/tunebench/pkg/status"
)

// MockProvider exports deterministic, in-process stand-ins for the
// remote operation catalog, driven entirely by caller-supplied
// functions. It exists for environment and driver tests that need to
// exercise the service-lookup contract without a network.
type MockProvider struct {
	Handlers Exports
}

// NewMockProvider returns a MockProvider. Only the operation names in
// handlers are exported; a name absent from handlers is not provided by
// this MockProvider.
func NewMockProvider(handlers Exports) *MockProvider {
	return &MockProvider{Handlers: handlers}
}

// Exports implements Provider.
func (m *MockProvider) Exports() Exports {
	out := make(Exports, len(m.Handlers))
	for name, op := range m.Handlers {
		out[name] = op
	}
	return out
}

// Always returns an Operation that reports st, echoing params back
// unchanged; a convenience handler for catalog entries a test does not
// care about.
func Always(st status.Status) Operation {
	return func(ctx context.Context, params Params) (status.Status, Params, error) {
		return st, params, nil
	}
}
