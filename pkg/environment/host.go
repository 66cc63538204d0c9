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

// HostNode provisions a remote host before a script or fileshare child
// runs against it, and deprovisions it at teardown. Provisioning follows
// the two-step async contract directly: the initiating call either
// completes synchronously or yields poll_url/poll_interval that must be
// carried into the matching wait_* call before the host is usable.
type HostNode struct {
	*Base

	registry *service.Registry
	handle   service.Handle
}

// NewHostNode constructs a HostNode bound to handle's provision/
// deprovision/wait_host_deployment exports.
func NewHostNode(name string, groupNames []string, constArgs service.Params, registry *service.Registry, handle service.Handle) *HostNode {
	n := &HostNode{registry: registry, handle: handle}
	n.Base = NewBase(name, groupNames, constArgs, n)
	return n
}

// DoSetup implements Hooks: it provisions the host, following up with
// wait_host_deployment when provisioning doesn't complete synchronously.
func (n *HostNode) DoSetup(ctx context.Context, params service.Params) (bool, error) {
	st, out, err := n.registry.Call(ctx, n.handle, service.OpHostProvision, params)
	if err != nil {
		return false, err
	}
	if st == status.Pending {
		st, _, err = n.registry.Call(ctx, n.handle, service.OpWaitHostDeployment, out)
		if err != nil {
			return false, err
		}
	}
	return st == status.Succeeded, nil
}

// DoRun implements Hooks: a HostNode contributes no metrics of its own;
// it exists to make the host available to children that do.
func (n *HostNode) DoRun(ctx context.Context) (status.Status, Result, error) {
	return status.Succeeded, Result{}, nil
}

// DoTeardown implements Hooks: deprovisioning is best-effort, matching
// the Node contract that Teardown never surfaces an error.
func (n *HostNode) DoTeardown(ctx context.Context) {
	_, _, _ = n.registry.Call(ctx, n.handle, service.OpHostDeprovision, service.Params{})
}

// Telemetry implements Hooks.
func (n *HostNode) Telemetry(ctx context.Context) Telemetry {
	return Telemetry{}
}
