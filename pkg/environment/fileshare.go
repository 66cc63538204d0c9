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

// FileShareSyncNode copies a file (or directory) between the local
// control plane host and a remote share at setup, and the reverse at
// teardown, without running anything in between.
type FileShareSyncNode struct {
	*Base

	localPath  string
	remotePath string
	registry   *service.Registry
	handle     service.Handle
}

// NewFileShareSyncNode constructs a FileShareSyncNode.
func NewFileShareSyncNode(name string, groupNames []string, constArgs service.Params, localPath, remotePath string, registry *service.Registry, handle service.Handle) *FileShareSyncNode {
	n := &FileShareSyncNode{localPath: localPath, remotePath: remotePath, registry: registry, handle: handle}
	n.Base = NewBase(name, groupNames, constArgs, n)
	return n
}

// DoSetup implements Hooks: uploads localPath to remotePath.
func (n *FileShareSyncNode) DoSetup(ctx context.Context, params service.Params) (bool, error) {
	st, _, err := n.registry.Call(ctx, n.handle, service.OpUpload, service.Params{
		service.ParamPath:        n.localPath,
		service.ParamDestination: n.remotePath,
	})
	if err != nil {
		return false, err
	}
	return st == status.Succeeded, nil
}

// DoRun implements Hooks: a sync node has nothing to run.
func (n *FileShareSyncNode) DoRun(ctx context.Context) (status.Status, Result, error) {
	return status.Succeeded, Result{}, nil
}

// DoTeardown implements Hooks: downloads remotePath back to localPath.
func (n *FileShareSyncNode) DoTeardown(ctx context.Context) {
	_, _, _ = n.registry.Call(ctx, n.handle, service.OpDownload, service.Params{
		service.ParamPath:        n.remotePath,
		service.ParamDestination: n.localPath,
	})
}

// Telemetry implements Hooks.
func (n *FileShareSyncNode) Telemetry(ctx context.Context) Telemetry {
	return Telemetry{"local_path": n.localPath, "remote_path": n.remotePath}
}
