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
	"fmt"
	"net/http"
	"time"

	"github.com/tunebench-io/tunebench/pkg/status"
)

// RemoteProvider exports the host lifecycle and remote-exec operations
// against a single base URL, following the async REST contract for
// every state-changing call.
type RemoteProvider struct {
	BaseURL string
	Client  Doer
	Poller  *Poller
}

// NewRemoteProvider returns a RemoteProvider; client is used for
// initiating calls (typically a *pester.Client wrapping the
// oauth2-authenticated transport so transient failures on the
// initiating POST are retried), poller for the corresponding wait_*
// operations.
func NewRemoteProvider(baseURL string, client Doer, poller *Poller) *RemoteProvider {
	return &RemoteProvider{BaseURL: baseURL, Client: client, Poller: poller}
}

func (r *RemoteProvider) url(path string) string { return r.BaseURL + path }

func (r *RemoteProvider) initiate(path string) Operation {
	return func(ctx context.Context, params Params) (status.Status, Params, error) {
		st, out, handle, err := Initiate(ctx, r.Client, http.MethodPost, r.url(path), params)
		if err != nil {
			return status.Failed, Params{}, err
		}
		if st == status.Pending && handle != nil && handle.PollURL == "" {
			// A 202 without an async-op or Location header breaks the
			// idempotent re-issue contract; surface it as a failure
			// rather than returning an unusable handle.
			return status.Failed, Params{}, nil
		}
		return st, out, nil
	}
}

func (r *RemoteProvider) wait(opName string) Operation {
	return func(ctx context.Context, params Params) (status.Status, Params, error) {
		pollURL, _ := params[ParamPollURL].(string)
		if pollURL == "" {
			return status.Failed, Params{}, fmt.Errorf("%s: missing %s", opName, ParamPollURL)
		}
		h := RemoteOpHandle{PollURL: pollURL}
		if secs, ok := params[ParamPollInterval].(float64); ok {
			h.PollInterval = time.Duration(secs * float64(time.Second))
		}
		st, body, err := r.Poller.Wait(ctx, h)
		return st, body, err
	}
}

// Exports implements Provider.
func (r *RemoteProvider) Exports() Exports {
	return Exports{
		OpHostProvision:        r.initiate("/hosts/provision"),
		OpHostDeprovision:      r.initiate("/hosts/deprovision"),
		OpHostStart:            r.initiate("/hosts/start"),
		OpHostStop:             r.initiate("/hosts/stop"),
		OpHostRestart:          r.initiate("/hosts/restart"),
		OpRemoteExec:           r.initiate("/exec"),
		OpWaitHostDeployment:   r.wait(OpWaitHostDeployment),
		OpWaitHostOperation:    r.wait(OpWaitHostOperation),
		OpGetRemoteExecResults: r.getRemoteExecResults,
	}
}

func (r *RemoteProvider) getRemoteExecResults(ctx context.Context, params Params) (status.Status, Params, error) {
	resultID, _ := params[ParamResultID].(string)
	st, out, handle, err := Initiate(ctx, r.Client, http.MethodGet, r.url("/exec/"+resultID), nil)
	if err != nil {
		return status.Failed, Params{}, err
	}
	_ = handle
	return st, out, nil
}
