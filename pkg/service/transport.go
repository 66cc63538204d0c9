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
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tunebench-io/tunebench/internal/version"
)

// BearerTokenConfig configures OAuth2 client-credentials bearer token
// transport for remote host providers. The control plane only ever
// consumes an opaque bearer token here; device, registration and
// authorization-code flows are out of scope.
type BearerTokenConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// NewHTTPClient returns the *http.Client used for initiating calls: if
// cfg is non-nil, requests carry an OAuth2 bearer token obtained via the
// client-credentials grant and auto-refreshed by the oauth2 transport.
func NewHTTPClient(ctx context.Context, cfg *BearerTokenConfig, timeout time.Duration) *http.Client {
	if cfg == nil {
		return &http.Client{Timeout: timeout, Transport: version.UserAgent("tunebench", "", http.DefaultTransport)}
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: version.UserAgent("tunebench", "", http.DefaultTransport)})
	client := cc.Client(ctx)
	client.Timeout = timeout
	return client
}

// NewRetryClient wraps client with bounded exponential-backoff retries
// for the initiating calls (provision/start/stop/remote-exec), where
// idempotent re-issue on transient transport failure is safe. It must
// never be used for the poll loop itself, which has its own tick-level
// retry and timeout semantics.
func NewRetryClient(client *http.Client) *pester.Client {
	p := pester.NewExtendedClient(client)
	p.Backoff = pester.ExponentialBackoff
	p.MaxRetries = 3
	p.KeepLog = false
	return p
}
