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

package config

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tunebench-io/tunebench/pkg/environment"
	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// DefaultClassRegistry returns a ClassRegistry pre-populated with the
// environment and service kinds spec.md §3-4 names: local/remote
// script, file-share-sync, composite and mock environments; remote,
// local and mock services.
func DefaultClassRegistry() *ClassRegistry {
	r := NewClassRegistry()
	r.RegisterEnvironment("environment.local_script", localScriptFactory)
	r.RegisterEnvironment("environment.remote_script", remoteScriptFactory)
	r.RegisterEnvironment("environment.fileshare_sync", fileShareFactory)
	r.RegisterEnvironment("environment.composite", compositeFactory)
	r.RegisterEnvironment("environment.mock", mockEnvironmentFactory)
	r.RegisterService("service.remote", remoteServiceFactory)
	r.RegisterService("service.local", localServiceFactory)
	r.RegisterService("service.mock", mockServiceFactory)
	return r
}

type scriptConfig struct {
	Groups    []string       `json:"groups"`
	ConstArgs service.Params `json:"const_args"`
	Setup     string         `json:"setup"`
	Run       string         `json:"run"`
	Teardown  string         `json:"teardown"`
	Service   string         `json:"service"`
}

func localScriptFactory(ctx context.Context, name string, raw json.RawMessage, bc *BuildContext) (environment.Node, error) {
	var cfg scriptConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "environment %q: decoding local_script config", name)
	}
	handle, err := lookupService(bc, cfg.Service)
	if err != nil {
		return nil, err
	}
	return environment.NewScriptNode(name, environment.LocalScript, cfg.Groups, cfg.ConstArgs, cfg.Setup, cfg.Run, cfg.Teardown, bc.Registry, handle), nil
}

func remoteScriptFactory(ctx context.Context, name string, raw json.RawMessage, bc *BuildContext) (environment.Node, error) {
	var cfg scriptConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "environment %q: decoding remote_script config", name)
	}
	if cfg.Service == "" {
		return nil, tunerr.New(tunerr.KindConfigInvalid, "environment %q: remote_script requires a service", name)
	}
	handle, err := lookupService(bc, cfg.Service)
	if err != nil {
		return nil, err
	}
	return environment.NewScriptNode(name, environment.RemoteScript, cfg.Groups, cfg.ConstArgs, cfg.Setup, cfg.Run, cfg.Teardown, bc.Registry, handle), nil
}

type fileShareConfig struct {
	Groups     []string       `json:"groups"`
	ConstArgs  service.Params `json:"const_args"`
	LocalPath  string         `json:"local_path"`
	RemotePath string         `json:"remote_path"`
	Service    string         `json:"service"`
}

func fileShareFactory(ctx context.Context, name string, raw json.RawMessage, bc *BuildContext) (environment.Node, error) {
	var cfg fileShareConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "environment %q: decoding fileshare_sync config", name)
	}
	handle, err := lookupService(bc, cfg.Service)
	if err != nil {
		return nil, err
	}
	localPath := bc.Resolver.ResolvePath(cfg.LocalPath)
	return environment.NewFileShareSyncNode(name, cfg.Groups, cfg.ConstArgs, localPath, cfg.RemotePath, bc.Registry, handle), nil
}

type compositeConfig struct {
	ConstArgs service.Params    `json:"const_args"`
	Children  []json.RawMessage `json:"children"`
}

func compositeFactory(ctx context.Context, name string, raw json.RawMessage, bc *BuildContext) (environment.Node, error) {
	var cfg compositeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "environment %q: decoding composite config", name)
	}
	children := make([]environment.Node, 0, len(cfg.Children))
	for _, childRaw := range cfg.Children {
		child, err := bc.Classes.BuildEnvironment(ctx, childRaw, bc)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return environment.NewCompositeNode(name, children, cfg.ConstArgs), nil
}

type mockEnvironmentConfig struct {
	Groups []string `json:"groups"`
}

func mockEnvironmentFactory(ctx context.Context, name string, raw json.RawMessage, bc *BuildContext) (environment.Node, error) {
	var cfg mockEnvironmentConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "environment %q: decoding mock config", name)
		}
	}
	return environment.NewMockNode(name, cfg.Groups), nil
}

// lookupService resolves a named service in bc.ServiceHandles;
// service.NoParent is returned (not an error) when name is empty, for
// nodes whose setup/run/teardown commands are all empty and so never
// actually dispatch an operation through the registry.
func lookupService(bc *BuildContext, name string) (service.Handle, error) {
	if name == "" {
		return service.NoParent, nil
	}
	h, ok := bc.ServiceHandles[name]
	if !ok {
		return service.NoParent, tunerr.New(tunerr.KindConfigInvalid, "unknown service %q", name)
	}
	return h, nil
}

type remoteServiceConfig struct {
	BaseURL        string   `json:"base_url"`
	TimeoutSeconds float64  `json:"timeout_seconds"`
	OAuth          *oauthCC `json:"oauth2"`
}

type oauthCC struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

func remoteServiceFactory(ctx context.Context, raw json.RawMessage, bc *BuildContext) (service.Provider, error) {
	var cfg remoteServiceConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "decoding service.remote config")
	}
	if cfg.BaseURL == "" {
		return nil, tunerr.New(tunerr.KindConfigInvalid, "service.remote: base_url is required")
	}
	timeout := service.DefaultRequestTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds * float64(time.Second))
	}
	var bearer *service.BearerTokenConfig
	if cfg.OAuth != nil {
		bearer = &service.BearerTokenConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
		}
	}
	httpClient := service.NewHTTPClient(ctx, bearer, timeout)
	retryClient := service.NewRetryClient(httpClient)
	poller := service.NewPoller(httpClient)
	return service.NewRemoteProvider(cfg.BaseURL, retryClient, poller), nil
}

type localServiceConfig struct {
	WorkDir string `json:"work_dir"`
}

func localServiceFactory(ctx context.Context, raw json.RawMessage, bc *BuildContext) (service.Provider, error) {
	var cfg localServiceConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "decoding service.local config")
	}
	workDir := bc.Resolver.ResolvePath(cfg.WorkDir)
	return service.NewLocalProvider(workDir), nil
}

type mockServiceConfig struct {
	// Always maps an operation name to a fixed terminal status every
	// call to that operation returns, for configs that wire a mock
	// service into a build_service-driven test harness.
	Always map[string]status.Status `json:"always"`
}

func mockServiceFactory(ctx context.Context, raw json.RawMessage, bc *BuildContext) (service.Provider, error) {
	var cfg mockServiceConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "decoding service.mock config")
		}
	}
	handlers := make(service.Exports, len(cfg.Always))
	for op, st := range cfg.Always {
		handlers[op] = service.Always(st)
	}
	return service.NewMockProvider(handlers), nil
}
