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

	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
)

// Provider exposes the config-loader operation vocabulary spec.md §6
// names (resolve_path, load_config, build_environment, build_service) as
// a service.Provider, so an environment node can reach the loader
// through the same registry.Call path it uses for every other
// operation, instead of a special-cased direct dependency.
type Provider struct {
	loader *Loader
	bc     *BuildContext
}

// NewProvider returns a Provider backed by loader. bc supplies the
// service registry and class registry build_environment/build_service
// dispatch through to, normally the same BuildContext the root document
// was loaded with.
func NewProvider(loader *Loader, bc *BuildContext) *Provider {
	return &Provider{loader: loader, bc: bc}
}

// Exports implements service.Provider.
func (p *Provider) Exports() service.Exports {
	return service.Exports{
		service.OpResolvePath:      p.resolvePath,
		service.OpLoadConfig:       p.loadConfig,
		service.OpBuildEnvironment: p.buildEnvironment,
		service.OpBuildService:     p.buildService,
	}
}

func (p *Provider) resolvePath(ctx context.Context, params service.Params) (status.Status, service.Params, error) {
	path, _ := params[service.ParamPath].(string)
	out := params.Clone()
	out[service.ParamPath] = p.loader.Resolver.ResolvePath(path)
	return status.Succeeded, out, nil
}

func (p *Provider) loadConfig(ctx context.Context, params service.Params) (status.Status, service.Params, error) {
	ref, _ := params[service.ParamPath].(string)
	doc, err := p.loader.LoadConfig(ctx, ref)
	if err != nil {
		return status.Failed, service.Params{}, err
	}
	out := make(service.Params, len(doc))
	for k, raw := range doc {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return status.Failed, service.Params{}, err
		}
		out[k] = v
	}
	return status.Succeeded, out, nil
}

func (p *Provider) buildEnvironment(ctx context.Context, params service.Params) (status.Status, service.Params, error) {
	raw, _ := params["config"].(json.RawMessage)
	if raw == nil {
		if m, ok := params["config"].(map[string]any); ok {
			b, err := json.Marshal(m)
			if err != nil {
				return status.Failed, service.Params{}, err
			}
			raw = b
		}
	}
	node, err := p.loader.Classes.BuildEnvironment(ctx, raw, p.bc)
	if err != nil {
		return status.Failed, service.Params{}, err
	}
	return status.Succeeded, service.Params{"name": node.Name()}, nil
}

func (p *Provider) buildService(ctx context.Context, params service.Params) (status.Status, service.Params, error) {
	raw, _ := params["config"].(json.RawMessage)
	if raw == nil {
		if m, ok := params["config"].(map[string]any); ok {
			b, err := json.Marshal(m)
			if err != nil {
				return status.Failed, service.Params{}, err
			}
			raw = b
		}
	}
	provider, err := p.loader.Classes.BuildService(ctx, raw, p.bc)
	if err != nil {
		return status.Failed, service.Params{}, err
	}
	handle := p.bc.Registry.Register(provider, service.NoParent)
	return status.Succeeded, service.Params{"handle": int(handle)}, nil
}
