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

// Package config loads the JSON-with-comments documents describing a
// trial control plane run: the tunable parameter space, the service
// catalog, and the root environment, resolved through the same
// class+config object convention throughout (spec.md §6).
package config

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tunebench-io/tunebench/pkg/environment"
	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/tunables"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// rootDocument is the top-level shape a run configuration may declare.
// Every field is optional so a document can be split across include_*
// references instead of written inline.
type rootDocument struct {
	ConfigPath   []string          `json:"config_path,omitempty"`
	Services     []json.RawMessage `json:"services,omitempty"`
	Environment  json.RawMessage   `json:"environment,omitempty"`
	Tunables     json.RawMessage   `json:"tunables,omitempty"`
	GlobalConfig map[string]any    `json:"global_config,omitempty"`
}

// Bundle is everything Load assembles out of a root configuration
// document, ready to hand to a driver.Driver.
type Bundle struct {
	Root           environment.Node
	Services       *service.Registry
	ServiceHandles map[string]service.Handle
	Tunables       *tunables.TunableGroups
	GlobalConfig   service.Params

	// BuildContext is the context Load used to build Root and Services;
	// callers that want the config-loader operation vocabulary
	// (resolve_path, load_config, build_environment, build_service)
	// available to the live environment tree can register
	// NewProvider(loader, bundle.BuildContext) into Services themselves.
	BuildContext *BuildContext
}

// Loader ties a Resolver (search-path + remote fetch) to a ClassRegistry
// (class name -> factory dispatch) to produce a runnable Bundle from a
// single root document reference.
type Loader struct {
	Resolver *Resolver
	Classes  *ClassRegistry
}

// NewLoader returns a Loader over configPath using DefaultClassRegistry.
func NewLoader(configPath []string) *Loader {
	return &Loader{Resolver: NewResolver(configPath), Classes: DefaultClassRegistry()}
}

// LoadConfig reads ref (a local path, a builtin: reference, or a
// go-getter URL), strips // and /* */ comments and $schema, resolves each
// top-level include_<key> string by reading it through the same Resolver
// search (config_path entries, then the working directory, then builtin),
// and returns the merged generic document. An included document only has
// its comments stripped: its own include_* and $schema keys are kept as
// written. An explicit value for a key always wins over an include_<key>
// for the same key.
func (l *Loader) LoadConfig(ctx context.Context, ref string) (map[string]json.RawMessage, error) {
	raw, err := l.Resolver.Read(ctx, ref)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(StripComments(raw), &doc); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "parsing config %q", ref)
	}
	delete(doc, "$schema")

	for key := range doc {
		const prefix = "include_"
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		suffix := strings.TrimPrefix(key, prefix)
		if _, explicit := doc[suffix]; explicit {
			continue
		}
		var includeRef string
		if err := json.Unmarshal(doc[key], &includeRef); err != nil {
			return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "config %q: %s must be a path string", ref, key)
		}
		included, err := l.Resolver.Read(ctx, includeRef)
		if err != nil {
			return nil, err
		}
		doc[suffix] = json.RawMessage(StripComments(included))
	}
	return doc, nil
}

// Load resolves ref into a complete Bundle: it builds the declared
// services (in document order, honoring each entry's "parent"), the
// tunable space, the global config dict, and finally the root
// environment (which may be a composite referencing the services by
// name).
func (l *Loader) Load(ctx context.Context, ref string) (*Bundle, error) {
	doc, err := l.LoadConfig(ctx, ref)
	if err != nil {
		return nil, err
	}
	var root rootDocument
	if err := decodeFields(doc, &root); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "config %q: decoding root document", ref)
	}
	if len(root.ConfigPath) > 0 {
		l.Resolver.Path = mergeConfigPath(l.Resolver.Path, root.ConfigPath)
	}

	registry := service.NewRegistry()
	bc := &BuildContext{Registry: registry, Classes: l.Classes, Resolver: l.Resolver}

	handles, err := l.Classes.BuildServices(ctx, root.Services, bc)
	if err != nil {
		return nil, err
	}

	var tg *tunables.TunableGroups
	if len(root.Tunables) > 0 {
		tg = &tunables.TunableGroups{}
		if err := json.Unmarshal(root.Tunables, tg); err != nil {
			return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "config %q: decoding tunables", ref)
		}
	}

	globalConfig := make(service.Params, len(root.GlobalConfig))
	for k, v := range root.GlobalConfig {
		globalConfig[k] = v
	}

	var rootNode environment.Node
	if len(root.Environment) > 0 {
		rootNode, err = l.Classes.BuildEnvironment(ctx, root.Environment, bc)
		if err != nil {
			return nil, err
		}
	}

	return &Bundle{
		Root:           rootNode,
		Services:       registry,
		ServiceHandles: handles,
		Tunables:       tg,
		GlobalConfig:   globalConfig,
		BuildContext:   bc,
	}, nil
}

// decodeFields re-marshals a generic string->RawMessage document into
// dst, which must be a struct with matching json tags; used so rootDocument
// can be filled from the already-include-resolved map without a second
// round trip through the resolution pass above.
func decodeFields(doc map[string]json.RawMessage, dst any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// mergeConfigPath appends extra to base, de-duplicated and
// absolute-normalized, preserving base's declaration order followed by
// extra's.
func mergeConfigPath(base, extra []string) []string {
	return NewResolver(append(append([]string(nil), base...), extra...)).Path
}
