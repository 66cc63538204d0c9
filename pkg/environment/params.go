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
	"bytes"
	"fmt"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/tunables"
)

// dollarRef matches a bare "$name" reference inside a const_args string
// value, the textual cross-reference syntax a child uses to pull a value
// out of its enclosing composite's const_args.
var dollarRef = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// ResolveConstArgs rewrites any "$name" references in constArgs string
// values against parent, returning a new dict. Non-string values and
// values with no "$name" token pass through unchanged.
func ResolveConstArgs(constArgs service.Params, parent service.Params) (service.Params, error) {
	if len(constArgs) == 0 {
		return constArgs, nil
	}
	out := make(service.Params, len(constArgs))
	for k, v := range constArgs {
		s, ok := v.(string)
		if !ok || !dollarRef.MatchString(s) {
			out[k] = v
			continue
		}
		resolved, err := resolveString(s, parent)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

func resolveString(s string, parent service.Params) (string, error) {
	tmplSrc := dollarRef.ReplaceAllString(s, `{{ index . "$1" }}`)
	tmpl, err := template.New("const_args").Funcs(sprig.TxtFuncMap()).Parse(tmplSrc)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(parent)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MergeParams builds the merged parameter dict per the setup contract:
// const_args, then the tunable group's current values, then global
// overrides, each layer winning over the last on key conflicts.
func MergeParams(constArgs service.Params, group *tunables.TunableGroups, groupNames []string, globalConfig service.Params) (service.Params, error) {
	out := make(service.Params, len(constArgs)+len(globalConfig))
	if group == nil {
		for k, v := range constArgs {
			out[k] = v
		}
	} else {
		values, err := group.GetParamValues(groupNames, toValueMap(constArgs))
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			out[k] = v
		}
	}
	for k, v := range globalConfig {
		out[k] = v
	}
	return out, nil
}

func toValueMap(p service.Params) map[string]tunables.Value {
	out := make(map[string]tunables.Value, len(p))
	for k, v := range p {
		switch t := v.(type) {
		case tunables.Value:
			out[k] = t
		case string:
			out[k] = tunables.StringValue(t)
		case int:
			out[k] = tunables.IntValue(int64(t))
		case int64:
			out[k] = tunables.IntValue(t)
		case float64:
			out[k] = tunables.FloatValue(t)
		}
	}
	return out
}
