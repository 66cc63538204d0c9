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
	"os"
	"path/filepath"
	"testing"

	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigResolvesIncludeAndStripsSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tunables.jsonc", `[
  {"name": "g", "tunables": [
    {"name": "x", "kind": "integer", "default": 1, "current": 1, "range": {"min": 0, "max": 10}}
  ]}
]`)
	root := writeFile(t, dir, "root.jsonc", `{
  "$schema": "https://example.com/schema.json",
  // pull the tunable space in from a sibling file
  "include_tunables": "tunables.jsonc",
  "global_config": {"region": "us-west"}
}`)

	l := NewLoader([]string{dir})
	doc, err := l.LoadConfig(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["$schema"]; ok {
		t.Fatal("expected $schema to be stripped")
	}
	if _, ok := doc["tunables"]; !ok {
		t.Fatal("expected include_tunables to resolve into \"tunables\"")
	}
}

func TestLoadBuildsFullBundle(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.jsonc", `{
  "services": [
    {"name": "local", "class": "service.local", "config": {"work_dir": "."}}
  ],
  "tunables": [
    {"name": "g", "tunables": [
      {"name": "x", "kind": "integer", "default": 5, "current": 5, "range": {"min": 0, "max": 10}}
    ]}
  ],
  "global_config": {"trial_timeout": 30},
  "environment": {
    "name": "root",
    "class": "environment.composite",
    "config": {
      "children": [
        {"name": "first", "class": "environment.mock", "config": {"groups": ["g"]}},
        {"name": "second", "class": "environment.local_script", "config": {
          "groups": ["g"], "service": "local", "setup": "", "run": "", "teardown": ""
        }}
      ]
    }
  }
}`)

	l := NewLoader(nil)
	bundle, err := l.Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Root == nil {
		t.Fatal("expected a root environment node")
	}
	if bundle.Root.Name() != "root" {
		t.Fatalf("got root name %q", bundle.Root.Name())
	}
	if _, ok := bundle.ServiceHandles["local"]; !ok {
		t.Fatal("expected \"local\" service handle to be registered")
	}
	if bundle.Tunables == nil {
		t.Fatal("expected tunables to be decoded")
	}
	if g, ok := bundle.Tunables.Group("g"); !ok || len(g.Tunables()) != 1 {
		t.Fatalf("expected group g with one tunable, got %v ok=%v", g, ok)
	}
	if bundle.GlobalConfig["trial_timeout"] == nil {
		t.Fatal("expected global_config to round-trip")
	}
}

func TestLoadUnknownClassIsConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.jsonc", `{
  "environment": {"name": "root", "class": "environment.nonexistent", "config": {}}
}`)
	l := NewLoader(nil)
	_, err := l.Load(context.Background(), root)
	if err == nil {
		t.Fatal("expected an error for an unknown environment class")
	}
	if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindConfigInvalid {
		t.Fatalf("got kind %v", k)
	}
}

func TestLoadUnknownServiceParentIsConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.jsonc", `{
  "services": [
    {"name": "local", "class": "service.local", "parent": "missing", "config": {}}
  ]
}`)
	l := NewLoader(nil)
	_, err := l.Load(context.Background(), root)
	if err == nil {
		t.Fatal("expected an error for an unknown parent service")
	}
	if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindConfigInvalid {
		t.Fatalf("got kind %v", k)
	}
}
