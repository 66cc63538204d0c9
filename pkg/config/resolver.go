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
	"embed"
	"net/url"
	"os"
	"path/filepath"

	getter "github.com/yujunz/go-getter"

	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

//go:embed builtin
var builtinFS embed.FS

const builtinRoot = "builtin"

// Resolver implements the config_path search order from spec.md §6:
// each entry in Path (de-duplicated, absolute-normalized), then the
// current working directory, then the built-in config tree embedded in
// the binary. References that carry a URL scheme (http, https, git,
// s3, ...) bypass the search path entirely and are fetched with
// go-getter into a scratch directory.
type Resolver struct {
	// Path is the caller-supplied config_path list, normalized and
	// de-duplicated by NewResolver.
	Path []string

	// ScratchDir holds files fetched by a remote reference; defaults to
	// os.TempDir() if empty.
	ScratchDir string
}

// NewResolver normalizes and de-duplicates configPath per spec.md §6,
// preserving first-seen order.
func NewResolver(configPath []string) *Resolver {
	r := &Resolver{}
	seen := make(map[string]bool, len(configPath))
	for _, p := range configPath {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		r.Path = append(r.Path, abs)
	}
	return r
}

// hasScheme reports whether ref names a remote resource go-getter
// should fetch, rather than a path to search for locally.
func hasScheme(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Scheme != "file"
}

// ResolvePath resolves file_path per the config_path search order: an
// absolute path is returned unchanged; otherwise each directory in
// r.Path is tried, then the current working directory, then the
// built-in tree. The first existing match wins; if none exists the
// original reference is returned unresolved (matching the source's
// "resolve or pass through" behavior, since some callers pass script
// paths meant to exist only on a remote host).
func (r *Resolver) ResolvePath(filePath string) string {
	if hasScheme(filePath) || filepath.IsAbs(filePath) {
		return filePath
	}
	for _, dir := range r.searchDirs() {
		full := filepath.Join(dir, filePath)
		if _, err := os.Stat(full); err == nil {
			return full
		}
	}
	if _, err := builtinFS.Open(filepath.Join(builtinRoot, filePath)); err == nil {
		return "builtin:" + filePath
	}
	return filePath
}

func (r *Resolver) searchDirs() []string {
	dirs := append([]string(nil), r.Path...)
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	return dirs
}

// Read loads the raw bytes behind ref: a builtin:-prefixed reference
// reads the embedded tree, a scheme-bearing reference is fetched with
// go-getter into ScratchDir, and anything else is resolved via
// ResolvePath and read from the local filesystem.
func (r *Resolver) Read(ctx context.Context, ref string) ([]byte, error) {
	if rel, ok := isBuiltinRef(ref); ok {
		return builtinFS.ReadFile(filepath.Join(builtinRoot, rel))
	}
	if hasScheme(ref) {
		return r.fetchRemote(ctx, ref)
	}
	resolved := r.ResolvePath(ref)
	if rel, ok := isBuiltinRef(resolved); ok {
		return builtinFS.ReadFile(filepath.Join(builtinRoot, rel))
	}
	b, err := os.ReadFile(resolved)
	if err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "reading config %q", ref)
	}
	return b, nil
}

func isBuiltinRef(ref string) (string, bool) {
	const prefix = "builtin:"
	if len(ref) > len(prefix) && ref[:len(prefix)] == prefix {
		return ref[len(prefix):], true
	}
	return "", false
}

// fetchRemote downloads ref with go-getter into a temp file and returns
// its contents. Every call gets a fresh scratch file so concurrent
// include_* resolution from multiple goroutines never races on disk.
func (r *Resolver) fetchRemote(ctx context.Context, ref string) ([]byte, error) {
	scratch := r.ScratchDir
	if scratch == "" {
		scratch = os.TempDir()
	}
	tmp, err := os.CreateTemp(scratch, "tunebench-config-*")
	if err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "allocating scratch file for %q", ref)
	}
	dst := tmp.Name()
	tmp.Close()
	defer os.Remove(dst)

	pwd, _ := os.Getwd()
	client := &getter.Client{
		Ctx:  ctx,
		Src:  ref,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "fetching remote config %q", ref)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		return nil, tunerr.Wrap(tunerr.KindConfigInvalid, err, "reading fetched config %q", ref)
	}
	return b, nil
}
