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
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tunebench-io/tunebench/pkg/status"
)

// LocalProvider exports operations that run entirely on the control
// plane host: shelling out, copying files and resolving paths relative
// to a working directory.
type LocalProvider struct {
	WorkDir string
}

// NewLocalProvider returns a LocalProvider rooted at workDir.
func NewLocalProvider(workDir string) *LocalProvider {
	return &LocalProvider{WorkDir: workDir}
}

// Exports implements Provider.
func (l *LocalProvider) Exports() Exports {
	return Exports{
		OpLocalExec:   l.localExec,
		OpUpload:      l.copy,
		OpDownload:    l.copy,
		OpResolvePath: l.resolvePath,
	}
}

func (l *LocalProvider) localExec(ctx context.Context, params Params) (status.Status, Params, error) {
	command, _ := params[ParamCommand].(string)
	if command == "" {
		return status.Failed, Params{}, nil
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = l.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	out := params.Clone()
	out[ParamStdout] = stdout.String()
	out[ParamStderr] = stderr.String()

	exitCode := 0
	if err != nil {
		if ctx.Err() != nil {
			return status.Canceled, Params{}, nil
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return status.Failed, out, err
		}
	}
	out[ParamExitCode] = exitCode
	if exitCode != 0 {
		return status.Failed, out, nil
	}
	return status.Succeeded, out, nil
}

func (l *LocalProvider) copy(ctx context.Context, params Params) (status.Status, Params, error) {
	src, _ := params[ParamPath].(string)
	dst, _ := params[ParamDestination].(string)
	if src == "" || dst == "" {
		return status.Failed, Params{}, nil
	}
	in, err := os.Open(l.resolve(src))
	if err != nil {
		return status.Failed, Params{}, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(l.resolve(dst)), 0o755); err != nil {
		return status.Failed, Params{}, err
	}
	out, err := os.Create(l.resolve(dst))
	if err != nil {
		return status.Failed, Params{}, err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return status.Failed, Params{}, err
	}
	return status.Succeeded, params, nil
}

func (l *LocalProvider) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.WorkDir, p)
}

func (l *LocalProvider) resolvePath(ctx context.Context, params Params) (status.Status, Params, error) {
	p, _ := params[ParamPath].(string)
	out := params.Clone()
	out[ParamPath] = l.resolve(p)
	return status.Succeeded, out, nil
}
