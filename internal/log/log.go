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

// Package log builds the logr.Logger threaded through the driver,
// environment, service registry and poller. It wraps zap with zapr
// rather than any package-level global: every caller gets its own
// logr.Logger value to pass down explicitly.
package log

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logr.Logger writing human-readable lines to out. verbosity
// is the CLI's -v flag value: 0 shows warnings and errors only, 1 shows
// info, 2+ shows increasingly detailed V-logs. zapr maps logr's V(n) to
// zap level -n, so a higher verbosity lowers the effective zap level.
func New(out io.Writer, verbosity int) logr.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "ts",
		MessageKey:  "msg",
		LevelKey:    "level",
		NameKey:     "logger",
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	level := zapcore.Level(1 - verbosity)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(out), level)
	return zapr.NewLogger(zap.New(core))
}

// Discard returns a logr.Logger that drops every record, for components
// constructed without an explicit logger (e.g. in tests).
func Discard() logr.Logger {
	return logr.Discard()
}
