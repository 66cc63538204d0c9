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

// Package tunerr defines the error kinds shared across the trial control
// plane. Every error is an *Error carrying one Kind value, so callers can
// branch on it with KindOf or errors.Is instead of string matching.
package tunerr

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies one of the error taxonomy members from the design.
type Kind string

const (
	// KindConfigInvalid indicates a schema violation, unknown class name, or missing required field.
	KindConfigInvalid Kind = "ConfigInvalid"
	// KindInvalidValue indicates a tunable assignment violated range/kind.
	KindInvalidValue Kind = "InvalidValue"
	// KindPrecisionLoss indicates an integer tunable received a non-integral float.
	KindPrecisionLoss Kind = "PrecisionLoss"
	// KindExperimentMismatch indicates an existing experiment was opened with an incompatible schema.
	KindExperimentMismatch Kind = "ExperimentMismatch"
	// KindInconsistentObservation indicates register was called with a status/score disagreement.
	KindInconsistentObservation Kind = "InconsistentObservation"
	// KindTransport indicates a network failure or an HTTP status outside the handled contract.
	KindTransport Kind = "Transport"
	// KindTimeout indicates a request- or operation-level deadline was exceeded.
	KindTimeout Kind = "Timeout"
	// KindCanceled indicates cooperative cancellation was observed.
	KindCanceled Kind = "Canceled"
)

// Error is the concrete error type carrying a Kind, a message, and (for
// KindTransport results that came with a Retry-After hint) a suggested
// delay before retrying.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, tunerr.New(tunerr.KindTimeout, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithRetryAfter attaches a suggested retry delay (e.g. from a Retry-After header).
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.RetryAfter = d
	return e
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error, along
// with whether one was found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
