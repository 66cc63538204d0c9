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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

// Default tunables for the async REST contract, overridable per Poller.
const (
	DefaultPollInterval   = 4 * time.Second
	DefaultPollTimeout    = 300 * time.Second
	DefaultRequestTimeout = 5 * time.Second
)

// RemoteOpHandle is the opaque handle returned by an initiating call: a
// poll URL, a suggested poll interval, and the parameter bag that
// originated it.
type RemoteOpHandle struct {
	PollURL      string
	PollInterval time.Duration
	Origin       Params
}

// Poller drives the GET-until-terminal loop against a poll URL following
// the uniform async REST contract.
type Poller struct {
	// Client performs the HTTP round trips. Its Timeout governs the
	// per-request I/O timeout; a timeout here does not abort the wait,
	// it maps to a running tick and the loop retries.
	Client *http.Client

	// DefaultInterval is used when a RemoteOpHandle carries no explicit
	// poll interval.
	DefaultInterval time.Duration

	// Timeout bounds total wall-clock time spent waiting, measured from
	// the first call to Wait.
	Timeout time.Duration

	// now is overridable in tests; defaults to time.Now.
	now func() time.Time
}

// NewPoller returns a Poller with the package defaults.
func NewPoller(client *http.Client) *Poller {
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return &Poller{Client: client, DefaultInterval: DefaultPollInterval, Timeout: DefaultPollTimeout, now: time.Now}
}

func (p *Poller) clock() func() time.Time {
	if p.now != nil {
		return p.now
	}
	return time.Now
}

// Wait polls h.PollURL until a terminal status, a cancellation, or the
// configured wall-clock timeout is reached.
//
// At each tick: the limiter blocks for the requested interval minus the
// elapsed round-trip time of the previous GET (so the effective cadence
// matches the requested interval), then issues one GET. A 200 response
// with body status "InProgress" continues polling; "Succeeded" returns
// (succeeded, body); anything else returns (failed, {}). A request-level
// I/O timeout does not abort the wait: it is treated as a running tick.
func (p *Poller) Wait(ctx context.Context, h RemoteOpHandle) (status.Status, Params, error) {
	interval := h.PollInterval
	if interval <= 0 {
		interval = p.DefaultInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	// The limiter's burst-of-one bucket starts full; drain it so the
	// first Wait call actually honors one interval of delay before the
	// first GET, matching the "poll cadence" requirement.
	limiter.Allow()

	start := p.clock()()
	for {
		if err := limiter.Wait(ctx); err != nil {
			return status.Canceled, Params{}, nil
		}
		select {
		case <-ctx.Done():
			return status.Canceled, Params{}, nil
		default:
		}

		if p.clock()().Sub(start) > p.Timeout {
			return status.TimedOut, Params{}, nil
		}

		reqStart := p.clock()()
		st, body, err := p.poll(ctx, h.PollURL)
		_ = p.clock()().Sub(reqStart) // elapsed round trip already absorbed by limiter on next tick

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return status.Canceled, Params{}, nil
			}
			if isTimeoutErr(err) {
				// Request-level timeout: treat as still running, retry
				// at the next tick.
				continue
			}
			return status.Failed, Params{}, tunerr.Wrap(tunerr.KindTransport, err, "polling %s", h.PollURL)
		}

		switch st {
		case "InProgress":
			continue
		case "Succeeded":
			return status.Succeeded, body, nil
		default:
			return status.Failed, Params{}, nil
		}
	}
}

func (p *Poller) poll(ctx context.Context, url string) (string, Params, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("unexpected poll response: %s", resp.Status)
	}
	var body Params
	if err := json.Unmarshal(b, &body); err != nil {
		return "", nil, err
	}
	st, _ := body["status"].(string)
	return st, body, nil
}

func isTimeoutErr(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// Doer is satisfied by *http.Client and by *pester.Client, so the
// initiating call can be routed through a retrying wrapper while the
// poll loop keeps using a plain client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Initiate issues the single POST/PUT that starts an async operation,
// dispatching on the response per the uniform contract: 200 completes
// synchronously, 202 yields a RemoteOpHandle built from the async-op
// (falling back to Location) and Retry-After headers, with a relative
// poll URL resolved against the request URL; anything else fails.
func Initiate(ctx context.Context, client Doer, method, url string, body Params) (status.Status, Params, *RemoteOpHandle, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return status.Failed, nil, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return status.Failed, nil, nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return status.Failed, nil, nil, tunerr.Wrap(tunerr.KindTransport, err, "initiating %s %s", method, url)
	}
	defer resp.Body.Close()
	_, _ = io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return status.Succeeded, body, nil, nil
	case http.StatusAccepted:
		pollURL := resp.Header.Get("async-op")
		if pollURL == "" {
			pollURL = resp.Header.Get("Location")
		}
		if pollURL != "" && resp.Request != nil {
			if u, err := resp.Request.URL.Parse(pollURL); err == nil {
				pollURL = u.String()
			}
		}
		handle := &RemoteOpHandle{PollURL: pollURL, Origin: body}
		out := body.Clone()
		out["poll_url"] = pollURL
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.ParseFloat(ra, 64); err == nil {
				handle.PollInterval = time.Duration(secs * float64(time.Second))
				out["poll_interval"] = secs
			}
		}
		return status.Pending, out, handle, nil
	default:
		return status.Failed, Params{}, nil, nil
	}
}
