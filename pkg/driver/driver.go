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

// Package driver implements the experiment driver main loop: resuming
// pending work, feeding the optimizer, and executing trials against the
// root environment.
package driver

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/tunebench-io/tunebench/pkg/environment"
	"github.com/tunebench-io/tunebench/pkg/optimizer"
	"github.com/tunebench-io/tunebench/pkg/service"
	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/storage"
)

// Driver owns one experiment's end-to-end execution: it is constructed
// once per run and discarded after Run returns.
type Driver struct {
	Root         environment.Node
	Optimizer    optimizer.Optimizer
	Storage      storage.Storage
	GlobalConfig service.Params
	GroupNames   []string
	Log          logr.Logger
}

// New constructs a Driver. log defaults to a no-op logger if zero-valued.
func New(root environment.Node, opt optimizer.Optimizer, store storage.Storage, groupNames []string, globalConfig service.Params, log logr.Logger) *Driver {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Driver{Root: root, Optimizer: opt, Storage: store, GroupNames: groupNames, GlobalConfig: globalConfig, Log: log}
}

// Run executes the full driver loop against key and returns the best
// observation once the optimizer reports convergence. teardown of the
// root environment is always attempted before returning, regardless of
// outcome.
func (d *Driver) Run(ctx context.Context, key storage.ExperimentKey) (*float64, error) {
	defer d.Root.Teardown(context.Background())

	scope, err := d.Storage.OpenExperiment(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := d.warmStart(ctx, scope); err != nil {
		return nil, err
	}

	pending, err := scope.PendingTrials(ctx)
	if err != nil {
		return nil, err
	}
	for _, trial := range pending {
		if ctx.Err() != nil {
			break
		}
		d.Log.V(1).Info("resuming pending trial", "trial", trial.ID)
		if err := d.executeTrial(ctx, scope, trial); err != nil {
			return nil, err
		}
	}

	for ctx.Err() == nil && d.Optimizer.NotConverged() {
		suggestion, err := d.Optimizer.Suggest(ctx)
		if err != nil {
			return nil, err
		}
		trial, err := scope.CreateTrial(ctx, suggestion)
		if err != nil {
			return nil, err
		}
		d.Log.V(1).Info("allocated trial", "trial", trial.ID)
		if err := d.executeTrial(ctx, scope, trial); err != nil {
			return nil, err
		}
	}

	best, _ := d.Optimizer.BestObservation()
	return best, nil
}

func (d *Driver) warmStart(ctx context.Context, scope storage.ExperimentScope) error {
	observations, err := scope.LoadObservations(ctx)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return nil
	}
	converted := make([]optimizer.Observation, len(observations))
	for i, o := range observations {
		converted[i] = optimizer.Observation{Tunables: o.Tunables, Status: o.Status, Score: o.Score}
	}
	return d.Optimizer.BulkRegister(ctx, converted)
}

// executeTrial implements trial execution (setup, status snapshot, run,
// register) for a single trial, whether freshly allocated or recovered
// from pending storage. It never calls Teardown: that only happens once,
// at driver shutdown, on the root environment.
func (d *Driver) executeTrial(ctx context.Context, scope storage.ExperimentScope, trial *storage.Trial) error {
	if trial.IsPending() {
		started, err := scope.StartTrial(ctx, trial.ID)
		if err != nil {
			return err
		}
		trial = started
	}

	ok, err := d.Root.Setup(ctx, trial.Tunables, d.GlobalConfig)
	if err != nil || !ok {
		return d.finish(ctx, scope, trial, status.Failed, nil)
	}

	if _, telemetry := d.Root.Status(ctx); telemetry != nil {
		_ = scope.RecordTelemetry(ctx, trial.ID, telemetry)
	}

	st, result, err := d.Root.Run(ctx)
	if err != nil {
		return d.finish(ctx, scope, trial, status.Failed, nil)
	}

	var scores map[string]float64
	if st == status.Succeeded {
		scores = make(map[string]float64, len(result))
		for k, v := range result {
			scores[k] = v
		}
	}
	return d.finish(ctx, scope, trial, st, scores)
}

func (d *Driver) finish(ctx context.Context, scope storage.ExperimentScope, trial *storage.Trial, st status.Status, scores map[string]float64) error {
	if _, err := scope.CompleteTrial(ctx, trial.ID, st, scores); err != nil {
		return err
	}
	var score *float64
	if st == status.Succeeded {
		if s, ok := scores[scope.Key().TargetMetric]; ok {
			score = &s
		}
	}
	_, err := d.Optimizer.Register(ctx, trial.Tunables, st, score)
	return err
}
