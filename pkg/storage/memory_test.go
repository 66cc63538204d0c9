package storage

import (
	"context"
	"testing"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

func testGroups(t *testing.T) *tunables.TunableGroups {
	t.Helper()
	tn, err := tunables.NewNumeric("x", tunables.KindInteger, tunables.IntValue(7), tunables.Range{Min: 0, Max: 10})
	if err != nil {
		t.Fatal(err)
	}
	g, err := tunables.NewTunableGroup("g", 1, []*tunables.Tunable{tn})
	if err != nil {
		t.Fatal(err)
	}
	tg, err := tunables.NewTunableGroups([]*tunables.TunableGroup{g})
	if err != nil {
		t.Fatal(err)
	}
	return tg
}

func TestTrialLifecycle(t *testing.T) {
	store := NewMemoryStorage()
	scope, err := store.OpenExperiment(context.Background(), ExperimentKey{ExperimentID: "exp1", RootHash: "h1", TargetMetric: "score", SchemaVersion: "1.0.0"})
	if err != nil {
		t.Fatal(err)
	}

	trial, err := scope.CreateTrial(context.Background(), testGroups(t))
	if err != nil {
		t.Fatal(err)
	}
	if !trial.IsPending() {
		t.Fatal("expected newly created trial to be pending")
	}

	if _, err := scope.CompleteTrial(context.Background(), trial.ID, status.Succeeded, map[string]float64{"score": 1}); err == nil {
		t.Fatal("expected error completing a pending (not running) trial")
	}

	running, err := scope.StartTrial(context.Background(), trial.ID)
	if err != nil {
		t.Fatal(err)
	}
	if running.Status != status.Running {
		t.Fatalf("expected running, got %s", running.Status)
	}

	done, err := scope.CompleteTrial(context.Background(), trial.ID, status.Succeeded, map[string]float64{"score": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !done.IsTerminal() {
		t.Fatal("expected terminal trial after completion")
	}

	if _, err := scope.CompleteTrial(context.Background(), trial.ID, status.Failed, nil); err == nil {
		t.Fatal("expected error re-completing an already-terminal trial")
	}
}

// S5: storage holds one pending trial; PendingTrials must surface it for
// re-execution without allocating a new id.
func TestScenarioS5PendingTrialRecovery(t *testing.T) {
	store := NewMemoryStorage()
	scope, err := store.OpenExperiment(context.Background(), ExperimentKey{ExperimentID: "exp1", RootHash: "h1", TargetMetric: "score"})
	if err != nil {
		t.Fatal(err)
	}
	created, err := scope.CreateTrial(context.Background(), testGroups(t))
	if err != nil {
		t.Fatal(err)
	}

	pending, err := scope.PendingTrials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("expected the same pending trial id to be recovered, got %+v", pending)
	}
}

func TestListTrialsReturnsPendingAndTerminal(t *testing.T) {
	store := NewMemoryStorage()
	key := ExperimentKey{ExperimentID: "exp1", RootHash: "h1", TargetMetric: "score"}
	scope, err := store.OpenExperiment(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}

	pending, err := scope.CreateTrial(context.Background(), testGroups(t))
	if err != nil {
		t.Fatal(err)
	}
	done, err := scope.CreateTrial(context.Background(), testGroups(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := scope.StartTrial(context.Background(), done.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := scope.CompleteTrial(context.Background(), done.ID, status.Succeeded, map[string]float64{"score": 1}); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListTrials(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both trials listed, got %d", len(all))
	}
	if all[0].ID != pending.ID || all[1].ID != done.ID {
		t.Fatalf("expected creation order preserved, got %+v", all)
	}
}

func TestListTrialsUnknownExperimentIsEmpty(t *testing.T) {
	store := NewMemoryStorage()
	all, err := store.ListTrials(context.Background(), ExperimentKey{ExperimentID: "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no trials for an unopened experiment, got %+v", all)
	}
}

func TestExperimentMismatch(t *testing.T) {
	store := NewMemoryStorage()
	key := ExperimentKey{ExperimentID: "exp1", RootHash: "h1", TargetMetric: "score", SchemaVersion: "1.2.0"}
	if _, err := store.OpenExperiment(context.Background(), key); err != nil {
		t.Fatal(err)
	}

	mismatched := key
	mismatched.RootHash = "h2"
	_, err := store.OpenExperiment(context.Background(), mismatched)
	if err == nil {
		t.Fatal("expected ExperimentMismatch for a changed root hash")
	}
	if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindExperimentMismatch {
		t.Fatalf("got kind %v, want ExperimentMismatch", k)
	}

	compatible := key
	compatible.SchemaVersion = "1.9.0"
	if _, err := store.OpenExperiment(context.Background(), compatible); err != nil {
		t.Fatalf("expected same major schema version to be compatible: %v", err)
	}

	incompatible := key
	incompatible.SchemaVersion = "2.0.0"
	if _, err := store.OpenExperiment(context.Background(), incompatible); err == nil {
		t.Fatal("expected differing major schema version to be incompatible")
	}
}
