package optimizer

import (
	"context"
	"testing"

	"github.com/tunebench-io/tunebench/pkg/status"
	"github.com/tunebench-io/tunebench/pkg/tunables"
	"github.com/tunebench-io/tunebench/pkg/tunerr"
)

func templateGroups(t *testing.T) *tunables.TunableGroups {
	t.Helper()
	tn, err := tunables.NewNumeric("x", tunables.KindInteger, tunables.IntValue(50), tunables.Range{Min: 0, Max: 100})
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

func TestRegisterInconsistentObservation(t *testing.T) {
	opt := NewRandomOptimizer(templateGroups(t), NewTarget("score", false), 10, 1)
	tg, err := opt.Suggest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := opt.Register(context.Background(), tg, status.Succeeded, nil); err == nil {
		t.Fatal("expected InconsistentObservation when succeeded has no score")
	} else if k, ok := tunerr.KindOf(err); !ok || k != tunerr.KindInconsistentObservation {
		t.Fatalf("got kind %v", k)
	}
	score := 1.0
	if _, err := opt.Register(context.Background(), tg, status.Failed, &score); err == nil {
		t.Fatal("expected InconsistentObservation when failed carries a score")
	}
}

// S1: random optimizer over 10 iterations, single integer tunable range
// [0,100]; every trial succeeds. best_observation().score must be <= the
// minimum of all ten reported scores (minimize target).
func TestScenarioS1BestObservation(t *testing.T) {
	// NotConverged is true while iterations <= max_iterations, so
	// max_iterations=9 permits exactly ten suggest/register rounds
	// (iteration counter 0..9) before convergence.
	opt := NewRandomOptimizer(templateGroups(t), NewTarget("score", false), 9, 7)
	scores := []float64{9, 3, 7, 1, 8, 2, 6, 4, 5, 0}
	min := scores[0]
	for _, s := range scores {
		if s < min {
			min = s
		}
	}
	for _, s := range scores {
		tg, err := opt.Suggest(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		score := s
		if _, err := opt.Register(context.Background(), tg, status.Succeeded, &score); err != nil {
			t.Fatal(err)
		}
	}
	best, tg := opt.BestObservation()
	if best == nil || tg == nil {
		t.Fatal("expected a best observation after registering successes")
	}
	if *best > min {
		t.Fatalf("best observation %v exceeds minimum scored %v", *best, min)
	}
	if opt.NotConverged() {
		t.Fatal("expected optimizer to report converged after max_iterations")
	}
}

func TestMaximizeNegatesSignedScore(t *testing.T) {
	opt := NewRandomOptimizer(templateGroups(t), NewTarget("score", true), 10, 1)
	tg, _ := opt.Suggest(context.Background())
	score := 5.0
	signed, err := opt.Register(context.Background(), tg, status.Succeeded, &score)
	if err != nil {
		t.Fatal(err)
	}
	if signed != -5.0 {
		t.Fatalf("expected maximize target to negate score, got %v", signed)
	}
}

func TestBulkRegisterWarmStart(t *testing.T) {
	tg := templateGroups(t)
	opt := NewRandomOptimizer(tg, NewTarget("score", false), 10, 1)
	s1, s2 := 3.0, 1.0
	err := opt.BulkRegister(context.Background(), []Observation{
		{Tunables: tg, Status: status.Succeeded, Score: &s1},
		{Tunables: tg, Status: status.Succeeded, Score: &s2},
	})
	if err != nil {
		t.Fatal(err)
	}
	best, _ := opt.BestObservation()
	if best == nil || *best != 1.0 {
		t.Fatalf("expected bulk-registered best of 1.0, got %v", best)
	}
	if opt.Iterations() != 2 {
		t.Fatalf("expected 2 iterations counted from bulk register, got %d", opt.Iterations())
	}
}
