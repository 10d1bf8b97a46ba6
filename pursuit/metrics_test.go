package pursuit

import (
	"math"
	"sync"
	"testing"
)

func TestAggregatorEmptySnapshot(t *testing.T) {
	agg := NewAggregator()
	stats := agg.Snapshot()

	if stats.TotalPursuits != 0 || stats.SuccessfulPursuits != 0 || stats.TotalIterations != 0 {
		t.Errorf("expected zero counters, got %+v", stats)
	}
	if stats.ConvergenceRate != 0 {
		t.Errorf("expected convergence rate 0, got %f", stats.ConvergenceRate)
	}
	if stats.AvgIterationsToGoal != 0 {
		t.Errorf("expected avg iterations 0, got %f", stats.AvgIterationsToGoal)
	}
}

func TestAggregatorRecordsOutcomes(t *testing.T) {
	agg := NewAggregator()
	agg.Record(&Result{Success: true, Iterations: 2})
	agg.Record(&Result{Success: true, Iterations: 4})
	agg.Record(&Result{Success: false, Iterations: 7, Reason: ReasonMaxIterations})

	stats := agg.Snapshot()
	if stats.TotalPursuits != 3 {
		t.Errorf("expected 3 pursuits, got %d", stats.TotalPursuits)
	}
	if stats.SuccessfulPursuits != 2 {
		t.Errorf("expected 2 successes, got %d", stats.SuccessfulPursuits)
	}
	if stats.TotalIterations != 6 {
		t.Errorf("failed pursuits must not add iterations, got %d", stats.TotalIterations)
	}
	if math.Abs(stats.ConvergenceRate-2.0/3.0) > 1e-9 {
		t.Errorf("expected convergence rate 2/3, got %f", stats.ConvergenceRate)
	}
	if stats.AvgIterationsToGoal != 3.0 {
		t.Errorf("expected avg iterations 3.0, got %f", stats.AvgIterationsToGoal)
	}
}

func TestAggregatorAllFailures(t *testing.T) {
	agg := NewAggregator()
	agg.Record(&Result{Success: false, Iterations: 5})
	agg.Record(&Result{Success: false, Iterations: 5})

	stats := agg.Snapshot()
	if stats.ConvergenceRate != 0 {
		t.Errorf("expected convergence rate 0, got %f", stats.ConvergenceRate)
	}
	if stats.AvgIterationsToGoal != 0 {
		t.Errorf("expected avg iterations 0 with no successes, got %f", stats.AvgIterationsToGoal)
	}
}

func TestAggregatorReset(t *testing.T) {
	agg := NewAggregator()
	agg.Record(&Result{Success: true, Iterations: 3})
	agg.Reset()

	stats := agg.Snapshot()
	if stats != (Stats{}) {
		t.Errorf("expected all-zero stats after reset, got %+v", stats)
	}
}

func TestAggregatorIgnoresNil(t *testing.T) {
	agg := NewAggregator()
	agg.Record(nil)
	if stats := agg.Snapshot(); stats.TotalPursuits != 0 {
		t.Errorf("nil result must not count, got %+v", stats)
	}
}

func TestAggregatorConcurrentRecord(t *testing.T) {
	agg := NewAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			agg.Record(&Result{Success: n%2 == 0, Iterations: 2})
		}(i)
	}
	wg.Wait()

	stats := agg.Snapshot()
	if stats.TotalPursuits != 100 {
		t.Errorf("expected 100 pursuits, got %d", stats.TotalPursuits)
	}
	if stats.SuccessfulPursuits != 50 {
		t.Errorf("expected 50 successes, got %d", stats.SuccessfulPursuits)
	}
	if stats.TotalIterations != 100 {
		t.Errorf("expected 100 iterations, got %d", stats.TotalIterations)
	}
	if stats.ConvergenceRate != 0.5 {
		t.Errorf("expected convergence rate 0.5, got %f", stats.ConvergenceRate)
	}
	if stats.AvgIterationsToGoal != 2.0 {
		t.Errorf("expected avg iterations 2.0, got %f", stats.AvgIterationsToGoal)
	}
}
