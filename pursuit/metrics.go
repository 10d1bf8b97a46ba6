package pursuit

import "sync"

// Stats is a point-in-time snapshot of aggregate pursuit statistics.
// Derived rates are 0 rather than NaN when their denominators are zero.
type Stats struct {
	TotalPursuits       int64   `json:"total_pursuits"`
	SuccessfulPursuits  int64   `json:"successful_pursuits"`
	TotalIterations     int64   `json:"total_iterations"`
	ConvergenceRate     float64 `json:"convergence_rate"`
	AvgIterationsToGoal float64 `json:"avg_iterations_to_goal"`
}

// Aggregator accumulates summary statistics across completed pursuits.
// It is process-wide shared state: Record is safe under concurrent
// invocation and Snapshot observes a consistent view of the counters.
// Counters only reset on an explicit Reset call.
type Aggregator struct {
	mu                 sync.Mutex
	totalPursuits      int64
	successfulPursuits int64
	totalIterations    int64
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record folds one completed pursuit into the running counters.
// Iterations accumulate only for successful pursuits, so the average
// measures iterations-to-goal rather than effort spent on failures.
func (a *Aggregator) Record(result *Result) {
	if result == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalPursuits++
	if result.Success {
		a.successfulPursuits++
		a.totalIterations += int64(result.Iterations)
	}
}

// Snapshot returns a read-only copy of the current counters plus derived
// rates.
func (a *Aggregator) Snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := Stats{
		TotalPursuits:      a.totalPursuits,
		SuccessfulPursuits: a.successfulPursuits,
		TotalIterations:    a.totalIterations,
	}
	if a.totalPursuits > 0 {
		stats.ConvergenceRate = float64(a.successfulPursuits) / float64(a.totalPursuits)
	}
	if a.successfulPursuits > 0 {
		stats.AvgIterationsToGoal = float64(a.totalIterations) / float64(a.successfulPursuits)
	}
	return stats
}

// Reset zeros all counters.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalPursuits = 0
	a.successfulPursuits = 0
	a.totalIterations = 0
}
