package pursuit

import "time"

// PhaseDurations holds wall-clock timing for each phase of one iteration.
// Phases that did not run are zero.
type PhaseDurations struct {
	Plan    time.Duration `json:"plan"`
	Act     time.Duration `json:"act,omitempty"`
	Observe time.Duration `json:"observe,omitempty"`
	Reflect time.Duration `json:"reflect,omitempty"`
}

// IterationRecord captures everything one iteration produced. Pointer
// fields are nil for phases that never ran: an exit-requested iteration
// has only its Plan, and the final successful iteration may omit
// Reflection if the reflect callback failed.
type IterationRecord struct {
	Iteration    int            `json:"iteration"`
	Plan         Plan           `json:"plan"`
	ActionResult *ActionResult  `json:"action_result,omitempty"`
	Observation  *Observation   `json:"observation,omitempty"`
	Reflection   *Reflection    `json:"reflection,omitempty"`
	Phases       PhaseDurations `json:"phases"`
}

// Trace is the ordered record of every iteration within one pursuit.
// It is append-only while the pursuit runs and immutable once the
// pursuit terminates; it is owned exclusively by its Result.
type Trace []IterationRecord

// Len returns the number of recorded iterations.
func (t Trace) Len() int { return len(t) }

// Last returns the most recent iteration record, or nil if the trace
// is empty.
func (t Trace) Last() *IterationRecord {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// Result is the outcome of one pursuit. The runtime retains no reference
// to it after returning; there is no shared mutable state across pursuits.
type Result struct {
	PursuitID        string        `json:"pursuit_id"`
	Success          bool          `json:"success"`
	Iterations       int           `json:"iterations"`
	FinalObservation *Observation  `json:"final_observation,omitempty"`
	Reason           string        `json:"reason,omitempty"`
	Trace            Trace         `json:"trace"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
}
