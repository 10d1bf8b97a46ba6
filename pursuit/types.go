package pursuit

import "context"

// Goal describes what one pursuit is trying to achieve: a human-readable
// description, a success predicate over observations, and an iteration cap.
// A Goal is read-only to the runtime and must not change while a pursuit
// that uses it is running.
type Goal struct {
	// Description is informational only; it is carried into events and
	// logs but never interpreted by the runtime.
	Description string `json:"description"`

	// SuccessCriteria decides whether an observation satisfies the goal.
	// It is the sole authority on success; Reflection.GoalAchieved is
	// advisory. A returned error terminates the pursuit as a failed
	// result rather than propagating.
	SuccessCriteria func(Observation) (bool, error) `json:"-"`

	// MaxIterations bounds the number of plan/act/observe/reflect cycles.
	// Must be at least 1.
	MaxIterations int `json:"max_iterations"`
}

// Plan is one iteration's proposed action, or a request to exit early.
type Plan struct {
	// ActionToken identifies what to do. Its shape is caller-defined;
	// the runtime carries it into the act phase without inspection.
	ActionToken interface{} `json:"action_token,omitempty"`

	// ShouldExit requests immediate termination without running the
	// act/observe/reflect phases for this iteration.
	ShouldExit bool `json:"should_exit,omitempty"`

	// ExitReason explains a ShouldExit request. Defaults to
	// "agent requested exit" when unset.
	ExitReason string `json:"exit_reason,omitempty"`
}

// ActionResult is the opaque product of the act phase, consumed only by
// the observe callback.
type ActionResult struct {
	Payload interface{} `json:"payload,omitempty"`
}

// Observation is state derived from an action's result. It is checked
// against the success criteria and becomes the current state carried into
// the next iteration's planning call.
type Observation struct {
	Payload interface{} `json:"payload,omitempty"`
}

// Reflection is the caller's post-hoc analysis of an observation. The
// runtime records it and moves on; it never acts on any of its fields.
type Reflection struct {
	GoalAchieved         bool        `json:"goal_achieved"`
	ShouldAdjustStrategy bool        `json:"should_adjust_strategy"`
	Learnings            interface{} `json:"learnings,omitempty"`
}

// PlanFunc produces the next Plan from the goal and the current state.
// On the first iteration state is the initial state passed to Pursue;
// afterwards it is the previous iteration's Observation.
type PlanFunc func(ctx context.Context, goal Goal, state interface{}) (Plan, error)

// ActFunc executes a plan and returns its raw result.
type ActFunc func(ctx context.Context, plan Plan) (ActionResult, error)

// ObserveFunc derives an Observation from an action's result.
type ObserveFunc func(ctx context.Context, result ActionResult) (Observation, error)

// ReflectFunc analyzes an observation against the goal. Its output is
// recorded in the trace; strategy adjustment happens inside the caller's
// own closures, not in the runtime.
type ReflectFunc func(ctx context.Context, obs Observation, goal Goal) (Reflection, error)

// Callbacks bundles the four phase callbacks for one pursuit. All four
// are required.
type Callbacks struct {
	Plan    PlanFunc
	Act     ActFunc
	Observe ObserveFunc
	Reflect ReflectFunc
}
