package pursuit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Termination reasons reported on failed results.
const (
	ReasonAgentExit     = "agent requested exit"
	ReasonMaxIterations = "max iterations reached"
	ReasonStallDetected = "stall detected: repeating plan pattern"
)

// RunnerConfig holds observability and safety options for a Runner.
// None of them change the core iteration contract; stall aborts are
// opt-in.
type RunnerConfig struct {
	// Logger receives structured pursuit logs. Disabled by default.
	Logger zerolog.Logger

	// Emitter receives typed events for every pursuit this runner
	// executes. Nil disables events. The runner never closes it.
	Emitter *EventEmitter

	// StallWindow enables stall detection over the last N plans when
	// positive. A stall is a repeating plan pattern of length 1-3
	// filling the window.
	StallWindow int

	// AbortOnStall terminates a pursuit when a stall is detected
	// instead of only reporting it.
	AbortOnStall bool
}

// DefaultRunnerConfig returns the default configuration: no logging, no
// events, stall detection off.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Logger: zerolog.Nop(),
	}
}

// Runner executes bounded goal pursuits. It holds only configuration,
// keeps no state between pursuits, and is safe for concurrent use.
type Runner struct {
	config RunnerConfig
}

// NewRunner creates a Runner with the given configuration. A nil config
// uses DefaultRunnerConfig.
func NewRunner(config *RunnerConfig) *Runner {
	cfg := DefaultRunnerConfig()
	if config != nil {
		cfg = *config
	}
	return &Runner{config: cfg}
}

// Pursue drives one bounded pursuit of goal, invoking the callbacks in
// strict plan -> act -> observe -> reflect order each iteration.
//
// It returns a Result for every pursuit that started iterating, possibly
// marked failed with a Reason. The error return is reserved for contract
// violations detected before the first iteration (invalid goal, missing
// callback) and for callback failures, which accompany a best-effort
// Result carrying the partial trace.
//
// The context is handed to every callback unchanged. The runtime itself
// imposes no timeout and performs no cancellation checks; callers wanting
// either wrap their callbacks or the whole call.
func (r *Runner) Pursue(ctx context.Context, goal Goal, initialState interface{}, cbs Callbacks) (*Result, error) {
	if goal.MaxIterations < 1 {
		return nil, newInvalidGoal("max_iterations must be at least 1, got %d", goal.MaxIterations)
	}
	if goal.SuccessCriteria == nil {
		return nil, newInvalidGoal("goal has no success criteria")
	}
	for _, c := range []struct {
		phase   Phase
		missing bool
	}{
		{PhasePlan, cbs.Plan == nil},
		{PhaseAct, cbs.Act == nil},
		{PhaseObserve, cbs.Observe == nil},
		{PhaseReflect, cbs.Reflect == nil},
	} {
		if c.missing {
			return nil, newInvalidCallback(c.phase)
		}
	}

	p := &activePursuit{
		id:      uuid.New().String(),
		goal:    goal,
		cbs:     cbs,
		config:  r.config,
		started: time.Now(),
	}
	p.logger = r.config.Logger.With().Str("pursuit_id", p.id).Logger()

	return p.run(ctx, initialState)
}

// activePursuit holds the in-flight state of a single pursuit. It lives
// on the stack of one Pursue call and is never shared.
type activePursuit struct {
	id       string
	goal     Goal
	cbs      Callbacks
	config   RunnerConfig
	logger   zerolog.Logger
	started  time.Time
	trace    Trace
	planSigs []string
	lastObs  *Observation
}

func (p *activePursuit) run(ctx context.Context, initialState interface{}) (*Result, error) {
	p.emit(EventPursuitStart, map[string]interface{}{
		"goal":           p.goal.Description,
		"max_iterations": p.goal.MaxIterations,
	})
	p.logger.Info().
		Str("goal", p.goal.Description).
		Int("max_iterations", p.goal.MaxIterations).
		Msg("pursuit started")

	state := initialState

	for i := 1; i <= p.goal.MaxIterations; i++ {
		record := IterationRecord{Iteration: i}

		planStart := time.Now()
		plan, err := p.cbs.Plan(ctx, p.goal, state)
		record.Phases.Plan = time.Since(planStart)
		if err != nil {
			return p.failCallback(record, PhasePlan, err)
		}
		record.Plan = plan
		p.logger.Debug().Int("iteration", i).Msg("plan complete")
		p.emit(EventPlan, map[string]interface{}{
			"iteration":    i,
			"action_token": plan.ActionToken,
		})

		if plan.ShouldExit {
			reason := plan.ExitReason
			if reason == "" {
				reason = ReasonAgentExit
			}
			p.trace = append(p.trace, record)
			p.emit(EventExitRequested, map[string]interface{}{
				"iteration": i,
				"reason":    reason,
			})
			return p.finish(false, i, reason), nil
		}

		actStart := time.Now()
		actionResult, err := p.cbs.Act(ctx, plan)
		record.Phases.Act = time.Since(actStart)
		if err != nil {
			return p.failCallback(record, PhaseAct, err)
		}
		record.ActionResult = &actionResult
		p.emit(EventAction, map[string]interface{}{"iteration": i})

		observeStart := time.Now()
		obs, err := p.cbs.Observe(ctx, actionResult)
		record.Phases.Observe = time.Since(observeStart)
		if err != nil {
			return p.failCallback(record, PhaseObserve, err)
		}
		record.Observation = &obs
		p.lastObs = &obs
		p.emit(EventObservation, map[string]interface{}{"iteration": i})

		achieved, err := p.goal.SuccessCriteria(obs)
		if err != nil {
			p.trace = append(p.trace, record)
			reason := fmt.Sprintf("success criteria evaluation failed: %v", err)
			p.logger.Error().Err(err).Int("iteration", i).Msg("success criteria failed")
			p.emit(EventCriteriaError, map[string]interface{}{
				"iteration": i,
				"error":     err.Error(),
			})
			return p.finish(false, i, reason), nil
		}

		// Reflection runs whether or not the goal was met, so the
		// trace always covers the full cycle and the caller's closure
		// state stays consistent. Its GoalAchieved output never
		// overrides the success criteria.
		reflectStart := time.Now()
		reflection, err := p.cbs.Reflect(ctx, obs, p.goal)
		record.Phases.Reflect = time.Since(reflectStart)
		if err != nil {
			return p.failCallback(record, PhaseReflect, err)
		}
		record.Reflection = &reflection
		p.trace = append(p.trace, record)
		p.emit(EventReflection, map[string]interface{}{
			"iteration":              i,
			"goal_achieved":          reflection.GoalAchieved,
			"should_adjust_strategy": reflection.ShouldAdjustStrategy,
		})

		if achieved {
			p.emit(EventGoalAchieved, map[string]interface{}{"iteration": i})
			return p.finish(true, i, ""), nil
		}

		if stopped := p.checkStall(plan, i); stopped {
			return p.finish(false, i, ReasonStallDetected), nil
		}

		state = obs
	}

	p.emit(EventIterationLimit, map[string]interface{}{
		"iterations": p.goal.MaxIterations,
	})
	return p.finish(false, p.goal.MaxIterations, ReasonMaxIterations), nil
}

// checkStall records the iteration's plan signature and runs stall
// detection when enabled. It returns true when the pursuit must stop.
func (p *activePursuit) checkStall(plan Plan, iteration int) bool {
	if p.config.StallWindow <= 0 {
		return false
	}
	p.planSigs = append(p.planSigs, planSignature(plan.ActionToken))
	if !detectStall(p.planSigs, p.config.StallWindow) {
		return false
	}
	p.logger.Warn().
		Int("iteration", iteration).
		Int("window", p.config.StallWindow).
		Msg("stall detected")
	p.emit(EventStallDetected, map[string]interface{}{
		"iteration": iteration,
		"window":    p.config.StallWindow,
	})
	return p.config.AbortOnStall
}

// failCallback appends the partial record for the failing iteration and
// returns the best-effort Result together with the callback error.
func (p *activePursuit) failCallback(record IterationRecord, phase Phase, cause error) (*Result, error) {
	p.trace = append(p.trace, record)
	reason := fmt.Sprintf("callback failure in phase %s: %v", phase, cause)
	p.logger.Error().Err(cause).Str("phase", string(phase)).Msg("callback failed")
	p.emit(EventCallbackError, map[string]interface{}{
		"phase": string(phase),
		"error": cause.Error(),
	})
	result := p.finish(false, record.Iteration, reason)
	return result, newCallbackError(phase, cause)
}

// finish assembles the final Result and emits the terminal event.
func (p *activePursuit) finish(success bool, iterations int, reason string) *Result {
	result := &Result{
		PursuitID:        p.id,
		Success:          success,
		Iterations:       iterations,
		FinalObservation: p.lastObs,
		Reason:           reason,
		Trace:            p.trace,
		StartedAt:        p.started,
		Duration:         time.Since(p.started),
	}
	p.emit(EventPursuitEnd, map[string]interface{}{
		"success":    success,
		"iterations": iterations,
		"reason":     reason,
	})
	p.logger.Info().
		Bool("success", success).
		Int("iterations", iterations).
		Str("reason", reason).
		Msg("pursuit finished")
	return result
}

func (p *activePursuit) emit(kind EventKind, data map[string]interface{}) {
	if p.config.Emitter == nil {
		return
	}
	p.config.Emitter.Emit(p.id, kind, data)
}

// Module-level default runner.

var (
	defaultRunner     *Runner
	defaultRunnerOnce sync.Once
)

// Pursue runs a pursuit on the module-level default runner, which uses
// DefaultRunnerConfig.
func Pursue(ctx context.Context, goal Goal, initialState interface{}, cbs Callbacks) (*Result, error) {
	defaultRunnerOnce.Do(func() {
		defaultRunner = NewRunner(nil)
	})
	return defaultRunner.Pursue(ctx, goal, initialState, cbs)
}
