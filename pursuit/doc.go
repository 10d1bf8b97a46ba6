// Package pursuit implements a bounded goal-pursuit loop runtime.
//
// It drives the goal -> plan -> act -> observe -> reflect cycle for a
// caller-supplied goal, invoking caller-supplied callbacks each iteration
// and stopping on success, a caller-signaled exit, or iteration-limit
// exhaustion. The runtime only drives control flow; the agent decides all
// semantics through its callbacks and their closure state.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Runner: Executes pursuits. Stateless between calls and safe for
//     concurrent use; holds only observability configuration.
//   - Goal: A success predicate over observations plus an iteration cap.
//   - Callbacks: The four phase callbacks (plan, act, observe, reflect).
//     Payloads flowing between them are opaque to the runtime.
//   - Result: The outcome of one pursuit, carrying its full Trace of
//     per-iteration records and phase timings.
//   - EventEmitter: Typed event stream for host application integration.
//   - Aggregator: Process-wide convergence statistics across pursuits.
//
// # Quick Start
//
//	goal := pursuit.Goal{
//	    Description:   "reach ten",
//	    MaxIterations: 5,
//	    SuccessCriteria: func(obs pursuit.Observation) (bool, error) {
//	        return obs.Payload.(int) >= 10, nil
//	    },
//	}
//
//	result, err := pursuit.Pursue(ctx, goal, 0, pursuit.Callbacks{
//	    Plan:    planNextStep,
//	    Act:     applyStep,
//	    Observe: readCounter,
//	    Reflect: noteProgress,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Success, result.Iterations)
//
// # Failure semantics
//
// The runtime performs no retries; resilience belongs in the caller's
// callbacks. A malformed goal or missing callback fails fast before any
// iteration. A success-criteria error is captured into the returned
// Result. A callback error propagates to the caller alongside a
// best-effort Result carrying the partial trace.
package pursuit
