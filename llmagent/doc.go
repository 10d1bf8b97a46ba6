// Package llmagent builds pursuit callbacks from a language model.
//
// A Strategist pairs an LLM with a registry of executable actions and
// produces the plan/act/observe/reflect callbacks the pursuit runtime
// drives: the model decides the next action each iteration, the registry
// executes it, and a pluggable Reflector turns outcomes into strategy
// feedback. The transcript of decisions and outcomes is the strategist's
// mutable memory, rendered into every planning prompt.
//
// # Quick Start
//
//	client, err := llmagent.NewClient("anthropic", "claude-sonnet-4-5")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry := llmagent.NewActionRegistry()
//	registry.Register(llmagent.RegisteredAction{
//	    Definition: llmagent.ActionDefinition{
//	        Name:        "check_health",
//	        Description: "Fetch the current error rate of the canary deployment",
//	    },
//	    Execute: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
//	        return fetchErrorRate(ctx)
//	    },
//	})
//
//	strategist := llmagent.NewStrategist(client, registry, nil, nil)
//	result, err := pursuit.Pursue(ctx, goal, nil, strategist.Callbacks())
//
// # Reflection levels
//
// RuleReflector flags strategy adjustment from transcript heuristics
// without a model call; LLMReflector asks the model for a JSON verdict.
// Both are advisory: the pursuit runtime treats the goal's success
// criteria as the sole authority on success.
//
// # Failure policy
//
// Executor failures and unknown actions become error outcomes the model
// sees on its next turn, rather than terminating the pursuit. Provider
// failures retry under RetryPolicy; unparseable model decisions surface
// as plan-phase callback errors, since continuing without a decision
// would mean guessing.
package llmagent
