package llmagent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkelleher/goalloop/pursuit"
)

// Reflector analyzes an observation after an unsuccessful criteria check
// (and once more on the final, successful iteration). Implementations
// range from cheap rule checks to a full model round-trip.
type Reflector interface {
	Reflect(ctx context.Context, obs pursuit.Observation, goal pursuit.Goal, transcript *Transcript) (pursuit.Reflection, error)
}

// RuleReflector is a heuristic reflector: it flags strategy adjustment
// once the transcript shows a run of consecutive failed actions. No
// model call is made.
type RuleReflector struct {
	// ErrorThreshold is the number of consecutive failed outcomes that
	// triggers ShouldAdjustStrategy. 0 means 2.
	ErrorThreshold int
}

func (r RuleReflector) Reflect(_ context.Context, _ pursuit.Observation, _ pursuit.Goal, transcript *Transcript) (pursuit.Reflection, error) {
	threshold := r.ErrorThreshold
	if threshold <= 0 {
		threshold = 2
	}
	consecutive := transcript.ConsecutiveErrors()
	reflection := pursuit.Reflection{
		ShouldAdjustStrategy: consecutive >= threshold,
	}
	if reflection.ShouldAdjustStrategy {
		reflection.Learnings = fmt.Sprintf("%d consecutive failed actions; try a different approach", consecutive)
	}
	return reflection, nil
}

// LLMReflector asks the model for a reflection verdict as JSON.
type LLMReflector struct {
	LLM       LLM
	MaxTokens int
}

// reflectionVerdict is the JSON shape the model is asked to produce.
type reflectionVerdict struct {
	GoalAchieved   bool   `json:"goal_achieved"`
	AdjustStrategy bool   `json:"adjust_strategy"`
	Learnings      string `json:"learnings"`
}

const reflectSystemPrompt = `You review the progress of an autonomous agent.
Respond with a single JSON object: {"goal_achieved": bool, "adjust_strategy": bool, "learnings": "one sentence"}.
No prose outside the JSON.`

func (r LLMReflector) Reflect(ctx context.Context, obs pursuit.Observation, goal pursuit.Goal, transcript *Transcript) (pursuit.Reflection, error) {
	user := fmt.Sprintf("Goal: %s\n\nLatest observation:\n%s\n\nRecent history:\n%s",
		goal.Description, renderPayload(obs.Payload), transcript.Render(6))

	text, err := r.LLM.Complete(ctx, Prompt{
		System:    reflectSystemPrompt,
		User:      user,
		MaxTokens: r.MaxTokens,
	})
	if err != nil {
		return pursuit.Reflection{}, err
	}

	var verdict reflectionVerdict
	if err := json.Unmarshal(extractJSON(text), &verdict); err != nil {
		return pursuit.Reflection{}, &DecisionError{
			ClientError: ClientError{Message: "unparseable reflection verdict", Cause: err},
			Output:      text,
		}
	}

	return pursuit.Reflection{
		GoalAchieved:         verdict.GoalAchieved,
		ShouldAdjustStrategy: verdict.AdjustStrategy,
		Learnings:            verdict.Learnings,
	}, nil
}

// renderPayload formats an opaque payload for prompt inclusion.
func renderPayload(payload interface{}) string {
	if payload == nil {
		return "(none)"
	}
	if s, ok := payload.(string); ok {
		return s
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(raw)
}
