package llmagent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkelleher/goalloop/pursuit"
)

// Decision is the model's planning output for one iteration: either an
// action to execute or an exit request.
type Decision struct {
	ID        string          `json:"id,omitempty"`
	Action    string          `json:"action,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Exit      bool            `json:"exit,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Outcome is what executing a decision produced. Executor failures are
// captured here rather than aborting the pursuit, so the model can see
// the failure and correct course on the next iteration.
type Outcome struct {
	Action string      `json:"action"`
	Output interface{} `json:"output,omitempty"`
	Err    string      `json:"error,omitempty"`
}

// IsError reports whether the action failed.
func (o Outcome) IsError() bool { return o.Err != "" }

// StrategistConfig tunes prompt construction.
type StrategistConfig struct {
	// SystemPrompt overrides the default planning system prompt.
	SystemPrompt string

	// TranscriptWindow is the number of transcript entries rendered
	// into each planning prompt. 0 means 12.
	TranscriptWindow int

	// MaxTokens is the completion budget per planning call. 0 leaves
	// it to the client.
	MaxTokens int
}

// DefaultStrategistConfig returns the default configuration.
func DefaultStrategistConfig() StrategistConfig {
	return StrategistConfig{
		TranscriptWindow: 12,
	}
}

const defaultPlanSystemPrompt = `You are an autonomous agent deciding one step at a time.
Each turn you receive a goal, the actions available to you, and the history so far.
Respond with a single JSON object and no prose outside it:
  {"action": "<name>", "arguments": {...}}        to execute an action
  {"exit": true, "reason": "<why>"}               to give up
Pick exactly one action per turn. Never invent action names.`

// Strategist builds the four pursuit callbacks from a language model and
// a registry of executable actions. One strategist drives one pursuit at
// a time; its transcript is the mutable strategy state the reflection
// step feeds back into.
type Strategist struct {
	llm        LLM
	registry   *ActionRegistry
	reflector  Reflector
	transcript *Transcript
	config     StrategistConfig
}

// NewStrategist creates a Strategist. A nil config uses
// DefaultStrategistConfig, a nil registry starts empty, and a nil
// reflector uses RuleReflector defaults.
func NewStrategist(llm LLM, registry *ActionRegistry, reflector Reflector, config *StrategistConfig) *Strategist {
	cfg := DefaultStrategistConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.TranscriptWindow <= 0 {
		cfg.TranscriptWindow = 12
	}
	if registry == nil {
		registry = NewActionRegistry()
	}
	if reflector == nil {
		reflector = RuleReflector{}
	}
	return &Strategist{
		llm:        llm,
		registry:   registry,
		reflector:  reflector,
		transcript: NewTranscript(0),
		config:     cfg,
	}
}

// Transcript exposes the strategist's memory, mainly for inspection
// after a pursuit completes.
func (s *Strategist) Transcript() *Transcript { return s.transcript }

// Callbacks returns the pursuit callbacks backed by this strategist.
func (s *Strategist) Callbacks() pursuit.Callbacks {
	return pursuit.Callbacks{
		Plan:    s.plan,
		Act:     s.act,
		Observe: s.observe,
		Reflect: s.reflect,
	}
}

func (s *Strategist) plan(ctx context.Context, goal pursuit.Goal, state interface{}) (pursuit.Plan, error) {
	system := s.config.SystemPrompt
	if system == "" {
		system = defaultPlanSystemPrompt
	}

	text, err := s.llm.Complete(ctx, Prompt{
		System:    system,
		User:      s.buildPlanPrompt(goal, state),
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return pursuit.Plan{}, err
	}

	decision, err := ParseDecision(text)
	if err != nil {
		return pursuit.Plan{}, err
	}
	decision.ID = "dec_" + uuid.New().String()[:8]

	if decision.Exit {
		s.transcript.Append(EntryDecision, "exit: "+decision.Reason, false)
		return pursuit.Plan{
			ActionToken: decision,
			ShouldExit:  true,
			ExitReason:  decision.Reason,
		}, nil
	}

	s.transcript.Append(EntryDecision,
		fmt.Sprintf("%s %s", decision.Action, string(decision.Arguments)), false)
	return pursuit.Plan{ActionToken: decision}, nil
}

func (s *Strategist) act(ctx context.Context, plan pursuit.Plan) (pursuit.ActionResult, error) {
	decision, ok := plan.ActionToken.(Decision)
	if !ok {
		return pursuit.ActionResult{}, fmt.Errorf("plan does not carry a decision: %T", plan.ActionToken)
	}

	outcome := s.execute(ctx, decision)
	s.transcript.Append(EntryOutcome, s.renderOutcome(outcome), outcome.IsError())
	return pursuit.ActionResult{Payload: outcome}, nil
}

// execute dispatches a decision through the registry. Unknown actions
// and executor failures become error outcomes, not callback errors.
func (s *Strategist) execute(ctx context.Context, decision Decision) Outcome {
	registered := s.registry.Get(decision.Action)
	if registered == nil {
		return Outcome{
			Action: decision.Action,
			Err:    fmt.Sprintf("unknown action: %s", decision.Action),
		}
	}

	output, err := registered.Execute(ctx, decision.Arguments)
	if err != nil {
		return Outcome{
			Action: decision.Action,
			Err:    err.Error(),
		}
	}
	return Outcome{
		Action: decision.Action,
		Output: output,
	}
}

func (s *Strategist) observe(_ context.Context, result pursuit.ActionResult) (pursuit.Observation, error) {
	return pursuit.Observation{Payload: result.Payload}, nil
}

func (s *Strategist) reflect(ctx context.Context, obs pursuit.Observation, goal pursuit.Goal) (pursuit.Reflection, error) {
	reflection, err := s.reflector.Reflect(ctx, obs, goal, s.transcript)
	if err != nil {
		return pursuit.Reflection{}, err
	}
	if reflection.Learnings != nil {
		s.transcript.Append(EntryReflection, renderPayload(reflection.Learnings), false)
	}
	return reflection, nil
}

func (s *Strategist) buildPlanPrompt(goal pursuit.Goal, state interface{}) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Goal\n%s\n\n", goal.Description)

	sb.WriteString("# Available actions\n")
	for _, def := range s.registry.Definitions() {
		fmt.Fprintf(&sb, "- %s: %s\n", def.Name, def.Description)
	}

	if obs, ok := state.(pursuit.Observation); ok {
		fmt.Fprintf(&sb, "\n# Current state\n%s\n", renderPayload(obs.Payload))
	} else if state != nil {
		fmt.Fprintf(&sb, "\n# Current state\n%s\n", renderPayload(state))
	}

	fmt.Fprintf(&sb, "\n# History\n%s\n", s.transcript.Render(s.config.TranscriptWindow))
	sb.WriteString("\nDecide your next step.")
	return sb.String()
}

// renderOutcome formats an outcome for the transcript.
func (s *Strategist) renderOutcome(outcome Outcome) string {
	if outcome.IsError() {
		return fmt.Sprintf("%s -> error: %s", outcome.Action, outcome.Err)
	}
	return fmt.Sprintf("%s -> %s", outcome.Action, renderPayload(outcome.Output))
}

// ParseDecision extracts a Decision from model output. Code fences and
// surrounding prose are tolerated; anything without a parseable JSON
// object is a DecisionError.
func ParseDecision(text string) (Decision, error) {
	raw := extractJSON(text)
	if raw == nil {
		return Decision{}, &DecisionError{
			ClientError: ClientError{Message: "no JSON object in model output"},
			Output:      text,
		}
	}

	var decision Decision
	if err := json.Unmarshal(raw, &decision); err != nil {
		return Decision{}, &DecisionError{
			ClientError: ClientError{Message: "unparseable decision", Cause: err},
			Output:      text,
		}
	}
	if !decision.Exit && decision.Action == "" {
		return Decision{}, &DecisionError{
			ClientError: ClientError{Message: "decision names no action and does not exit"},
			Output:      text,
		}
	}
	return decision, nil
}

// extractJSON returns the first balanced JSON object in text, or nil.
// Fenced blocks are unwrapped first.
func extractJSON(text string) []byte {
	cleaned := strings.TrimSpace(text)
	if idx := strings.Index(cleaned, "```"); idx != -1 {
		cleaned = cleaned[idx+3:]
		cleaned = strings.TrimPrefix(cleaned, "json")
		if end := strings.Index(cleaned, "```"); end != -1 {
			cleaned = cleaned[:end]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	if start == -1 {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return []byte(cleaned[start : i+1])
				}
			}
		}
	}
	return nil
}
