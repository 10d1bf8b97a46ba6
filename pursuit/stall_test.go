package pursuit

import (
	"context"
	"fmt"
	"testing"
)

func TestDetectStallRepeatingPatterns(t *testing.T) {
	cases := []struct {
		name   string
		sigs   []string
		window int
		want   bool
	}{
		{"single action repeated", []string{"a", "a", "a", "a"}, 4, true},
		{"pair repeated", []string{"a", "b", "a", "b"}, 4, true},
		{"triple repeated", []string{"a", "b", "c", "a", "b", "c"}, 6, true},
		{"varied plans", []string{"a", "b", "c", "d"}, 4, false},
		{"too few signatures", []string{"a", "a"}, 4, false},
		{"window disabled", []string{"a", "a", "a", "a"}, 0, false},
		{"only recent window counts", []string{"x", "y", "a", "a", "a", "a"}, 4, true},
	}
	for _, tc := range cases {
		if got := detectStall(tc.sigs, tc.window); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestPlanSignatureStability(t *testing.T) {
	a := planSignature(map[string]interface{}{"action": "probe", "port": 443})
	b := planSignature(map[string]interface{}{"action": "probe", "port": 443})
	c := planSignature(map[string]interface{}{"action": "probe", "port": 80})

	if a != b {
		t.Error("identical tokens must produce identical signatures")
	}
	if a == c {
		t.Error("different tokens must produce different signatures")
	}
}

func TestPlanSignatureUnencodableToken(t *testing.T) {
	// Channels have no JSON encoding; the signature falls back to the
	// formatted value rather than failing.
	sig := planSignature(make(chan int))
	if sig == "" {
		t.Error("expected a fallback signature")
	}
}

func TestPursueAbortsOnStall(t *testing.T) {
	runner := NewRunner(&RunnerConfig{StallWindow: 4, AbortOnStall: true})
	goal := Goal{MaxIterations: 20, SuccessCriteria: neverSucceeds}

	cbs := staticCallbacks() // plan always returns the same token

	result, err := runner.Pursue(context.Background(), goal, nil, cbs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("expected failure")
	}
	if result.Reason != ReasonStallDetected {
		t.Errorf("expected %q, got %q", ReasonStallDetected, result.Reason)
	}
	if result.Iterations != 4 {
		t.Errorf("expected abort at the window boundary, got %d iterations", result.Iterations)
	}
}

func TestPursueStallReportWithoutAbort(t *testing.T) {
	emitter := NewEventEmitter(128)
	runner := NewRunner(&RunnerConfig{StallWindow: 3, Emitter: emitter})
	goal := Goal{MaxIterations: 5, SuccessCriteria: neverSucceeds}

	result, err := runner.Pursue(context.Background(), goal, nil, staticCallbacks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reason != ReasonMaxIterations {
		t.Errorf("report-only stalls must not terminate, got %q", result.Reason)
	}

	stalls := 0
	for _, event := range collectEvents(emitter) {
		if event.Kind == EventStallDetected {
			stalls++
		}
	}
	// Iterations 3, 4, and 5 each fill the window with the same plan.
	if stalls != 3 {
		t.Errorf("expected 3 stall events, got %d", stalls)
	}
}

func TestPursueVariedPlansNeverStall(t *testing.T) {
	runner := NewRunner(&RunnerConfig{StallWindow: 4, AbortOnStall: true})
	goal := Goal{MaxIterations: 12, SuccessCriteria: neverSucceeds}

	step := 0
	cbs := staticCallbacks()
	cbs.Plan = func(ctx context.Context, goal Goal, state interface{}) (Plan, error) {
		step++
		return Plan{ActionToken: fmt.Sprintf("step-%d", step)}, nil
	}

	result, err := runner.Pursue(context.Background(), goal, nil, cbs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reason != ReasonMaxIterations {
		t.Errorf("varied plans must exhaust normally, got %q", result.Reason)
	}
}
