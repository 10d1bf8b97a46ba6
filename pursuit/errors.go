package pursuit

import "fmt"

// RuntimeError is the base error type for pursuit runtime errors.
type RuntimeError struct {
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// InvalidGoalError reports a malformed goal. It is returned before any
// iteration starts.
type InvalidGoalError struct{ RuntimeError }

// InvalidCallbackError reports a missing phase callback. It is returned
// before any iteration starts.
type InvalidCallbackError struct {
	RuntimeError
	Phase Phase
}

// CallbackError reports that a phase callback returned an error mid-pursuit.
// It accompanies a best-effort Result carrying the partial trace.
type CallbackError struct {
	RuntimeError
	Phase Phase
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback failure in phase %s: %v", e.Phase, e.Cause)
}

func newInvalidGoal(format string, args ...interface{}) *InvalidGoalError {
	return &InvalidGoalError{RuntimeError: RuntimeError{
		Message: fmt.Sprintf(format, args...),
	}}
}

func newInvalidCallback(phase Phase) *InvalidCallbackError {
	return &InvalidCallbackError{
		RuntimeError: RuntimeError{Message: fmt.Sprintf("missing %s callback", phase)},
		Phase:        phase,
	}
}

func newCallbackError(phase Phase, cause error) *CallbackError {
	return &CallbackError{
		RuntimeError: RuntimeError{Message: "callback failure", Cause: cause},
		Phase:        phase,
	}
}
