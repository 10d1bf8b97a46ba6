package pursuit

import (
	"sync"
	"time"
)

// Phase names one step of the pursuit cycle.
type Phase string

const (
	PhasePlan    Phase = "plan"
	PhaseAct     Phase = "act"
	PhaseObserve Phase = "observe"
	PhaseReflect Phase = "reflect"
)

// EventKind identifies the type of pursuit event.
type EventKind string

const (
	EventPursuitStart   EventKind = "pursuit_start"
	EventPlan           EventKind = "plan"
	EventExitRequested  EventKind = "exit_requested"
	EventAction         EventKind = "action"
	EventObservation    EventKind = "observation"
	EventReflection     EventKind = "reflection"
	EventGoalAchieved   EventKind = "goal_achieved"
	EventIterationLimit EventKind = "iteration_limit"
	EventStallDetected  EventKind = "stall_detected"
	EventCriteriaError  EventKind = "criteria_error"
	EventCallbackError  EventKind = "callback_error"
	EventPursuitEnd     EventKind = "pursuit_end"
)

// Event is a typed observability event emitted during a pursuit. Events
// carry the pursuit ID so a single emitter can be shared across
// concurrent pursuits.
type Event struct {
	Kind      EventKind              `json:"kind"`
	Timestamp time.Time              `json:"timestamp"`
	PursuitID string                 `json:"pursuit_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventEmitter delivers typed events to the host application via a
// buffered channel. The emitter is owned by the caller; the runtime
// never closes it.
type EventEmitter struct {
	ch     chan Event
	closed bool
	mu     sync.Mutex
}

// NewEventEmitter creates an EventEmitter with a buffered channel.
func NewEventEmitter(bufferSize int) *EventEmitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &EventEmitter{
		ch: make(chan Event, bufferSize),
	}
}

// Emit sends an event to the channel. If the emitter is closed, or the
// channel is full, the event is silently dropped so a slow consumer
// never blocks a pursuit.
func (e *EventEmitter) Emit(pursuitID string, kind EventKind, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	event := Event{
		Kind:      kind,
		Timestamp: time.Now(),
		PursuitID: pursuitID,
		Data:      data,
	}
	select {
	case e.ch <- event:
	default:
	}
}

// Events returns the read-only event channel.
func (e *EventEmitter) Events() <-chan Event {
	return e.ch
}

// Close closes the event channel. Safe to call multiple times.
func (e *EventEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
