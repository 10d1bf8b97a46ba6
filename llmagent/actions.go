package llmagent

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// ActionFunc executes one named action with its JSON arguments and
// returns an arbitrary output value.
type ActionFunc func(ctx context.Context, arguments json.RawMessage) (interface{}, error)

// ActionDefinition describes an action for the planning prompt.
type ActionDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RegisteredAction pairs an action definition with its executor.
type RegisteredAction struct {
	Definition ActionDefinition
	Execute    ActionFunc
}

// ActionRegistry manages action registration and lookup. It is safe for
// concurrent use so one registry can back several strategists.
type ActionRegistry struct {
	actions map[string]*RegisteredAction
	mu      sync.RWMutex
}

// NewActionRegistry creates an empty ActionRegistry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		actions: make(map[string]*RegisteredAction),
	}
}

// Register adds or replaces an action in the registry.
func (r *ActionRegistry) Register(action RegisteredAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[action.Definition.Name] = &action
}

// Unregister removes an action from the registry.
func (r *ActionRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Get returns a registered action by name, or nil if not found.
func (r *ActionRegistry) Get(name string) *RegisteredAction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Definitions returns all action definitions in name order, for stable
// prompt rendering.
func (r *ActionRegistry) Definitions() []ActionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ActionDefinition, 0, len(r.actions))
	for _, action := range r.actions {
		defs = append(defs, action.Definition)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Count returns the number of registered actions.
func (r *ActionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
