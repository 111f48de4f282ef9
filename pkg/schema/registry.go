package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the step schemas for every case type. Lookup is pure; the
// only mutation is registration, which normally happens once at start-up from
// the embedded YAML documents.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]StepSchema
}

// NewRegistry returns an empty registry. Use Default() for one pre-loaded
// with the built-in onboarding schemas.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]StepSchema)}
}

// Register adds a step schema. Registering a duplicate id is an error so a
// misconfigured schema document fails loudly at load time.
func (r *Registry) Register(step StepSchema) error {
	if step.ID == "" {
		return fmt.Errorf("schema: step id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[step.ID]; exists {
		return fmt.Errorf("schema: duplicate step %q", step.ID)
	}
	r.steps[step.ID] = step
	return nil
}

// MustRegister registers the schema and panics on failure. Intended for
// build-time schema definitions where a failure is a programming error.
func (r *Registry) MustRegister(step StepSchema) {
	if err := r.Register(step); err != nil {
		panic(err)
	}
}

// Step returns the schema registered for the step id, or *UnknownStepError.
func (r *Registry) Step(stepID string) (StepSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.steps[stepID]
	if !ok {
		return StepSchema{}, &UnknownStepError{StepID: stepID}
	}
	return step, nil
}

// Steps returns the registered step ids in sorted order.
func (r *Registry) Steps() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.steps))
	for id := range r.steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the registry holds any schemas.
func (r *Registry) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps) == 0
}
