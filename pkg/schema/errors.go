package schema

import "fmt"

// UnknownStepError reports a lookup for a step id with no registered schema.
// It signals a programming-time fault: rendering for that step should abort.
type UnknownStepError struct {
	StepID string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("schema: unknown step %q", e.StepID)
}

// UnknownKindError reports a field descriptor carrying a kind no validator is
// registered for. Like UnknownStepError it is fatal, not a validation result.
type UnknownKindError struct {
	Path string
	Kind FieldKind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("schema: field %q has unknown kind %q", e.Path, e.Kind)
}
