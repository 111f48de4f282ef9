package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-caseflow/pkg/docdeps"
	"github.com/goliatone/go-caseflow/pkg/format"
	"github.com/goliatone/go-caseflow/pkg/predicate"
	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

// Engine runs a full validation pass over one step. Per field the stages run
// in strict precedence — required, format, cross-field confirm, document
// presence — and the first failing stage claims the field's error slot, so a
// malformed value never also reports "required". Aggregate group rules run
// once per repeat group and land in the array-level slot.
type Engine struct {
	registry *Registry
	eval     *predicate.Evaluator
}

// Option customises an Engine.
type Option func(*Engine)

// WithRegistry injects a custom format rule registry.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithEvaluator injects a custom predicate evaluator for requiredIf rules.
func WithEvaluator(eval *predicate.Evaluator) Option {
	return func(e *Engine) {
		if eval != nil {
			e.eval = eval
		}
	}
}

// WithBankConfig rebuilds the built-in registry with the supplied bank
// validation thresholds. Use either this or WithRegistry, not both.
func WithBankConfig(cfg format.BankConfig) Option {
	return func(e *Engine) {
		e.registry = NewRegistry(cfg)
	}
}

// New constructs an Engine with the built-in rules and default thresholds.
func New(options ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(format.NewBankConfig()),
		eval:     predicate.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Validate recomputes the error map from scratch. The missing slice comes
// from the document dependency resolver; its entries surface in the owning
// field's error slot. The returned error is reserved for schema faults
// (unknown field kinds, broken predicate rules) — validation failures are
// data, not errors.
func (e *Engine) Validate(step schema.StepSchema, values stepdata.Values, missing []docdeps.Resolved) (ErrorMap, error) {
	errs := newErrorMap()
	flat := values.Flatten()

	for _, field := range step.Fields {
		if err := e.validateField(errs, step, field, field.Path, flat, nil); err != nil {
			return ErrorMap{}, err
		}
	}

	for _, group := range step.Groups {
		records := values.Groups[group.Name]
		for i, record := range records {
			for _, field := range group.Fields {
				abs := stepdata.GroupPath(group.Name, i, field.Path)
				if err := e.validateField(errs, step, field, abs, flat, record); err != nil {
					return ErrorMap{}, err
				}
			}
		}
		e.applyGroupRules(&errs, group, records)
	}

	for _, req := range missing {
		errs.setField(req.Field, req.Message)
	}

	if len(errs.Fields) == 0 {
		errs.Fields = nil
	}
	return errs, nil
}

func (e *Engine) validateField(errs ErrorMap, step schema.StepSchema, field schema.FieldDescriptor, path string, flat, record map[string]any) error {
	if !schema.KnownKind(field.Kind) {
		return &schema.UnknownKindError{Path: field.Path, Kind: field.Kind}
	}
	// Uploaded files are tracked by the document resolver, not as values.
	if field.Kind == schema.KindFileUpload || field.Kind == schema.KindFileView {
		return nil
	}

	value := flat[path]
	empty := isEmpty(field, value)

	required, err := e.isRequired(field, flat, record)
	if err != nil {
		return fmt.Errorf("validate: step %q field %q: %w", step.ID, field.Path, err)
	}
	if required && empty {
		errs.setField(path, fmt.Sprintf("%s is required", labelOf(field)))
		return nil
	}
	if empty {
		return nil
	}

	if rule, ok := e.registry.Resolve(field); ok {
		if result := rule(valueString(value)); !result.Valid {
			errs.setField(path, result.Message)
			return nil
		}
	}

	if field.Confirms != "" {
		target, targetLabel := confirmTarget(step, field, flat, record)
		if valueString(value) != valueString(target) {
			errs.setField(path, fmt.Sprintf("%s must match %s", labelOf(field), targetLabel))
		}
	}
	return nil
}

func (e *Engine) isRequired(field schema.FieldDescriptor, flat, record map[string]any) (bool, error) {
	if field.Required {
		return true, nil
	}
	rule := strings.TrimSpace(field.RequiredIf)
	if rule == "" {
		return false, nil
	}
	return e.eval.Eval(rule, predicate.Context{Values: overlay(flat, record)})
}

func (e *Engine) applyGroupRules(errs *ErrorMap, group schema.RepeatGroup, records []map[string]any) {
	for _, rule := range group.Rules {
		switch rule.Kind {
		case schema.RuleCount:
			count := 0
			for _, record := range records {
				if truthy(record[rule.Field]) {
					count++
				}
			}
			if count < rule.Min || (rule.Max > 0 && count > rule.Max) {
				errs.Groups = append(errs.Groups, rule.Message)
			}
		case schema.RuleSum:
			var sum float64
			for _, record := range records {
				sum += numeric(record[rule.Field])
			}
			// Round before comparing so float accumulation cannot fail an
			// allocation that genuinely totals 100.
			if math.Round(sum*100)/100 != rule.Total {
				errs.Groups = append(errs.Groups, rule.Message)
			}
		}
	}
}

// confirmTarget resolves the value a confirm field must equal, preferring a
// sibling inside the same record.
func confirmTarget(step schema.StepSchema, field schema.FieldDescriptor, flat, record map[string]any) (any, string) {
	label := field.Confirms
	if target, ok := step.Field(field.Confirms); ok {
		label = labelOf(target)
	}
	if record != nil {
		if value, ok := record[field.Confirms]; ok {
			return value, label
		}
	}
	return flat[field.Confirms], label
}

func overlay(flat, record map[string]any) map[string]any {
	if record == nil {
		return flat
	}
	merged := make(map[string]any, len(flat)+len(record))
	for key, value := range flat {
		merged[key] = value
	}
	for key, value := range record {
		merged[key] = value
	}
	return merged
}

func labelOf(field schema.FieldDescriptor) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Path
}

// isEmpty treats toggles specially: a required checkbox or switch must be
// switched on, not merely present.
func isEmpty(field schema.FieldDescriptor, value any) bool {
	switch field.Kind {
	case schema.KindCheckbox, schema.KindSwitch:
		return !truthy(value)
	}
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

func numeric(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
