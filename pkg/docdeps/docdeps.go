// Package docdeps resolves the document requirements of a step against the
// set of documents currently attached to the owning object. Requirements come
// from the step schema: fixed per step, or per-record inside a repeat group
// where the effective document type code carries the record's 1-based
// position (driving_license_2, payee_proof_3).
//
// The resolver is a pure query. Deleting documents orphaned by a removed
// record or a toggled-off conditional flag is the orchestrator's job; the
// resolver only reports which codes those are.
package docdeps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-caseflow/pkg/predicate"
	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

// Resolved is one concrete document requirement: the effective type code,
// the field whose error slot a missing document surfaces in, and the message
// to show there.
type Resolved struct {
	Code    string
	Field   string
	Message string
}

// Resolver evaluates conditional document requirements with a predicate
// evaluator. The zero value is not usable; construct with NewResolver.
type Resolver struct {
	eval *predicate.Evaluator
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithEvaluator injects a custom predicate evaluator.
func WithEvaluator(eval *predicate.Evaluator) Option {
	return func(r *Resolver) {
		if eval != nil {
			r.eval = eval
		}
	}
}

// NewResolver constructs a Resolver.
func NewResolver(options ...Option) *Resolver {
	r := &Resolver{eval: predicate.New()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Required returns every document requirement currently in force for the
// step, expanding per-record requirements across the group's records and
// dropping requirements whose predicate does not hold.
func (r *Resolver) Required(step schema.StepSchema, values stepdata.Values) ([]Resolved, error) {
	flat := values.Flatten()

	var out []Resolved
	for _, doc := range step.Documents {
		holds, err := r.holds(doc.RequiredIf, flat, nil)
		if err != nil {
			return nil, fmt.Errorf("docdeps: step %q document %q: %w", step.ID, doc.Type, err)
		}
		if !holds {
			continue
		}
		out = append(out, Resolved{
			Code:    doc.Type,
			Field:   doc.Field,
			Message: messageFor(doc),
		})
	}

	for _, group := range step.Groups {
		records := values.Groups[group.Name]
		for i, record := range records {
			for _, doc := range group.Documents {
				holds, err := r.holds(doc.RequiredIf, flat, record)
				if err != nil {
					return nil, fmt.Errorf("docdeps: step %q group %q document %q: %w", step.ID, group.Name, doc.Type, err)
				}
				if !holds {
					continue
				}
				out = append(out, Resolved{
					Code:    RecordCode(doc.Type, i),
					Field:   stepdata.GroupPath(group.Name, i, doc.Field),
					Message: messageFor(doc),
				})
			}
		}
	}

	return out, nil
}

// Missing returns the requirements in force whose document type code has no
// attached document.
func (r *Resolver) Missing(step schema.StepSchema, values stepdata.Values, attached map[string]bool) ([]Resolved, error) {
	required, err := r.Required(step, values)
	if err != nil {
		return nil, err
	}

	var out []Resolved
	for _, req := range required {
		if !attached[req.Code] {
			out = append(out, req)
		}
	}
	return out, nil
}

// Orphaned returns attached document type codes that belong to this step's
// document families but are no longer required — the record was removed, or
// the conditional flag that demanded the document was toggled off. The caller
// issues the deletes.
func (r *Resolver) Orphaned(step schema.StepSchema, values stepdata.Values, attached map[string]bool) ([]string, error) {
	required, err := r.Required(step, values)
	if err != nil {
		return nil, err
	}
	inForce := make(map[string]struct{}, len(required))
	for _, req := range required {
		inForce[req.Code] = struct{}{}
	}

	var out []string
	for code, present := range attached {
		if !present {
			continue
		}
		if _, ok := inForce[code]; ok {
			continue
		}
		if belongsToStep(step, code) {
			out = append(out, code)
		}
	}
	return out, nil
}

func (r *Resolver) holds(rule string, flat map[string]any, record map[string]any) (bool, error) {
	if strings.TrimSpace(rule) == "" {
		return true, nil
	}
	values := flat
	if record != nil {
		// Record-relative keys shadow absolute ones inside group rules.
		values = make(map[string]any, len(flat)+len(record))
		for key, value := range flat {
			values[key] = value
		}
		for key, value := range record {
			values[key] = value
		}
	}
	return r.eval.Eval(rule, predicate.Context{Values: values})
}

func messageFor(doc schema.DocumentRequirement) string {
	if doc.Message != "" {
		return doc.Message
	}
	return "Required document is missing"
}

// RecordCode builds the index-parameterized document type code for the
// record at the given 0-based index.
func RecordCode(docType string, index int) string {
	return fmt.Sprintf("%s_%d", docType, index+1)
}

func belongsToStep(step schema.StepSchema, code string) bool {
	for _, doc := range step.Documents {
		if doc.Type == code {
			return true
		}
	}
	for _, group := range step.Groups {
		for _, doc := range group.Documents {
			if isRecordCode(doc.Type, code) {
				return true
			}
		}
	}
	return false
}

func isRecordCode(docType, code string) bool {
	if !strings.HasPrefix(code, docType+"_") {
		return false
	}
	n, err := strconv.Atoi(code[len(docType)+1:])
	return err == nil && n >= 1
}
