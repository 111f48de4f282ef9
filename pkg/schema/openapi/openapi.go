// Package openapi derives step schemas from OpenAPI component schemas. The
// Case-Data API publishes the payload shape of each step; deriving field
// descriptors from that document keeps hand-authored schemas and the server
// contract from drifting for the simple steps that need no format bindings.
package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-caseflow/pkg/schema"
)

// Deriver parses an OpenAPI document once and turns named component schemas
// into step schemas on demand.
type Deriver struct {
	doc *openapi3.T
}

// NewDeriver loads an OpenAPI document from raw JSON or YAML bytes.
func NewDeriver(ctx context.Context, raw []byte) (*Deriver, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("schema/openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema/openapi: load document: %w", err)
	}
	return &Deriver{doc: doc}, nil
}

// Step derives a StepSchema from the named component schema. The component
// must be an object; its properties become field descriptors in name order
// with requiredness taken from the schema's required list.
func (d *Deriver) Step(stepID, component string) (schema.StepSchema, error) {
	if d == nil || d.doc == nil {
		return schema.StepSchema{}, fmt.Errorf("schema/openapi: deriver is not initialised")
	}
	if d.doc.Components == nil {
		return schema.StepSchema{}, fmt.Errorf("schema/openapi: document has no components")
	}

	ref, ok := d.doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return schema.StepSchema{}, fmt.Errorf("schema/openapi: component %q not found", component)
	}

	value := ref.Value
	if !value.Type.Is(openapi3.TypeObject) {
		return schema.StepSchema{}, fmt.Errorf("schema/openapi: component %q is not an object", component)
	}

	required := make(map[string]struct{}, len(value.Required))
	for _, name := range value.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(value.Properties))
	for name := range value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	step := schema.StepSchema{
		ID:    stepID,
		Title: strings.TrimSpace(value.Title),
	}
	for _, name := range names {
		prop := value.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		field, err := deriveField(name, prop.Value)
		if err != nil {
			return schema.StepSchema{}, fmt.Errorf("schema/openapi: component %q: %w", component, err)
		}
		if _, ok := required[name]; ok {
			field.Required = true
		}
		step.Fields = append(step.Fields, field)
	}

	return step, nil
}

func deriveField(name string, prop *openapi3.Schema) (schema.FieldDescriptor, error) {
	field := schema.FieldDescriptor{
		Path:  name,
		Label: labelFor(name, prop),
		Help:  strings.TrimSpace(prop.Description),
	}

	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		field.Kind = schema.KindSwitch
	case prop.Type.Is(openapi3.TypeString) && prop.Format == "date":
		field.Kind = schema.KindCalendar
	case prop.Type.Is(openapi3.TypeString) && prop.Format == "time":
		field.Kind = schema.KindTime
	case prop.Type.Is(openapi3.TypeString) && prop.Format == "binary":
		field.Kind = schema.KindFileUpload
	case prop.Type.Is(openapi3.TypeString) && len(prop.Enum) > 0,
		prop.Type.Is(openapi3.TypeInteger) && len(prop.Enum) > 0:
		field.Kind = schema.KindSelect
		for _, entry := range prop.Enum {
			raw := fmt.Sprint(entry)
			field.Options = append(field.Options, schema.Option{Value: raw, Label: raw})
		}
	case prop.Type.Is(openapi3.TypeString),
		prop.Type.Is(openapi3.TypeInteger),
		prop.Type.Is(openapi3.TypeNumber):
		field.Kind = schema.KindText
	default:
		return schema.FieldDescriptor{}, fmt.Errorf("property %q: unsupported type", name)
	}

	return field, nil
}

func labelFor(name string, prop *openapi3.Schema) string {
	if title := strings.TrimSpace(prop.Title); title != "" {
		return title
	}
	return humanise(name)
}

// humanise converts camelCase or snake_case property names into title-cased
// labels ("fullName" -> "Full Name").
func humanise(name string) string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			flush()
		case r >= 'A' && r <= 'Z':
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
