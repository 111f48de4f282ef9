package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// documentFile is the on-disk shape of a schema document. A document may
// define shared option sets referenced by name from any field, mirroring how
// a state-code select is reused across every address block.
type documentFile struct {
	OptionSets map[string][]Option `json:"optionSets" yaml:"optionSets"`
	Steps      map[string]stepFile `json:"steps" yaml:"steps"`
}

type stepFile struct {
	Title     string                `json:"title" yaml:"title"`
	Fields    []fieldFile           `json:"fields" yaml:"fields"`
	Groups    []groupFile           `json:"groups" yaml:"groups"`
	Documents []DocumentRequirement `json:"documents" yaml:"documents"`
}

type fieldFile struct {
	FieldDescriptor `yaml:",inline"`

	// OptionSet references a named entry in the document's optionSets block.
	// Mutually exclusive with inline options.
	OptionSet string `json:"optionSet" yaml:"optionSet"`
}

type groupFile struct {
	Name       string                `json:"name" yaml:"name"`
	Label      string                `json:"label" yaml:"label"`
	MinRecords int                   `json:"min" yaml:"min"`
	Fields     []fieldFile           `json:"fields" yaml:"fields"`
	Documents  []DocumentRequirement `json:"documents" yaml:"documents"`
	Rules      []GroupRule           `json:"rules" yaml:"rules"`
}

// LoadFS walks the filesystem, parses every JSON/YAML schema document, and
// registers the steps it finds into a fresh registry. Duplicate step ids
// across documents are load errors.
func LoadFS(fsys fs.FS) (*Registry, error) {
	registry := NewRegistry()
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for stepID, raw := range doc.Steps {
			id := strings.TrimSpace(stepID)
			if id == "" {
				return fmt.Errorf("schema: file %s defines an empty step id", path)
			}
			step, err := normaliseStep(raw, id, path, doc.OptionSets)
			if err != nil {
				return err
			}
			if err := registry.Register(step); err != nil {
				return fmt.Errorf("schema: file %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registry, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parseDocument(data []byte, path string) (documentFile, error) {
	var doc documentFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("schema: parse %s: %w", path, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	return doc, nil
}

func normaliseStep(raw stepFile, id, path string, optionSets map[string][]Option) (StepSchema, error) {
	step := StepSchema{
		ID:        id,
		Title:     sanitizeLabelMarkup(raw.Title),
		Documents: normaliseDocuments(raw.Documents),
	}

	fields, err := normaliseFields(raw.Fields, id, path, optionSets)
	if err != nil {
		return StepSchema{}, err
	}
	step.Fields = fields

	seenGroups := make(map[string]struct{}, len(raw.Groups))
	for _, group := range raw.Groups {
		name := strings.TrimSpace(group.Name)
		if name == "" {
			return StepSchema{}, fmt.Errorf("schema: step %q (file %s) defines a group without a name", id, path)
		}
		if _, exists := seenGroups[name]; exists {
			return StepSchema{}, fmt.Errorf("schema: step %q (file %s) defines group %q twice", id, path, name)
		}
		seenGroups[name] = struct{}{}

		groupFields, err := normaliseFields(group.Fields, id, path, optionSets)
		if err != nil {
			return StepSchema{}, err
		}
		rules, err := normaliseRules(group.Rules, id, name, path)
		if err != nil {
			return StepSchema{}, err
		}

		step.Groups = append(step.Groups, RepeatGroup{
			Name:       name,
			Label:      sanitizeLabelMarkup(group.Label),
			MinRecords: group.MinRecords,
			Fields:     groupFields,
			Documents:  normaliseDocuments(group.Documents),
			Rules:      rules,
		})
	}

	return step, nil
}

func normaliseFields(raw []fieldFile, stepID, path string, optionSets map[string][]Option) ([]FieldDescriptor, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	fields := make([]FieldDescriptor, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		field := entry.FieldDescriptor
		field.Path = strings.TrimSpace(field.Path)
		if field.Path == "" {
			return nil, fmt.Errorf("schema: step %q (file %s) defines a field without a path", stepID, path)
		}
		if _, exists := seen[field.Path]; exists {
			return nil, fmt.Errorf("schema: step %q (file %s) defines field %q twice", stepID, path, field.Path)
		}
		seen[field.Path] = struct{}{}

		if !KnownKind(field.Kind) {
			return nil, fmt.Errorf("schema: step %q (file %s) field %q: unknown kind %q", stepID, path, field.Path, field.Kind)
		}
		if field.Format != "" && !knownFormat(field.Format) {
			return nil, fmt.Errorf("schema: step %q (file %s) field %q: unknown format %q", stepID, path, field.Path, field.Format)
		}

		if entry.OptionSet != "" {
			if len(field.Options) > 0 {
				return nil, fmt.Errorf("schema: step %q (file %s) field %q: optionSet and options are mutually exclusive", stepID, path, field.Path)
			}
			set, ok := optionSets[entry.OptionSet]
			if !ok {
				return nil, fmt.Errorf("schema: step %q (file %s) field %q: unknown option set %q", stepID, path, field.Path, entry.OptionSet)
			}
			field.Options = set
		}

		field.Label = sanitizeLabelMarkup(field.Label)
		field.Help = sanitizeLabelMarkup(field.Help)
		fields = append(fields, field)
	}
	return fields, nil
}

func normaliseDocuments(raw []DocumentRequirement) []DocumentRequirement {
	if len(raw) == 0 {
		return nil
	}
	out := make([]DocumentRequirement, 0, len(raw))
	for _, doc := range raw {
		doc.Type = strings.TrimSpace(doc.Type)
		doc.Field = strings.TrimSpace(doc.Field)
		doc.Message = sanitizeLabelMarkup(doc.Message)
		if doc.Type == "" {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func normaliseRules(raw []GroupRule, stepID, group, path string) ([]GroupRule, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]GroupRule, 0, len(raw))
	for _, rule := range raw {
		switch rule.Kind {
		case RuleCount, RuleSum:
		default:
			return nil, fmt.Errorf("schema: step %q (file %s) group %q: unknown rule kind %q", stepID, path, group, rule.Kind)
		}
		if strings.TrimSpace(rule.Field) == "" {
			return nil, fmt.Errorf("schema: step %q (file %s) group %q: rule %q requires a field", stepID, path, group, rule.Kind)
		}
		rule.Message = sanitizeLabelMarkup(rule.Message)
		out = append(out, rule)
	}
	return out, nil
}

func knownFormat(format string) bool {
	switch format {
	case FormatSSN, FormatEIN, FormatPhone, FormatZIP, FormatRouting, FormatAccount:
		return true
	default:
		return false
	}
}
