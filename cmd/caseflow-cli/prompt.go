package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-caseflow/pkg/caseflow"
	"github.com/goliatone/go-caseflow/pkg/format"
	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
	"github.com/goliatone/go-caseflow/pkg/validate"
)

var errAborted = errors.New("aborted")

// stepFiller walks a step schema and prompts for every field, writing the
// answers into the controller's editable state.
type stepFiller struct {
	ctrl  *caseflow.Controller
	rules *validate.Registry
}

func (f *stepFiller) fill(step schema.StepSchema) error {
	for _, field := range step.Fields {
		if err := f.promptField(field, field.Path, f.currentValue(field.Path)); err != nil {
			return err
		}
	}
	for _, group := range step.Groups {
		if err := f.fillGroup(group); err != nil {
			return err
		}
	}
	return nil
}

func (f *stepFiller) fillGroup(group schema.RepeatGroup) error {
	label := group.Label
	if label == "" {
		label = group.Name
	}

	count := f.ctrl.Values().RecordCount(group.Name)
	for count < group.MinRecords {
		if _, err := f.ctrl.AddRecord(group.Name); err != nil {
			return err
		}
		count++
	}

	for i := 0; i < count; i++ {
		if err := f.fillRecord(group, i); err != nil {
			return err
		}
	}

	for {
		more := false
		prompt := &survey.Confirm{Message: fmt.Sprintf("Add another %s record?", label)}
		if err := ask(prompt, &more); err != nil {
			return err
		}
		if !more {
			return nil
		}
		index, err := f.ctrl.AddRecord(group.Name)
		if err != nil {
			return err
		}
		if err := f.fillRecord(group, index); err != nil {
			return err
		}
	}
}

func (f *stepFiller) fillRecord(group schema.RepeatGroup, index int) error {
	for _, field := range group.Fields {
		path := stepdata.GroupPath(group.Name, index, field.Path)
		if err := f.promptField(field, path, f.currentValue(path)); err != nil {
			return err
		}
	}
	return nil
}

func (f *stepFiller) currentValue(path string) string {
	value, ok := f.ctrl.Values().Get(path)
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

func (f *stepFiller) promptField(field schema.FieldDescriptor, path, current string) error {
	switch field.Kind {
	case schema.KindFileUpload, schema.KindFileView:
		// Documents are collected after the field walk.
		return nil
	case schema.KindCheckbox, schema.KindSwitch:
		on := current == "true"
		prompt := &survey.Confirm{Message: labelFor(field), Help: field.Help, Default: on}
		if err := ask(prompt, &on); err != nil {
			return err
		}
		return f.ctrl.SetValue(path, on)
	case schema.KindSelect, schema.KindRadio:
		return f.promptSelect(field, path, current)
	case schema.KindSSN, schema.KindSSNMasked:
		return f.promptSecret(field, path, format.FormatSSN)
	case schema.KindEINMasked:
		return f.promptSecret(field, path, format.FormatEIN)
	default:
		return f.promptText(field, path, current)
	}
}

func (f *stepFiller) promptText(field schema.FieldDescriptor, path, current string) error {
	var out string
	prompt := &survey.Input{Message: labelFor(field), Help: field.Help, Default: current}
	if err := ask(prompt, &out, survey.WithValidator(f.fieldValidator(field))); err != nil {
		return err
	}
	return f.ctrl.SetValue(path, out)
}

func (f *stepFiller) promptSecret(field schema.FieldDescriptor, path string, normalise func(string) string) error {
	var out string
	prompt := &survey.Password{Message: labelFor(field), Help: field.Help}
	if err := ask(prompt, &out, survey.WithValidator(f.fieldValidator(field))); err != nil {
		return err
	}
	return f.ctrl.SetValue(path, normalise(out))
}

func (f *stepFiller) promptSelect(field schema.FieldDescriptor, path, current string) error {
	labels := make([]string, len(field.Options))
	defaultLabel := ""
	for i, option := range field.Options {
		labels[i] = option.Label
		if option.Value == current {
			defaultLabel = option.Label
		}
	}

	var picked string
	prompt := &survey.Select{Message: labelFor(field), Options: labels, Help: field.Help}
	if defaultLabel != "" {
		prompt.Default = defaultLabel
	}
	if err := ask(prompt, &picked); err != nil {
		return err
	}
	for _, option := range field.Options {
		if option.Label == picked {
			return f.ctrl.SetValue(path, option.Value)
		}
	}
	return f.ctrl.SetValue(path, picked)
}

// fieldValidator bridges the format rule registry into a survey validator.
// Conditional requiredness and cross-field rules stay with the submit pass;
// the prompt only rejects malformed values early.
func (f *stepFiller) fieldValidator(field schema.FieldDescriptor) survey.Validator {
	rule, ok := f.rules.Resolve(field)
	return func(answer interface{}) error {
		value, _ := answer.(string)
		if value == "" {
			if field.Required {
				return fmt.Errorf("%s is required", labelFor(field))
			}
			return nil
		}
		if !ok {
			return nil
		}
		if result := rule(value); !result.Valid {
			return errors.New(result.Message)
		}
		return nil
	}
}

// collectDocuments prompts a file path for every missing document and
// uploads it.
func (f *stepFiller) collectDocuments(missing []string, upload func(code string, file *os.File) error) error {
	for _, code := range missing {
		var path string
		prompt := &survey.Input{Message: fmt.Sprintf("Path to %s document (empty to skip)", code)}
		if err := ask(prompt, &path); err != nil {
			return err
		}
		if path == "" {
			continue
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		err = upload(code, file)
		file.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func labelFor(field schema.FieldDescriptor) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Path
}

func promptRetry() survey.Prompt {
	return &survey.Confirm{Message: "Edit the step again?", Default: true}
}

func ask(prompt survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	if err := survey.AskOne(prompt, response, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return errAborted
		}
		return err
	}
	return nil
}
