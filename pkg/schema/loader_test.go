package schema

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms.yaml": {Data: []byte(`
optionSets:
  yes-no:
    - { value: "yes", label: "Yes" }
    - { value: "no", label: "No" }
steps:
  demo.basic:
    title: Basic
    fields:
      - path: fullName
        label: Full Name
        kind: text
        required: true
      - path: confirmed
        label: Confirmed
        kind: radio
        optionSet: yes-no
    documents:
      - type: proof
        field: fullName
`)},
	}

	registry, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	step, err := registry.Step("demo.basic")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}

	want := StepSchema{
		ID:    "demo.basic",
		Title: "Basic",
		Fields: []FieldDescriptor{
			{Path: "fullName", Label: "Full Name", Kind: KindText, Required: true},
			{Path: "confirmed", Label: "Confirmed", Kind: KindRadio, Options: []Option{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
			}},
		},
		Documents: []DocumentRequirement{
			{Type: "proof", Field: "fullName"},
		},
	}
	if diff := cmp.Diff(want, step); diff != "" {
		t.Fatalf("step mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSRejectsUnknownKind(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte(`
steps:
  demo.bad:
    fields:
      - path: x
        kind: carousel
`)},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatal("expected unknown kind to fail loading")
	}
}

func TestLoadFSRejectsDuplicateStep(t *testing.T) {
	doc := []byte(`
steps:
  demo.dup:
    fields:
      - path: x
        kind: text
`)
	fsys := fstest.MapFS{
		"one.yaml": {Data: doc},
		"two.yaml": {Data: doc},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatal("expected duplicate step id to fail loading")
	}
}

func TestLoadFSRejectsUnknownOptionSet(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte(`
steps:
  demo.bad:
    fields:
      - path: x
        kind: select
        optionSet: nope
`)},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatal("expected unknown option set to fail loading")
	}
}

func TestLoadFSSanitizesLabels(t *testing.T) {
	fsys := fstest.MapFS{
		"forms.yaml": {Data: []byte(`
steps:
  demo.clean:
    fields:
      - path: x
        label: '<script>alert(1)</script><b>Name</b>'
        kind: text
`)},
	}
	registry, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	step, err := registry.Step("demo.clean")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := step.Fields[0].Label; got != "<b>Name</b>" {
		t.Fatalf("label not sanitized, got %q", got)
	}
}

func TestRegistryUnknownStep(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Step("nope")

	var unknown *UnknownStepError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownStepError, got %v", err)
	}
	if unknown.StepID != "nope" {
		t.Fatalf("unexpected step id %q", unknown.StepID)
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry := Default()

	wantSteps := []string{
		"corporation.details",
		"corporation.officers",
		"driver.license",
		"driver.personal",
		"medallion.corporation",
		"medallion.owners",
		"medallion.payment",
		"owner.individual",
		"vehicle.details",
		"vehicle.insurance",
	}
	if diff := cmp.Diff(wantSteps, registry.Steps()); diff != "" {
		t.Fatalf("embedded steps mismatch (-want +got):\n%s", diff)
	}

	step, err := registry.Step("medallion.payment")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	group, ok := step.Group("payees")
	if !ok {
		t.Fatal("payees group missing")
	}
	if group.MinRecords != 1 {
		t.Fatalf("payees min records = %d, want 1", group.MinRecords)
	}
	if len(group.Rules) != 1 || group.Rules[0].Kind != RuleSum {
		t.Fatalf("expected a single sum rule, got %+v", group.Rules)
	}

	routing, ok := step.Field("bankRoutingNumber")
	if !ok {
		t.Fatal("bankRoutingNumber field missing")
	}
	if routing.RequiredIf == "" {
		t.Fatal("bankRoutingNumber should be conditionally required")
	}
}
