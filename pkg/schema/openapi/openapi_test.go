package openapi

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/schema"
)

const sampleDoc = `
openapi: 3.0.3
info:
  title: Case Data API
  version: "1.0"
paths: {}
components:
  schemas:
    GaragePayload:
      type: object
      title: Garage Information
      required: [garageName, capacity]
      properties:
        garageName:
          type: string
        capacity:
          type: integer
        isOvernight:
          type: boolean
        openFrom:
          type: string
          format: time
        boroughCode:
          type: string
          enum: [BK, BX, MN, QN, SI]
`

func TestDeriveStep(t *testing.T) {
	deriver, err := NewDeriver(context.Background(), []byte(sampleDoc))
	if err != nil {
		t.Fatalf("NewDeriver: %v", err)
	}

	step, err := deriver.Step("garage.details", "GaragePayload")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}

	want := schema.StepSchema{
		ID:    "garage.details",
		Title: "Garage Information",
		Fields: []schema.FieldDescriptor{
			{Path: "boroughCode", Label: "Borough Code", Kind: schema.KindSelect, Options: []schema.Option{
				{Value: "BK", Label: "BK"},
				{Value: "BX", Label: "BX"},
				{Value: "MN", Label: "MN"},
				{Value: "QN", Label: "QN"},
				{Value: "SI", Label: "SI"},
			}},
			{Path: "capacity", Label: "Capacity", Kind: schema.KindText, Required: true},
			{Path: "garageName", Label: "Garage Name", Kind: schema.KindText, Required: true},
			{Path: "isOvernight", Label: "Is Overnight", Kind: schema.KindSwitch},
			{Path: "openFrom", Label: "Open From", Kind: schema.KindTime},
		},
	}
	if diff := cmp.Diff(want, step); diff != "" {
		t.Fatalf("step mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveStepUnknownComponent(t *testing.T) {
	deriver, err := NewDeriver(context.Background(), []byte(sampleDoc))
	if err != nil {
		t.Fatalf("NewDeriver: %v", err)
	}
	if _, err := deriver.Step("nope", "Missing"); err == nil {
		t.Fatal("expected unknown component to fail")
	}
}
