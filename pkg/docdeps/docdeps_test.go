package docdeps

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

func ownersStep() schema.StepSchema {
	return schema.StepSchema{
		ID: "medallion.owners",
		Groups: []schema.RepeatGroup{{
			Name:       "beneficialOwners",
			MinRecords: 1,
			Documents: []schema.DocumentRequirement{
				{Type: "ssn", Field: "ssn", Message: "Social Security card must be uploaded"},
				{Type: "driving_license", Field: "drivingLicense", Message: "Driving license must be uploaded"},
			},
		}},
	}
}

func payeesStep() schema.StepSchema {
	return schema.StepSchema{
		ID: "medallion.payment",
		Groups: []schema.RepeatGroup{{
			Name: "payees",
			Documents: []schema.DocumentRequirement{
				{Type: "payee_proof", Field: "proofOfIdentity"},
				{Type: "authorization_letter", Field: "authorizationLetter", RequiredIf: "representedByAgent"},
			},
		}},
	}
}

func TestMissingIndexParameterized(t *testing.T) {
	resolver := NewResolver()

	values := stepdata.New()
	values.Set("beneficialOwners[0].fullName", "Ada")
	values.Set("beneficialOwners[1].fullName", "Grace")

	attached := map[string]bool{
		"ssn_1":             true,
		"driving_license_1": true,
		"ssn_2":             true,
	}

	missing, err := resolver.Missing(ownersStep(), values, attached)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}

	want := []Resolved{{
		Code:    "driving_license_2",
		Field:   "beneficialOwners[1].drivingLicense",
		Message: "Driving license must be uploaded",
	}}
	if diff := cmp.Diff(want, missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionalRequirement(t *testing.T) {
	resolver := NewResolver()

	values := stepdata.New()
	values.Set("payees[0].fullName", "Ada")
	values.Set("payees[0].representedByAgent", false)

	missing, err := resolver.Missing(payeesStep(), values, nil)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	for _, req := range missing {
		if req.Code == "authorization_letter_1" {
			t.Fatal("authorization letter should not be required while flag is off")
		}
	}

	values.Set("payees[0].representedByAgent", true)
	missing, err = resolver.Missing(payeesStep(), values, nil)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	found := false
	for _, req := range missing {
		if req.Code == "authorization_letter_1" {
			found = true
		}
	}
	if !found {
		t.Fatal("authorization letter should be required while flag is on")
	}
}

func TestOrphanedAfterRecordRemoval(t *testing.T) {
	resolver := NewResolver()

	// One record left; documents for a former second record remain attached.
	values := stepdata.New()
	values.Set("beneficialOwners[0].fullName", "Ada")

	attached := map[string]bool{
		"ssn_1":             true,
		"driving_license_1": true,
		"ssn_2":             true,
		"driving_license_2": true,
		"unrelated_doc":     true,
	}

	orphaned, err := resolver.Orphaned(ownersStep(), values, attached)
	if err != nil {
		t.Fatalf("Orphaned: %v", err)
	}

	got := map[string]bool{}
	for _, code := range orphaned {
		got[code] = true
	}
	if !got["ssn_2"] || !got["driving_license_2"] {
		t.Fatalf("expected former second record docs to be orphaned, got %v", orphaned)
	}
	if got["unrelated_doc"] {
		t.Fatal("codes outside the step's families must not be reported")
	}
	if got["ssn_1"] || got["driving_license_1"] {
		t.Fatal("in-force documents must not be reported")
	}
}

func TestOrphanedAfterFlagToggle(t *testing.T) {
	resolver := NewResolver()

	values := stepdata.New()
	values.Set("payees[0].fullName", "Ada")
	values.Set("payees[0].representedByAgent", false)

	attached := map[string]bool{
		"payee_proof_1":          true,
		"authorization_letter_1": true,
	}

	orphaned, err := resolver.Orphaned(payeesStep(), values, attached)
	if err != nil {
		t.Fatalf("Orphaned: %v", err)
	}
	if len(orphaned) != 1 || orphaned[0] != "authorization_letter_1" {
		t.Fatalf("orphaned = %v, want [authorization_letter_1]", orphaned)
	}
}

func TestRecordCode(t *testing.T) {
	if got := RecordCode("payee_proof", 2); got != "payee_proof_3" {
		t.Fatalf("RecordCode = %q, want payee_proof_3", got)
	}
}
