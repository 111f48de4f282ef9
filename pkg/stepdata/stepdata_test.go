package stepdata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		group string
		index int
		field string
		ok    bool
	}{
		{name: "group path", path: "owners[2].fullName", group: "owners", index: 2, field: "fullName", ok: true},
		{name: "nested field", path: "owners[0].address.zip", group: "owners", index: 0, field: "address.zip", ok: true},
		{name: "plain path", path: "fullName", ok: false},
		{name: "dotted plain path", path: "address.zip", ok: false},
		{name: "missing dot", path: "owners[2]fullName", ok: false},
		{name: "negative index", path: "owners[-1].x", ok: false},
		{name: "junk index", path: "owners[two].x", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			group, index, field, ok := SplitPath(tc.path)
			if ok != tc.ok {
				t.Fatalf("SplitPath(%q) ok = %v, want %v", tc.path, ok, tc.ok)
			}
			if !ok {
				return
			}
			if group != tc.group || index != tc.index || field != tc.field {
				t.Fatalf("SplitPath(%q) = (%q, %d, %q)", tc.path, group, index, field)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	values := New()
	values.Set("fullName", "Ada")
	values.Set("owners[1].fullName", "Grace")

	if got, _ := values.Get("fullName"); got != "Ada" {
		t.Fatalf("Get(fullName) = %v", got)
	}
	if got, _ := values.Get("owners[1].fullName"); got != "Grace" {
		t.Fatalf("Get(owners[1].fullName) = %v", got)
	}
	// Setting index 1 grows the slice through index 0.
	if values.RecordCount("owners") != 2 {
		t.Fatalf("RecordCount = %d, want 2", values.RecordCount("owners"))
	}
	if _, ok := values.Get("owners[5].fullName"); ok {
		t.Fatal("out of range record should not resolve")
	}
}

func TestCloneIsDeep(t *testing.T) {
	values := New()
	values.Set("a", "1")
	values.Set("owners[0].name", "Ada")

	clone := values.Clone()
	clone.Set("a", "2")
	clone.Set("owners[0].name", "Grace")

	if got, _ := values.Get("a"); got != "1" {
		t.Fatalf("clone mutated original field: %v", got)
	}
	if got, _ := values.Get("owners[0].name"); got != "Ada" {
		t.Fatalf("clone mutated original record: %v", got)
	}
}

func TestFlatten(t *testing.T) {
	values := New()
	values.Set("paymentMethod", "check")
	values.Set("payees[0].fullName", "Ada")
	values.Set("payees[1].fullName", "Grace")

	want := map[string]any{
		"paymentMethod":      "check",
		"payees[0].fullName": "Ada",
		"payees[1].fullName": "Grace",
	}
	if diff := cmp.Diff(want, values.Flatten()); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}
