package caseflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

func TestReconcile(t *testing.T) {
	t.Parallel()

	base := func() stepdata.Values {
		local := stepdata.New()
		local.Set("businessName", "Acme Cab Corp")
		local.Set("phone", "718-555-0100")
		local.Set("owners[0].fullName", "Dana Reyes")
		return local
	}

	snapshot := func() stepdata.Values {
		snap := stepdata.New()
		snap.Set("businessName", "ACME CAB CORP")
		snap.Set("phone", "718-555-0100")
		snap.Set("owners[0].fullName", "Dana Reyes")
		snap.Set("owners[0].ownerID", "own-41")
		return snap
	}

	tests := []struct {
		name  string
		guard ReconcileGuard
		want  stepdata.Values
	}{
		{
			name:  "clean fields adopt the snapshot",
			guard: ReconcileGuard{},
			want:  snapshot(),
		},
		{
			name: "dirty field keeps the local edit",
			guard: ReconcileGuard{
				Dirty: map[string]struct{}{"businessName": {}},
			},
			want: func() stepdata.Values {
				want := snapshot()
				want.Set("businessName", "Acme Cab Corp")
				return want
			}(),
		},
		{
			name:  "upload in flight suppresses the whole merge",
			guard: ReconcileGuard{UploadInFlight: true},
			want:  base(),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			local := base()
			got := Reconcile(local, snapshot(), tc.guard)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("reconcile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileDoesNotMutateLocal(t *testing.T) {
	t.Parallel()

	local := stepdata.New()
	local.Set("phone", "718-555-0100")
	snap := stepdata.New()
	snap.Set("phone", "212-555-0199")

	_ = Reconcile(local, snap, ReconcileGuard{})

	got, _ := local.Get("phone")
	if got != "718-555-0100" {
		t.Errorf("local value mutated: got %v", got)
	}
}

func TestReconcileServerEnrichedRecordFields(t *testing.T) {
	t.Parallel()

	local := stepdata.New()
	local.Set("owners[0].fullName", "Dana Reyes")
	local.Set("owners[1].fullName", "Sam Oduya")

	snap := local.Clone()
	snap.Set("owners[0].ownerID", "own-41")
	snap.Set("owners[1].ownerID", "own-42")

	merged := Reconcile(local, snap, ReconcileGuard{
		Dirty: map[string]struct{}{"owners[1].fullName": {}},
	})

	if got, _ := merged.Get("owners[0].ownerID"); got != "own-41" {
		t.Errorf("owners[0].ownerID = %v, want own-41", got)
	}
	if got, _ := merged.Get("owners[1].fullName"); got != "Sam Oduya" {
		t.Errorf("owners[1].fullName = %v, want local edit kept", got)
	}
}
