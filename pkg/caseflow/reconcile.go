package caseflow

import "github.com/goliatone/go-caseflow/pkg/stepdata"

// ReconcileGuard carries the suppression state for one reconciliation pass.
// It is built per call from the controller's case context — never shared
// ambient state — so reconciling one case can never suppress another's.
type ReconcileGuard struct {
	// Dirty holds the field paths edited since the last successful submit.
	Dirty map[string]struct{}

	// UploadInFlight suppresses the whole merge while a document mutation for
	// this case is outstanding; the snapshot that races an upload is stale by
	// definition.
	UploadInFlight bool
}

// Reconcile merges a server step snapshot into the local editable state
// field by field. Fields the user touched since the last submit keep their
// local value: the server echo must not clobber an in-flight edit. The local
// values are not mutated; the merged copy is returned.
func Reconcile(local, snapshot stepdata.Values, guard ReconcileGuard) stepdata.Values {
	if guard.UploadInFlight {
		return local.Clone()
	}

	merged := local.Clone()
	for path, value := range snapshot.Flatten() {
		if _, dirty := guard.Dirty[path]; dirty {
			continue
		}
		merged.Set(path, value)
	}
	return merged
}
