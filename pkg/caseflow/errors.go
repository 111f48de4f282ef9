package caseflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAccess gates every mutating operation; the hasAccess capability is
	// supplied externally and never computed here.
	ErrNoAccess = errors.New("caseflow: access denied for this case")

	// ErrCaseClosed rejects submissions against a closed case.
	ErrCaseClosed = errors.New("caseflow: case is closed")

	// ErrNotLoaded reports an operation before LoadCase succeeded.
	ErrNotLoaded = errors.New("caseflow: no case loaded")

	// ErrBusy reports an operation issued while a previous submit/advance for
	// the same case has not settled yet.
	ErrBusy = errors.New("caseflow: a step operation is already in flight")

	// ErrStaleContext reports a response that arrived after the controller
	// switched to a different case context; the response was discarded.
	ErrStaleContext = errors.New("caseflow: case context changed, response discarded")
)

// TransportError wraps a network or API failure on submit, advance, fetch,
// upload, or delete. Recoverable: state is rolled back to its pre-attempt
// value, so a retry is safe.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("caseflow: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RaceGuardError reports that the case's current-step pointer moved under us:
// another actor already advanced the case. Non-fatal; the engine re-fetches
// the case and skips advancement.
type RaceGuardError struct {
	CaseID      string
	SubmittedID string
	CurrentID   string
}

func (e *RaceGuardError) Error() string {
	return fmt.Sprintf("caseflow: case %s advanced elsewhere (submitted step %s, current step %s)", e.CaseID, e.SubmittedID, e.CurrentID)
}

// MinRecordsError rejects removing a record that would shrink a repeat group
// below its schema minimum. Owners always keep at least one record.
type MinRecordsError struct {
	Group string
	Min   int
}

func (e *MinRecordsError) Error() string {
	return fmt.Sprintf("caseflow: group %q requires at least %d record(s)", e.Group, e.Min)
}
