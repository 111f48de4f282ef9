package caseflow

import "github.com/goliatone/go-caseflow/pkg/stepdata"

// CaseStatus is the lifecycle state the Case-Data API reports for a case.
type CaseStatus string

const (
	CaseOpen   CaseStatus = "Open"
	CaseClosed CaseStatus = "Closed"
)

// Case is a business process instance progressing through ordered steps. The
// engine never creates or deletes cases; it only reads them and asks the
// Case-Data API to advance them.
type Case struct {
	ID     string
	Status CaseStatus
	Steps  []Step
}

// CurrentStep returns the step flagged current. Exactly one step per case is
// current at any time; ok is false only for malformed server payloads.
func (c Case) CurrentStep() (Step, bool) {
	for _, step := range c.Steps {
		if step.Current {
			return step, true
		}
		for _, sub := range step.SubSteps {
			if sub.Current {
				return sub, true
			}
		}
	}
	return Step{}, false
}

// Step is one unit of case data plus documents. Steps pre-exist in skeletal
// form from case creation; their data is mutated by submission, never deleted.
type Step struct {
	ID       string
	Ordinal  int
	Current  bool
	Data     stepdata.Values
	SubSteps []Step
}

// CaseSummary is the Case-Data API's acknowledgement of an advance request.
type CaseSummary struct {
	ID            string
	Status        CaseStatus
	CurrentStepID string
}

// OwnerType identifies the object a document is attached to.
type OwnerType string

const (
	OwnerCase  OwnerType = "case"
	OwnerStep  OwnerType = "step"
	OwnerOwner OwnerType = "owner"
	OwnerPayee OwnerType = "payee"
)

// Document is the engine's view of an uploaded document: a presence flag for
// a type code on an owning object. Content is opaque; the engine never
// inspects file bytes.
type Document struct {
	ID        string
	OwnerType OwnerType
	OwnerID   string
	Type      string
	Present   bool
}

// State is the submission lifecycle of the loaded case.
type State string

const (
	StateAwaitingStepData State = "AwaitingStepData"
	StateSubmitting       State = "Submitting"
	StateSubmitted        State = "Submitted"
	StateAdvancing        State = "Advancing"
	StateClosed           State = "Closed"
)
