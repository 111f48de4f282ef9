// Package testsupport provides in-memory implementations of the external
// Case-Data API and Document Service, with scriptable failures and call
// journals, for exercising the workflow controller without a network.
package testsupport

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/goliatone/go-caseflow/pkg/caseflow"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

// FakeCaseAPI is an in-memory caseflow.CaseAPI. Error fields, when set, are
// returned by the next matching call and then cleared, so tests can script a
// single transient failure.
type FakeCaseAPI struct {
	Cases map[string]caseflow.Case

	GetCaseErr     error
	GetSnapshotErr error
	SubmitErr      error
	AdvanceErr     error

	// SnapshotOverride, when set, is returned by the next GetStepSnapshot
	// instead of the stored step data (simulates server-side enrichment).
	SnapshotOverride *stepdata.Values

	Calls []string
}

var _ caseflow.CaseAPI = (*FakeCaseAPI)(nil)

// NewFakeCaseAPI builds a fake holding the provided cases.
func NewFakeCaseAPI(cases ...caseflow.Case) *FakeCaseAPI {
	api := &FakeCaseAPI{Cases: make(map[string]caseflow.Case, len(cases))}
	for _, kase := range cases {
		api.Cases[kase.ID] = kase
	}
	return api
}

func (f *FakeCaseAPI) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *FakeCaseAPI) GetCase(ctx context.Context, caseID string) (caseflow.Case, error) {
	f.record("GetCase(%s)", caseID)
	if err := f.GetCaseErr; err != nil {
		f.GetCaseErr = nil
		return caseflow.Case{}, err
	}
	kase, ok := f.Cases[caseID]
	if !ok {
		return caseflow.Case{}, fmt.Errorf("testsupport: case %s not found", caseID)
	}
	return cloneCase(kase), nil
}

func (f *FakeCaseAPI) GetStepSnapshot(ctx context.Context, caseID, stepID string) (stepdata.Values, error) {
	f.record("GetStepSnapshot(%s, %s)", caseID, stepID)
	if err := f.GetSnapshotErr; err != nil {
		f.GetSnapshotErr = nil
		return stepdata.Values{}, err
	}
	if f.SnapshotOverride != nil {
		snapshot := f.SnapshotOverride.Clone()
		f.SnapshotOverride = nil
		return snapshot, nil
	}
	kase, ok := f.Cases[caseID]
	if !ok {
		return stepdata.Values{}, fmt.Errorf("testsupport: case %s not found", caseID)
	}
	step, ok := findStep(kase.Steps, stepID)
	if !ok {
		return stepdata.Values{}, fmt.Errorf("testsupport: step %s not found", stepID)
	}
	return step.Data.Clone(), nil
}

func (f *FakeCaseAPI) SubmitStep(ctx context.Context, caseID, stepID string, payload stepdata.Values) error {
	f.record("SubmitStep(%s, %s)", caseID, stepID)
	if err := f.SubmitErr; err != nil {
		f.SubmitErr = nil
		return err
	}
	kase, ok := f.Cases[caseID]
	if !ok {
		return fmt.Errorf("testsupport: case %s not found", caseID)
	}
	if kase.Status == caseflow.CaseClosed {
		return fmt.Errorf("testsupport: case %s is closed", caseID)
	}
	if !setStepData(kase.Steps, stepID, payload.Clone()) {
		return fmt.Errorf("testsupport: step %s not found", stepID)
	}
	f.Cases[caseID] = kase
	return nil
}

func (f *FakeCaseAPI) AdvanceCase(ctx context.Context, caseID string) (caseflow.CaseSummary, error) {
	f.record("AdvanceCase(%s)", caseID)
	if err := f.AdvanceErr; err != nil {
		f.AdvanceErr = nil
		return caseflow.CaseSummary{}, err
	}
	kase, ok := f.Cases[caseID]
	if !ok {
		return caseflow.CaseSummary{}, fmt.Errorf("testsupport: case %s not found", caseID)
	}

	for i := range kase.Steps {
		if !kase.Steps[i].Current {
			continue
		}
		kase.Steps[i].Current = false
		if i+1 < len(kase.Steps) {
			kase.Steps[i+1].Current = true
		} else {
			kase.Status = caseflow.CaseClosed
		}
		break
	}
	f.Cases[caseID] = kase

	summary := caseflow.CaseSummary{ID: caseID, Status: kase.Status}
	if current, ok := kase.CurrentStep(); ok {
		summary.CurrentStepID = current.ID
	}
	return summary, nil
}

// AdvanceExternally simulates another actor moving the case, for racing the
// controller's current-step guard.
func (f *FakeCaseAPI) AdvanceExternally(caseID string) {
	_, _ = f.AdvanceCase(context.Background(), caseID)
	// Drop the journal entry so tests can assert the controller's own calls.
	if len(f.Calls) > 0 {
		f.Calls = f.Calls[:len(f.Calls)-1]
	}
}

// CallCount returns how many journal entries have the given prefix.
func (f *FakeCaseAPI) CallCount(prefix string) int {
	count := 0
	for _, call := range f.Calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			count++
		}
	}
	return count
}

func findStep(steps []caseflow.Step, stepID string) (caseflow.Step, bool) {
	for _, step := range steps {
		if step.ID == stepID {
			return step, true
		}
		if sub, ok := findStep(step.SubSteps, stepID); ok {
			return sub, true
		}
	}
	return caseflow.Step{}, false
}

func setStepData(steps []caseflow.Step, stepID string, data stepdata.Values) bool {
	for i := range steps {
		if steps[i].ID == stepID {
			steps[i].Data = data
			return true
		}
		if setStepData(steps[i].SubSteps, stepID, data) {
			return true
		}
	}
	return false
}

func cloneCase(kase caseflow.Case) caseflow.Case {
	out := kase
	out.Steps = cloneSteps(kase.Steps)
	return out
}

func cloneSteps(steps []caseflow.Step) []caseflow.Step {
	if len(steps) == 0 {
		return nil
	}
	out := make([]caseflow.Step, len(steps))
	for i, step := range steps {
		step.Data = step.Data.Clone()
		step.SubSteps = cloneSteps(step.SubSteps)
		out[i] = step
	}
	return out
}

// FakeDocumentService is an in-memory caseflow.DocumentService keyed by
// document type code.
type FakeDocumentService struct {
	Documents map[string]caseflow.Document

	UploadErr error
	DeleteErr error
	ListErr   error

	Deleted []string
	nextID  int
}

var _ caseflow.DocumentService = (*FakeDocumentService)(nil)

// NewFakeDocumentService builds an empty document store.
func NewFakeDocumentService() *FakeDocumentService {
	return &FakeDocumentService{Documents: make(map[string]caseflow.Document)}
}

// Attach seeds a present document without going through Upload.
func (f *FakeDocumentService) Attach(ownerType caseflow.OwnerType, ownerID, documentType string) caseflow.Document {
	f.nextID++
	doc := caseflow.Document{
		ID:        fmt.Sprintf("doc-%d", f.nextID),
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Type:      documentType,
		Present:   true,
	}
	f.Documents[documentType] = doc
	return doc
}

func (f *FakeDocumentService) ListDocuments(ctx context.Context, ownerType caseflow.OwnerType, ownerID string) ([]caseflow.Document, error) {
	if err := f.ListErr; err != nil {
		f.ListErr = nil
		return nil, err
	}
	codes := make([]string, 0, len(f.Documents))
	for code := range f.Documents {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]caseflow.Document, 0, len(codes))
	for _, code := range codes {
		out = append(out, f.Documents[code])
	}
	return out, nil
}

func (f *FakeDocumentService) UploadDocument(ctx context.Context, ownerType caseflow.OwnerType, ownerID, documentType string, file io.Reader) (caseflow.Document, error) {
	if err := f.UploadErr; err != nil {
		f.UploadErr = nil
		return caseflow.Document{}, err
	}
	return f.Attach(ownerType, ownerID, documentType), nil
}

func (f *FakeDocumentService) DeleteDocument(ctx context.Context, documentID string) error {
	if err := f.DeleteErr; err != nil {
		f.DeleteErr = nil
		return err
	}
	for code, doc := range f.Documents {
		if doc.ID == documentID {
			delete(f.Documents, code)
			f.Deleted = append(f.Deleted, code)
			return nil
		}
	}
	return fmt.Errorf("testsupport: document %s not found", documentID)
}
