package caseflow

import (
	"context"
	"io"

	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

// CaseAPI is the case-data persistence service the engine consumes. The
// engine does not assume SubmitStep is idempotent; preventing duplicate
// submissions is the caller's concern (disabled controls), not the engine's.
type CaseAPI interface {
	GetCase(ctx context.Context, caseID string) (Case, error)
	GetStepSnapshot(ctx context.Context, caseID, stepID string) (stepdata.Values, error)
	SubmitStep(ctx context.Context, caseID, stepID string, payload stepdata.Values) error
	AdvanceCase(ctx context.Context, caseID string) (CaseSummary, error)
}

// DocumentService stores uploaded documents. Upload is opaque: the engine
// only reacts to the resulting presence flag.
type DocumentService interface {
	ListDocuments(ctx context.Context, ownerType OwnerType, ownerID string) ([]Document, error)
	UploadDocument(ctx context.Context, ownerType OwnerType, ownerID, documentType string, file io.Reader) (Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}
