package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-caseflow/pkg/caseflow"
	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

// fileStore persists a single case and its documents under a state
// directory: case.json for the case, docs/<code> for uploaded files. It
// stands in for the remote Case-Data API and Document Service so steps can
// be filled offline and inspected as plain files.
type fileStore struct {
	root     string
	registry *schema.Registry
}

var (
	_ caseflow.CaseAPI         = (*fileStore)(nil)
	_ caseflow.DocumentService = (*fileStore)(nil)
)

func newFileStore(root string, registry *schema.Registry) (*fileStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &fileStore{root: root, registry: registry}, nil
}

func (s *fileStore) casePath() string {
	return filepath.Join(s.root, "case.json")
}

func (s *fileStore) load() (caseflow.Case, error) {
	data, err := os.ReadFile(s.casePath())
	if err != nil {
		return caseflow.Case{}, err
	}
	var kase caseflow.Case
	if err := json.Unmarshal(data, &kase); err != nil {
		return caseflow.Case{}, fmt.Errorf("parse %s: %w", s.casePath(), err)
	}
	return kase, nil
}

func (s *fileStore) save(kase caseflow.Case) error {
	data, err := json.MarshalIndent(kase, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.casePath(), data, 0o644)
}

// ensureCase loads the stored case or seeds a skeletal one with every
// registered step, first step current.
func (s *fileStore) ensureCase(caseID string) (caseflow.Case, error) {
	kase, err := s.load()
	if err == nil {
		return kase, nil
	}
	if !os.IsNotExist(err) {
		return caseflow.Case{}, err
	}

	kase = caseflow.Case{ID: caseID, Status: caseflow.CaseOpen}
	for i, stepID := range s.registry.Steps() {
		kase.Steps = append(kase.Steps, caseflow.Step{
			ID:      stepID,
			Ordinal: i + 1,
			Current: i == 0,
			Data:    stepdata.New(),
		})
	}
	if len(kase.Steps) == 0 {
		return caseflow.Case{}, fmt.Errorf("no steps registered")
	}
	return kase, s.save(kase)
}

func (s *fileStore) GetCase(ctx context.Context, caseID string) (caseflow.Case, error) {
	return s.ensureCase(caseID)
}

func (s *fileStore) GetStepSnapshot(ctx context.Context, caseID, stepID string) (stepdata.Values, error) {
	kase, err := s.load()
	if err != nil {
		return stepdata.Values{}, err
	}
	for _, step := range kase.Steps {
		if step.ID == stepID {
			return step.Data, nil
		}
	}
	return stepdata.Values{}, fmt.Errorf("step %s not found", stepID)
}

func (s *fileStore) SubmitStep(ctx context.Context, caseID, stepID string, payload stepdata.Values) error {
	kase, err := s.load()
	if err != nil {
		return err
	}
	for i := range kase.Steps {
		if kase.Steps[i].ID == stepID {
			kase.Steps[i].Data = payload
			return s.save(kase)
		}
	}
	return fmt.Errorf("step %s not found", stepID)
}

func (s *fileStore) AdvanceCase(ctx context.Context, caseID string) (caseflow.CaseSummary, error) {
	kase, err := s.load()
	if err != nil {
		return caseflow.CaseSummary{}, err
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
	if err := s.save(kase); err != nil {
		return caseflow.CaseSummary{}, err
	}
	summary := caseflow.CaseSummary{ID: kase.ID, Status: kase.Status}
	if current, ok := kase.CurrentStep(); ok {
		summary.CurrentStepID = current.ID
	}
	return summary, nil
}

func (s *fileStore) docPath(code string) string {
	return filepath.Join(s.root, "docs", code)
}

func (s *fileStore) ListDocuments(ctx context.Context, ownerType caseflow.OwnerType, ownerID string) ([]caseflow.Document, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "docs"))
	if err != nil {
		return nil, err
	}
	var out []caseflow.Document
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		out = append(out, caseflow.Document{
			ID:        entry.Name(),
			OwnerType: ownerType,
			OwnerID:   ownerID,
			Type:      entry.Name(),
			Present:   true,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (s *fileStore) UploadDocument(ctx context.Context, ownerType caseflow.OwnerType, ownerID, documentType string, file io.Reader) (caseflow.Document, error) {
	out, err := os.Create(s.docPath(documentType))
	if err != nil {
		return caseflow.Document{}, err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return caseflow.Document{}, err
	}
	return caseflow.Document{
		ID:        documentType,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Type:      documentType,
		Present:   true,
	}, nil
}

func (s *fileStore) DeleteDocument(ctx context.Context, documentID string) error {
	return os.Remove(s.docPath(documentID))
}
