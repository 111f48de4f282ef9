package caseflow

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/goliatone/go-caseflow/pkg/stepdata"
)

// UploadDocument streams a file to the Document Service under a document
// type code. While the upload is outstanding it acts as the suppression
// token for snapshot reconciliation: a snapshot arriving mid-upload cannot
// overwrite the form. Independent uploads for different document types may
// be in flight concurrently; each carries its own id.
func (c *Controller) UploadDocument(ctx context.Context, ownerType OwnerType, ownerID, documentType string, file io.Reader) (Document, error) {
	if !c.loaded {
		return Document{}, ErrNotLoaded
	}
	if !c.hasAccess {
		return Document{}, ErrNoAccess
	}
	if c.state == StateClosed {
		return Document{}, ErrCaseClosed
	}

	gen := c.generation
	uploadID := uuid.NewString()
	c.uploads[uploadID] = documentType

	doc, err := c.docs.UploadDocument(ctx, ownerType, ownerID, documentType, file)
	if c.generation != gen {
		return Document{}, ErrStaleContext
	}
	delete(c.uploads, uploadID)
	if err != nil {
		return Document{}, &TransportError{Op: "upload document", Err: err}
	}

	doc.Present = true
	c.documents[doc.Type] = doc
	return doc, nil
}

// PruneOrphanedDocuments deletes attached documents whose requirement no
// longer holds — a record was removed or a conditional flag toggled off.
// The resolver only reports the orphans; the delete is this orchestrator's
// explicit side effect. Returns the deleted document type codes.
func (c *Controller) PruneOrphanedDocuments(ctx context.Context) ([]string, error) {
	if !c.loaded {
		return nil, ErrNotLoaded
	}
	if !c.hasAccess {
		return nil, ErrNoAccess
	}

	orphaned, err := c.resolver.Orphaned(c.stepSchema, c.values, c.presence())
	if err != nil {
		return nil, err
	}

	gen := c.generation
	var deleted []string
	for _, code := range orphaned {
		doc, ok := c.documents[code]
		if !ok {
			continue
		}
		if err := c.docs.DeleteDocument(ctx, doc.ID); err != nil {
			// Remaining orphans survive to the next prune; retry is safe.
			return deleted, &TransportError{Op: "delete document", Err: err}
		}
		if c.generation != gen {
			return deleted, ErrStaleContext
		}
		delete(c.documents, code)
		deleted = append(deleted, code)
	}
	return deleted, nil
}

// RemoveRecord deletes a repeat-group record, re-indexes the remainder, and
// prunes the documents keyed to the removed record's position. Shrinking a
// group below its schema minimum is rejected: an owners group always keeps
// at least one record.
func (c *Controller) RemoveRecord(ctx context.Context, group string, index int) error {
	if !c.loaded {
		return ErrNotLoaded
	}
	if !c.hasAccess {
		return ErrNoAccess
	}
	groupSchema, ok := c.stepSchema.Group(group)
	if !ok {
		return fmt.Errorf("caseflow: step %q has no group %q", c.stepID, group)
	}

	records := c.values.Groups[group]
	if index < 0 || index >= len(records) {
		return &MinRecordsError{Group: group, Min: groupSchema.MinRecords}
	}
	if len(records)-1 < groupSchema.MinRecords {
		return &MinRecordsError{Group: group, Min: groupSchema.MinRecords}
	}

	remaining := append(append([]map[string]any(nil), records[:index]...), records[index+1:]...)
	c.values.Groups[group] = remaining

	// Every surviving record may have shifted position; protect the whole
	// group from the next snapshot echo.
	for i, record := range remaining {
		for field := range record {
			c.dirty[stepdata.GroupPath(group, i, field)] = struct{}{}
		}
	}

	_, err := c.PruneOrphanedDocuments(ctx)
	return err
}
