// Package caseflow orchestrates a case through its ordered steps: load a
// case context, edit the current step's values, validate them against the
// step schema, submit, and advance. The Controller owns the submit →
// re-fetch snapshot → advance → reload pipeline and the guards around it:
// the access gate, the closed-case gate, the optimistic current-step check
// before advancing, and the generation token that discards responses
// settling after a case switch.
//
// The controller talks to two external collaborators it does not implement:
// the Case-Data API (CaseAPI) for case and step persistence, and the
// Document Service (DocumentService) for uploads. Both are interfaces;
// pkg/testsupport carries in-memory fakes.
package caseflow
