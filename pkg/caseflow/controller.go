package caseflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-caseflow/pkg/docdeps"
	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/stepdata"
	"github.com/goliatone/go-caseflow/pkg/validate"
)

// Controller owns the loaded case's step pointer and sequences the
// submit → re-fetch snapshot → advance → reload pipeline against the
// external Case-Data API and Document Service. It is driven from a single
// event loop: network calls block the calling goroutine, and a per-case
// generation token discards responses that settle after the controller
// switched to another case.
type Controller struct {
	registry *schema.Registry
	engine   *validate.Engine
	resolver *docdeps.Resolver
	api      CaseAPI
	docs     DocumentService

	generation string
	hasAccess  bool
	loaded     bool
	state      State

	kase       Case
	stepID     string
	stepSchema schema.StepSchema
	values     stepdata.Values
	dirty      map[string]struct{}
	documents  map[string]Document
	uploads    map[string]string
}

// Option customises a Controller.
type Option func(*Controller)

// WithSchemaRegistry injects a schema registry; defaults to the embedded
// onboarding schemas.
func WithSchemaRegistry(registry *schema.Registry) Option {
	return func(c *Controller) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithEngine injects a validation engine.
func WithEngine(engine *validate.Engine) Option {
	return func(c *Controller) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// WithResolver injects a document dependency resolver.
func WithResolver(resolver *docdeps.Resolver) Option {
	return func(c *Controller) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// New constructs a Controller over the two external services.
func New(api CaseAPI, docs DocumentService, options ...Option) (*Controller, error) {
	if api == nil {
		return nil, fmt.Errorf("caseflow: case API is required")
	}
	if docs == nil {
		return nil, fmt.Errorf("caseflow: document service is required")
	}

	c := &Controller{
		api:  api,
		docs: docs,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.registry == nil {
		c.registry = schema.Default()
	}
	if c.engine == nil {
		c.engine = validate.New()
	}
	if c.resolver == nil {
		c.resolver = docdeps.NewResolver()
	}
	return c, nil
}

// LoadCase switches the controller to a case context. Any in-flight
// submit/advance for a previously loaded case is invalidated: its responses
// compare against a stale generation token and are discarded.
func (c *Controller) LoadCase(ctx context.Context, caseID string, hasAccess bool) error {
	gen := uuid.NewString()
	c.generation = gen
	c.loaded = false

	kase, err := c.api.GetCase(ctx, caseID)
	if err != nil {
		return &TransportError{Op: "load case", Err: err}
	}
	if c.generation != gen {
		return ErrStaleContext
	}

	c.kase = kase
	c.hasAccess = hasAccess
	c.dirty = make(map[string]struct{})
	c.uploads = make(map[string]string)
	c.documents = make(map[string]Document)

	if kase.Status == CaseClosed {
		c.state = StateClosed
	} else {
		c.state = StateAwaitingStepData
	}

	current, ok := kase.CurrentStep()
	if !ok {
		return fmt.Errorf("caseflow: case %s has no current step", caseID)
	}
	if err := c.adoptStep(current); err != nil {
		return err
	}
	c.loaded = true

	return c.refreshDocuments(ctx, gen)
}

func (c *Controller) adoptStep(step Step) error {
	stepSchema, err := c.registry.Step(step.ID)
	if err != nil {
		return err
	}
	c.stepID = step.ID
	c.stepSchema = stepSchema
	c.values = step.Data.Clone()
	c.dirty = make(map[string]struct{})
	return nil
}

func (c *Controller) refreshDocuments(ctx context.Context, gen string) error {
	listed, err := c.docs.ListDocuments(ctx, OwnerCase, c.kase.ID)
	if err != nil {
		return &TransportError{Op: "list documents", Err: err}
	}
	if c.generation != gen {
		return ErrStaleContext
	}
	c.documents = make(map[string]Document, len(listed))
	for _, doc := range listed {
		if doc.Present {
			c.documents[doc.Type] = doc
		}
	}
	return nil
}

// State returns the submission lifecycle state for the loaded case.
func (c *Controller) State() State { return c.state }

// CaseID returns the loaded case id, empty when nothing is loaded.
func (c *Controller) CaseID() string { return c.kase.ID }

// StepID returns the current step id.
func (c *Controller) StepID() string { return c.stepID }

// Values returns a copy of the current editable step state.
func (c *Controller) Values() stepdata.Values { return c.values.Clone() }

// Documents returns the presence map of attached document type codes.
func (c *Controller) Documents() map[string]bool { return c.presence() }

func (c *Controller) presence() map[string]bool {
	out := make(map[string]bool, len(c.documents))
	for code := range c.documents {
		out[code] = true
	}
	return out
}

// SetValue records a field edit. Edited paths are protected from snapshot
// reconciliation until the next successful submit.
func (c *Controller) SetValue(path string, value any) error {
	if !c.loaded {
		return ErrNotLoaded
	}
	c.values.Set(path, value)
	c.dirty[path] = struct{}{}
	return nil
}

// AddRecord appends an empty record to a repeat group and returns its index.
func (c *Controller) AddRecord(group string) (int, error) {
	if !c.loaded {
		return 0, ErrNotLoaded
	}
	if _, ok := c.stepSchema.Group(group); !ok {
		return 0, fmt.Errorf("caseflow: step %q has no group %q", c.stepID, group)
	}
	records := append(c.values.Groups[group], make(map[string]any))
	c.values.Groups[group] = records
	return len(records) - 1, nil
}

// Validate runs a full validation pass over the current values, folding in
// missing-document results. It performs no network calls; document presence
// comes from the last refresh.
func (c *Controller) Validate() (validate.ErrorMap, error) {
	if !c.loaded {
		return validate.ErrorMap{}, ErrNotLoaded
	}
	missing, err := c.resolver.Missing(c.stepSchema, c.values, c.presence())
	if err != nil {
		return validate.ErrorMap{}, err
	}
	return c.engine.Validate(c.stepSchema, c.values, missing)
}

// Submit validates and submits the current step's values. A non-empty error
// map means nothing was sent. On success the authoritative snapshot is
// re-fetched and reconciled before advancement; with advance false the case
// stays on the submitted step (save draft).
func (c *Controller) Submit(ctx context.Context, advance bool) (validate.ErrorMap, error) {
	if !c.loaded {
		return validate.ErrorMap{}, ErrNotLoaded
	}
	if !c.hasAccess {
		return validate.ErrorMap{}, ErrNoAccess
	}
	if c.state == StateClosed || c.kase.Status == CaseClosed {
		return validate.ErrorMap{}, ErrCaseClosed
	}
	if c.state != StateAwaitingStepData {
		return validate.ErrorMap{}, ErrBusy
	}

	errs, err := c.Validate()
	if err != nil {
		return validate.ErrorMap{}, err
	}
	if !errs.Empty() {
		return errs, nil
	}

	gen := c.generation
	c.state = StateSubmitting

	if err := c.api.SubmitStep(ctx, c.kase.ID, c.stepID, c.values.Clone()); err != nil {
		if c.generation == gen {
			c.state = StateAwaitingStepData
		}
		return validate.ErrorMap{}, &TransportError{Op: "submit step", Err: err}
	}
	if c.generation != gen {
		return validate.ErrorMap{}, ErrStaleContext
	}

	c.state = StateSubmitted
	c.dirty = make(map[string]struct{})

	// The server may normalise or enrich values; never trust the local copy
	// for advancement decisions.
	snapshot, err := c.api.GetStepSnapshot(ctx, c.kase.ID, c.stepID)
	if err != nil {
		c.state = StateAwaitingStepData
		return validate.ErrorMap{}, &TransportError{Op: "fetch step snapshot", Err: err}
	}
	if c.generation != gen {
		return validate.ErrorMap{}, ErrStaleContext
	}
	c.values = Reconcile(c.values, snapshot, ReconcileGuard{
		Dirty:          c.dirty,
		UploadInFlight: len(c.uploads) > 0,
	})

	if !advance {
		c.state = StateAwaitingStepData
		return errs, nil
	}
	return errs, c.advance(ctx, gen)
}

func (c *Controller) advance(ctx context.Context, gen string) error {
	c.state = StateAdvancing

	ok, err := c.checkStepGuard(ctx, gen)
	if err != nil {
		c.rollbackAdvance(gen)
		return err
	}
	if !ok {
		return c.adoptServerState(ctx, gen)
	}

	summary, err := c.api.AdvanceCase(ctx, c.kase.ID)
	if err != nil {
		if c.generation != gen {
			return ErrStaleContext
		}
		// One automatic retry after re-checking the guard; another actor may
		// have advanced the case between our check and the call.
		ok, guardErr := c.checkStepGuard(ctx, gen)
		if guardErr != nil {
			c.rollbackAdvance(gen)
			return guardErr
		}
		if !ok {
			return c.adoptServerState(ctx, gen)
		}
		summary, err = c.api.AdvanceCase(ctx, c.kase.ID)
		if err != nil {
			c.rollbackAdvance(gen)
			return &TransportError{Op: "advance case", Err: err}
		}
	}
	if c.generation != gen {
		return ErrStaleContext
	}

	if summary.Status == CaseClosed {
		c.kase.Status = CaseClosed
		c.state = StateClosed
		return nil
	}
	return c.reload(ctx, gen)
}

// checkStepGuard re-fetches the case and reports whether its current-step
// pointer still equals the step just submitted. An optimistic check, not a
// lock; the Case API remains responsible for rejecting stale advances.
func (c *Controller) checkStepGuard(ctx context.Context, gen string) (bool, error) {
	kase, err := c.api.GetCase(ctx, c.kase.ID)
	if err != nil {
		return false, &TransportError{Op: "re-fetch case", Err: err}
	}
	if c.generation != gen {
		return false, ErrStaleContext
	}
	c.kase = kase
	if kase.Status == CaseClosed {
		c.state = StateClosed
		return false, ErrCaseClosed
	}
	current, ok := kase.CurrentStep()
	if !ok {
		return false, fmt.Errorf("caseflow: case %s has no current step", kase.ID)
	}
	return current.ID == c.stepID, nil
}

// adoptServerState handles a lost advancement race: keep the server's view,
// skip advancing, and report the race as a non-fatal notice.
func (c *Controller) adoptServerState(ctx context.Context, gen string) error {
	submitted := c.stepID
	if err := c.reload(ctx, gen); err != nil {
		return err
	}
	return &RaceGuardError{
		CaseID:      c.kase.ID,
		SubmittedID: submitted,
		CurrentID:   c.stepID,
	}
}

func (c *Controller) rollbackAdvance(gen string) {
	if c.generation == gen && c.state == StateAdvancing {
		c.state = StateAwaitingStepData
	}
}

func (c *Controller) reload(ctx context.Context, gen string) error {
	kase, err := c.api.GetCase(ctx, c.kase.ID)
	if err != nil {
		c.rollbackAdvance(gen)
		return &TransportError{Op: "reload case", Err: err}
	}
	if c.generation != gen {
		return ErrStaleContext
	}
	c.kase = kase
	if kase.Status == CaseClosed {
		c.state = StateClosed
		return nil
	}
	current, ok := kase.CurrentStep()
	if !ok {
		return fmt.Errorf("caseflow: case %s has no current step", kase.ID)
	}
	if err := c.adoptStep(current); err != nil {
		return err
	}
	c.state = StateAwaitingStepData
	return c.refreshDocuments(ctx, gen)
}
