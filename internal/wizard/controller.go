// Package wizard drives linear multi-step forms: step navigation gated by per-step
// validity, edit tracking with per-field errors, and a single atomic submission.
package wizard

import (
	"context"
	"fmt"
	"sync"
)

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseCompleted  Phase = "completed"
)

// State is a value copy of a controller, used for persistence and for rendering.
type State[T any] struct {
	Step       int         `json:"step"`
	TotalSteps int         `json:"totalSteps"`
	StepTitle  string      `json:"stepTitle"`
	Phase      Phase       `json:"phase"`
	FormData   T           `json:"formData"`
	Errors     FieldErrors `json:"errors"`
	StepValid  bool        `json:"stepValid"`
	CanGoNext  bool        `json:"canGoNext"`
	CanGoBack  bool        `json:"canGoBack"`
}

// Controller holds the state of one wizard instance. It is safe for concurrent use.
type Controller[T any] struct {
	mu        sync.Mutex
	def       *Definition[T]
	submitter Submitter[T]

	step      int
	form      T
	errors    FieldErrors
	phase     Phase
	discarded bool
	result    *Result
}

// New returns a controller positioned on step 1 with initial as the form data.
func New[T any](def *Definition[T], initial T, submitter Submitter[T]) (*Controller[T], error) {
	if err := def.check(); err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, ErrNoSubmitter
	}
	return &Controller[T]{
		def:       def,
		submitter: submitter,
		step:      1,
		form:      initial,
		errors:    FieldErrors{},
		phase:     PhaseEditing,
	}, nil
}

func (c *Controller[T]) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller[T]) TotalSteps() int {
	return c.def.TotalSteps()
}

func (c *Controller[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Form returns a copy of the current form data.
func (c *Controller[T]) Form() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.def.clone(c.form)
}

func (c *Controller[T]) Errors() FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.clone()
}

// Result is set once a submission has completed.
func (c *Controller[T]) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// IsStepValid evaluates the predicate of step against the current form. It is never cached.
func (c *Controller[T]) IsStepValid(step int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.def.stepValid(step, c.form)
}

// Next advances one step when the current step is complete. It reports whether it moved.
func (c *Controller[T]) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.navigable() || c.step >= c.def.TotalSteps() {
		return false
	}
	if !c.def.stepValid(c.step, c.form) {
		return false
	}
	c.step++
	return true
}

// Previous goes back one step regardless of validity.
func (c *Controller[T]) Previous() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.navigable() || c.step <= 1 {
		return false
	}
	c.step--
	return true
}

func (c *Controller[T]) navigable() bool {
	return !c.discarded && c.phase == PhaseEditing
}

func (c *Controller[T]) editable() bool {
	return !c.discarded && c.phase != PhaseCompleted
}

// UpdateField sets a named field and clears any error recorded for it.
func (c *Controller[T]) UpdateField(name string, value interface{}) error {
	setter, ok := c.def.Fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editable() {
		return c.closedErr()
	}
	if err := setter(&c.form, value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	delete(c.errors, name)
	return nil
}

// Update applies fn to the form. Errors for the listed fields are cleared.
func (c *Controller[T]) Update(fn func(form *T), fields ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editable() {
		return c.closedErr()
	}
	fn(&c.form)
	for _, f := range fields {
		delete(c.errors, f)
	}
	return nil
}

func (c *Controller[T]) closedErr() error {
	if c.discarded {
		return ErrDiscarded
	}
	return ErrCompleted
}

// ValidateAll replaces the recorded errors with a full validation run.
func (c *Controller[T]) ValidateAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = c.def.validate(c.form)
	return len(c.errors) == 0
}

// Submit validates the whole form and hands a copy of it to the submitter. Edits made
// while the call is in flight do not reach the submitter. On failure the controller
// returns to editing with its data intact and the error is a *SubmissionError.
func (c *Controller[T]) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	switch {
	case c.discarded:
		c.mu.Unlock()
		return Result{}, ErrDiscarded
	case c.phase == PhaseSubmitting:
		c.mu.Unlock()
		return Result{}, ErrSubmitting
	case c.phase == PhaseCompleted:
		c.mu.Unlock()
		return Result{}, ErrCompleted
	}

	c.errors = c.def.validate(c.form)
	if len(c.errors) > 0 {
		errs := c.errors.clone()
		c.mu.Unlock()
		return Result{}, &ValidationError{Fields: errs}
	}

	snapshot := c.def.clone(c.form)
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	res, err := c.invoke(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()

	var failure *SubmissionError
	if err != nil {
		failure = submissionFailure(err, c.def.failureMessage())
	}
	if c.discarded {
		if failure != nil {
			return Result{}, failure
		}
		return res, nil
	}
	if failure != nil {
		c.phase = PhaseEditing
		return Result{}, failure
	}
	c.phase = PhaseCompleted
	c.result = &res
	return res, nil
}

// invoke calls the submitter, turning a panic into an error.
func (c *Controller[T]) invoke(ctx context.Context, form T) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("%w: %v", ErrSubmitPanic, r)
		}
	}()
	return c.submitter.Submit(ctx, form)
}

// Discard detaches the controller. The outcome of an in-flight submission no longer
// changes its state and further edits or navigation are rejected.
func (c *Controller[T]) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discarded = true
}

func (c *Controller[T]) Discarded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discarded
}

// Snapshot returns a value copy of the controller state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	valid := c.def.stepValid(c.step, c.form)
	return State[T]{
		Step:       c.step,
		TotalSteps: c.def.TotalSteps(),
		StepTitle:  c.def.Steps[c.step-1].Title,
		Phase:      c.phase,
		FormData:   c.def.clone(c.form),
		Errors:     c.errors.clone(),
		StepValid:  valid,
		CanGoNext:  c.navigable() && valid && c.step < c.def.TotalSteps(),
		CanGoBack:  c.navigable() && c.step > 1,
	}
}

// Restore loads a previously captured state. A state captured mid-submission comes back
// as editing.
func (c *Controller[T]) Restore(s State[T]) error {
	if s.Step < 1 || s.Step > c.def.TotalSteps() {
		return fmt.Errorf("%w: %d of %d", ErrInvalidStep, s.Step, c.def.TotalSteps())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = s.Step
	c.form = c.def.clone(s.FormData)
	c.errors = FieldErrors{}
	if s.Errors != nil {
		c.errors = s.Errors.clone()
	}
	c.phase = s.Phase
	if c.phase == PhaseSubmitting || c.phase == "" {
		c.phase = PhaseEditing
	}
	return nil
}
