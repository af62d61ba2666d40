package wizard

import (
	"context"
	"fmt"
)

// Step is one page of a wizard. A nil Valid means the step is always complete.
type Step[T any] struct {
	Title string
	Valid func(form T) bool
}

// Definition describes a wizard over the form type T.
type Definition[T any] struct {
	Name  string
	Steps []Step[T]

	// Validate runs full-form validation before submission.
	Validate func(form T) FieldErrors

	// Fields maps external field names to typed setters.
	Fields map[string]FieldSetter[T]

	// Clone deep-copies a form. Shallow copy is used when nil.
	Clone func(form T) T

	// FailureMessage is shown when a failed submission carries no message of its own.
	FailureMessage string
}

func (d *Definition[T]) TotalSteps() int {
	return len(d.Steps)
}

func (d *Definition[T]) check() error {
	if len(d.Steps) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSteps, d.Name)
	}
	return nil
}

func (d *Definition[T]) clone(form T) T {
	if d.Clone == nil {
		return form
	}
	return d.Clone(form)
}

func (d *Definition[T]) stepValid(step int, form T) bool {
	if step < 1 || step > len(d.Steps) {
		return false
	}
	valid := d.Steps[step-1].Valid
	return valid == nil || valid(form)
}

func (d *Definition[T]) validate(form T) FieldErrors {
	if d.Validate == nil {
		return FieldErrors{}
	}
	errs := d.Validate(form)
	if errs == nil {
		return FieldErrors{}
	}
	return errs
}

func (d *Definition[T]) failureMessage() string {
	if d.FailureMessage != "" {
		return d.FailureMessage
	}
	return "Failed to submit " + d.Name
}

// Result is what a successful submission hands back to the caller, usually the id of the
// created resource and where to send the user next.
type Result struct {
	ID       string      `json:"id,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// Submitter sends a complete form to whatever creates the resource.
type Submitter[T any] interface {
	Submit(ctx context.Context, form T) (Result, error)
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc[T any] func(ctx context.Context, form T) (Result, error)

func (f SubmitFunc[T]) Submit(ctx context.Context, form T) (Result, error) {
	return f(ctx, form)
}
