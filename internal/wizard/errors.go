package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoSteps      = errors.New("wizard must have at least one step")
	ErrNoSubmitter  = errors.New("wizard needs a submitter")
	ErrSubmitPanic  = errors.New("submitter panicked")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
	ErrValidation   = errors.New("validation failed")
	ErrSubmitting   = errors.New("submission already in progress")
	ErrCompleted    = errors.New("wizard already submitted")
	ErrDiscarded    = errors.New("wizard discarded")
	ErrInvalidStep  = errors.New("step out of range")
)

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// Fields returns the invalid field names in a stable order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidationError is returned by Submit when full validation fails. It matches ErrValidation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields.Fields(), ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UserMessenger is implemented by submission failures that carry a message for the user,
// typically the error message returned by the server.
type UserMessenger interface {
	UserMessage() string
}

// SubmissionError is the recoverable failure of a submit call. Message is what the user sees.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserError wraps a plain message so a submitter can surface it verbatim.
type UserError struct {
	Message string
	Err     error
}

func NewUserError(message string, err error) *UserError {
	return &UserError{Message: message, Err: err}
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) UserMessage() string {
	return e.Message
}

// submissionFailure picks the server message when one is present, else the fallback.
func submissionFailure(err error, fallback string) *SubmissionError {
	msg := fallback
	var um UserMessenger
	if errors.As(err, &um) && strings.TrimSpace(um.UserMessage()) != "" {
		msg = um.UserMessage()
	}
	return &SubmissionError{Message: msg, Err: err}
}
