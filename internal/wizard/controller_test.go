package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Seats    int    `json:"seats"`
	Tags     Tags   `json:"tags"`
}

func signupDefinition() *Definition[signupForm] {
	return &Definition[signupForm]{
		Name: "signup",
		Steps: []Step[signupForm]{
			{Title: "Details", Valid: func(f signupForm) bool { return f.Title != "" && f.Category != "" }},
			{Title: "Seats", Valid: func(f signupForm) bool { return f.Seats > 0 }},
			{Title: "Review"},
		},
		Validate: func(f signupForm) FieldErrors {
			errs := FieldErrors{}
			if f.Title == "" {
				errs["title"] = "Title is required"
			}
			if f.Seats <= 0 {
				errs["seats"] = "Seats must be positive"
			}
			return errs
		},
		Fields: map[string]FieldSetter[signupForm]{
			"title":    Field(func(f *signupForm) *string { return &f.Title }),
			"category": Field(func(f *signupForm) *string { return &f.Category }),
			"seats":    Field(func(f *signupForm) *int { return &f.Seats }),
			"tags":     Field(func(f *signupForm) *Tags { return &f.Tags }),
		},
		Clone: func(f signupForm) signupForm {
			f.Tags = append(Tags(nil), f.Tags...)
			return f
		},
		FailureMessage: "Failed to sign up",
	}
}

type recordingSubmitter struct {
	mu    sync.Mutex
	calls []signupForm
	err   error
	block chan struct{}
}

func (r *recordingSubmitter) Submit(ctx context.Context, form signupForm) (Result, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, form)
	if r.err != nil {
		return Result{}, r.err
	}
	return Result{ID: "created-1"}, nil
}

func newController(t *testing.T, sub Submitter[signupForm]) *Controller[signupForm] {
	t.Helper()
	c, err := New(signupDefinition(), signupForm{}, sub)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsEmptyDefinition(t *testing.T) {
	_, err := New(&Definition[signupForm]{Name: "empty"}, signupForm{}, &recordingSubmitter{})
	assert.ErrorIs(t, err, ErrNoSteps)
}

func TestNew_RequiresSubmitter(t *testing.T) {
	c, err := New(signupDefinition(), signupForm{}, nil)
	assert.ErrorIs(t, err, ErrNoSubmitter)
	assert.Nil(t, c)
}

func TestController_SubmitterPanicIsRecoverable(t *testing.T) {
	calls := 0
	c := newController(t, SubmitFunc[signupForm](func(context.Context, signupForm) (Result, error) {
		calls++
		if calls == 1 {
			var m map[string]int
			m["boom"]++
		}
		return Result{ID: "created-2"}, nil
	}))
	require.NoError(t, c.UpdateField("title", "Dashain meetup"))
	require.NoError(t, c.UpdateField("seats", 4))

	_, err := c.Submit(context.Background())
	var failure *SubmissionError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "Failed to sign up", failure.Message)
	assert.ErrorIs(t, err, ErrSubmitPanic)
	assert.Equal(t, PhaseEditing, c.Phase())
	assert.Equal(t, "Dashain meetup", c.Form().Title)

	res, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "created-2", res.ID)
	assert.Equal(t, PhaseCompleted, c.Phase())
}

func TestController_NextBlockedWhenStepInvalid(t *testing.T) {
	c := newController(t, &recordingSubmitter{})

	assert.False(t, c.Next())
	assert.Equal(t, 1, c.Step())

	require.NoError(t, c.UpdateField("title", "Dashain meetup"))
	assert.False(t, c.Next(), "category still missing")

	require.NoError(t, c.UpdateField("category", "cultural"))
	assert.True(t, c.Next())
	assert.Equal(t, 2, c.Step())
}

func TestController_PreviousAlwaysAllowed(t *testing.T) {
	c := newController(t, &recordingSubmitter{})
	require.NoError(t, c.UpdateField("title", "t"))
	require.NoError(t, c.UpdateField("category", "c"))
	require.True(t, c.Next())

	require.NoError(t, c.UpdateField("title", ""))
	assert.True(t, c.Previous())
	assert.Equal(t, 1, c.Step())
	assert.False(t, c.Previous())
	assert.Equal(t, 1, c.Step())
}

func TestController_StepStaysInBounds(t *testing.T) {
	c := newController(t, &recordingSubmitter{})
	require.NoError(t, c.UpdateField("title", "t"))
	require.NoError(t, c.UpdateField("category", "c"))
	require.NoError(t, c.UpdateField("seats", 3))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			c.Next()
		case 1:
			c.Previous()
		case 2:
			_ = c.UpdateField("seats", rng.Intn(3))
		}
		step := c.Step()
		require.GreaterOrEqual(t, step, 1)
		require.LessOrEqual(t, step, c.TotalSteps())
	}
}

func TestController_FormNotResetOnNavigation(t *testing.T) {
	c := newController(t, &recordingSubmitter{})
	require.NoError(t, c.UpdateField("title", "Teej"))
	require.NoError(t, c.UpdateField("category", "celebration"))
	require.True(t, c.Next())
	require.True(t, c.Previous())

	assert.Equal(t, "Teej", c.Form().Title)
	assert.Equal(t, "celebration", c.Form().Category)
}

func TestController_UpdateFieldClearsError(t *testing.T) {
	c := newController(t, &recordingSubmitter{})
	assert.False(t, c.ValidateAll())
	require.Contains(t, c.Errors(), "title")
	require.Contains(t, c.Errors(), "seats")

	require.NoError(t, c.UpdateField("title", "Tihar"))
	assert.Equal(t, "Tihar", c.Form().Title)
	assert.NotContains(t, c.Errors(), "title")
	assert.Contains(t, c.Errors(), "seats")
}

func TestController_UpdateFieldFromJSON(t *testing.T) {
	c := newController(t, &recordingSubmitter{})

	require.NoError(t, c.UpdateField("seats", json.RawMessage(`12`)))
	require.NoError(t, c.UpdateField("tags", json.RawMessage(`["a","b"]`)))
	assert.Equal(t, 12, c.Form().Seats)
	assert.Equal(t, Tags{"a", "b"}, c.Form().Tags)

	err := c.UpdateField("seats", json.RawMessage(`"many"`))
	assert.ErrorIs(t, err, ErrInvalidValue)
	err = c.UpdateField("seats", "twelve")
	assert.ErrorIs(t, err, ErrInvalidValue)
	err = c.UpdateField("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestController_IsStepValidOutOfRange(t *testing.T) {
	c := newController(t, &recordingSubmitter{})
	assert.False(t, c.IsStepValid(0))
	assert.False(t, c.IsStepValid(4))
	assert.True(t, c.IsStepValid(3))
}

func TestController_SubmitValidationStaysLocal(t *testing.T) {
	sub := &recordingSubmitter{}
	c := newController(t, sub)

	_, err := c.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ElementsMatch(t, []string{"seats", "title"}, verr.Fields.Fields())
	assert.Empty(t, sub.calls)
	assert.Equal(t, PhaseEditing, c.Phase())
}

func TestController_SubmitSuccess(t *testing.T) {
	sub := &recordingSubmitter{}
	c := newController(t, sub)
	require.NoError(t, c.UpdateField("title", "t"))
	require.NoError(t, c.UpdateField("seats", 2))

	res, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "created-1", res.ID)
	assert.Len(t, sub.calls, 1)
	assert.Equal(t, PhaseCompleted, c.Phase())

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCompleted)
	assert.Len(t, sub.calls, 1)
}

func TestController_SubmitFailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"server message", NewUserError("Group is full", nil), "Group is full"},
		{"wrapped server message", errors.Join(errors.New("http 400"), NewUserError("Bad date", nil)), "Bad date"},
		{"blank server message", NewUserError("  ", nil), "Failed to sign up"},
		{"network error", errors.New("connection refused"), "Failed to sign up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &recordingSubmitter{err: tt.err}
			c := newController(t, sub)
			require.NoError(t, c.UpdateField("title", "t"))
			require.NoError(t, c.UpdateField("category", "c"))
			require.True(t, c.Next())
			require.NoError(t, c.UpdateField("seats", 1))

			_, err := c.Submit(context.Background())

			var serr *SubmissionError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.message, serr.Message)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, PhaseEditing, c.Phase())
			assert.Equal(t, 2, c.Step())
			assert.Equal(t, "t", c.Form().Title)
		})
	}
}

func TestController_SubmitRetryAfterFailure(t *testing.T) {
	sub := &recordingSubmitter{err: errors.New("boom")}
	c := newController(t, sub)
	require.NoError(t, c.UpdateField("title", "t"))
	require.NoError(t, c.UpdateField("seats", 1))

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	sub.err = nil
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, sub.calls, 2)
}

func TestController_SubmitSendsSnapshot(t *testing.T) {
	sub := &recordingSubmitter{block: make(chan struct{})}
	c := newController(t, sub)
	require.NoError(t, c.UpdateField("title", "before"))
	require.NoError(t, c.UpdateField("seats", 1))
	require.NoError(t, c.UpdateField("tags", Tags{"music"}))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return c.Phase() == PhaseSubmitting }, time.Second, time.Millisecond)
	assert.False(t, c.Next(), "navigation is disabled while submitting")

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)

	require.NoError(t, c.UpdateField("title", "after"))
	require.NoError(t, c.Update(func(f *signupForm) { f.Tags = f.Tags.Add("food") }, "tags"))

	close(sub.block)
	require.NoError(t, <-done)

	require.Len(t, sub.calls, 1)
	assert.Equal(t, "before", sub.calls[0].Title)
	assert.Equal(t, Tags{"music"}, sub.calls[0].Tags)
}

func TestController_DiscardDropsInFlightOutcome(t *testing.T) {
	sub := &recordingSubmitter{block: make(chan struct{})}
	c := newController(t, sub)
	require.NoError(t, c.UpdateField("title", "t"))
	require.NoError(t, c.UpdateField("seats", 1))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return c.Phase() == PhaseSubmitting }, time.Second, time.Millisecond)

	c.Discard()
	close(sub.block)
	require.NoError(t, <-done)

	assert.Equal(t, PhaseSubmitting, c.Phase())
	_, ok := c.Result()
	assert.False(t, ok)
	assert.ErrorIs(t, c.UpdateField("title", "x"), ErrDiscarded)
}

func TestController_SnapshotRestore(t *testing.T) {
	c := newController(t, &recordingSubmitter{})
	require.NoError(t, c.UpdateField("title", "t"))
	require.NoError(t, c.UpdateField("category", "c"))
	require.True(t, c.Next())
	c.ValidateAll()

	state := c.Snapshot()
	assert.Equal(t, 2, state.Step)
	assert.Equal(t, 3, state.TotalSteps)
	assert.Equal(t, "Seats", state.StepTitle)
	assert.False(t, state.StepValid)
	assert.False(t, state.CanGoNext)
	assert.True(t, state.CanGoBack)
	assert.Contains(t, state.Errors, "seats")

	raw, err := json.Marshal(state)
	require.NoError(t, err)
	var decoded State[signupForm]
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored := newController(t, &recordingSubmitter{})
	require.NoError(t, restored.Restore(decoded))
	assert.Equal(t, 2, restored.Step())
	assert.Equal(t, "t", restored.Form().Title)
	assert.Contains(t, restored.Errors(), "seats")

	decoded.Step = 9
	assert.ErrorIs(t, restored.Restore(decoded), ErrInvalidStep)
}
