package drafts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/session"
	"dhukuti/internal/wizard"
)

type noteForm struct {
	Title string      `json:"title" validate:"required"`
	Body  string      `json:"body" validate:"required,min=5"`
	Tags  wizard.Tags `json:"tags"`
}

func noteDefinition() *wizard.Definition[noteForm] {
	return &wizard.Definition[noteForm]{
		Name: "note",
		Steps: []wizard.Step[noteForm]{
			{Title: "Title", Valid: func(f noteForm) bool { return f.Title != "" }},
			{Title: "Body"},
		},
		Validate: func(f noteForm) wizard.FieldErrors {
			return wizard.ValidateStruct(f, wizard.Messages{"body": "Body must be at least 5 characters"})
		},
		Fields: map[string]wizard.FieldSetter[noteForm]{
			"title": wizard.Field(func(f *noteForm) *string { return &f.Title }),
			"body":  wizard.Field(func(f *noteForm) *string { return &f.Body }),
		},
		FailureMessage: "Failed to create note",
	}
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type fixture struct {
	engine    *gin.Engine
	mr        *miniredis.Miniredis
	submitted atomic.Int32
	failWith  error
	user      session.Session
}

// newFixture serves a two-step note wizard. wrap, when given, decorates the draft store.
func newFixture(t *testing.T, wrap ...func(Store) Store) *fixture {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &fixture{mr: mr, user: session.Session{UserID: uuid.New(), Email: "ram@dhukuti.app", Role: session.RoleUser}}
	store := NewRedisStore(client, time.Hour)
	for _, w := range wrap {
		store = w(store)
	}
	h := NewHandler(Config[noteForm]{
		Kind:       "notes",
		Definition: noteDefinition(),
		Initial:    func() noteForm { return noteForm{Tags: wizard.Tags{}} },
		Submitter: func(s session.Session) wizard.Submitter[noteForm] {
			return wizard.SubmitFunc[noteForm](func(context.Context, noteForm) (wizard.Result, error) {
				if f.failWith != nil {
					return wizard.Result{}, f.failWith
				}
				f.submitted.Add(1)
				return wizard.Result{ID: "n-1", Redirect: "/notes/n-1"}, nil
			})
		},
		Tags: func(form *noteForm) *wizard.Tags { return &form.Tags },
	}, store)

	auth := func(c *gin.Context) {
		s := f.user
		if c.GetHeader("X-Demo") == "1" {
			s.IsDemo = true
		}
		if other := c.GetHeader("X-User"); other != "" {
			s.UserID = uuid.MustParse(other)
		}
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		c.Next()
	}

	f.engine = gin.New()
	h.Register(f.engine.Group("/api/v1"), auth, nil)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, headers ...string) (int, envelope) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func draftOf(t *testing.T, env envelope) DraftResponse[noteForm] {
	var d DraftResponse[noteForm]
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func TestDraft_Lifecycle(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", "")
	require.Equal(t, http.StatusCreated, code)
	d := draftOf(t, env)
	assert.Equal(t, 1, d.Step)
	assert.Equal(t, 2, d.TotalSteps)
	assert.False(t, d.StepValid)
	base := "/api/v1/wizards/notes/" + d.DraftID

	code, env = f.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Current step is incomplete", env.Message)
	assert.Equal(t, 1, draftOf(t, env).Step)

	// Later keys win when a field repeats.
	code, env = f.do(t, http.MethodPatch, base+"/fields", `{"title":"first","title":"Shopping"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Shopping", draftOf(t, env).FormData.Title)

	code, env = f.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, draftOf(t, env).Step)

	code, env = f.do(t, http.MethodPost, base+"/tags", `{"action":"add","tag":" weekly "}`)
	require.Equal(t, http.StatusOK, code)
	f.do(t, http.MethodPost, base+"/tags", `{"action":"add","tag":"weekly"}`)
	code, env = f.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, wizard.Tags{"weekly"}, draftOf(t, env).FormData.Tags)

	code, env = f.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, code)
	var fieldErrs map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &fieldErrs))
	assert.Equal(t, "Body must be at least 5 characters", fieldErrs["body"])

	code, env = f.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, draftOf(t, env).Errors, "body")

	code, env = f.do(t, http.MethodPatch, base+"/fields", `{"body":"milk, eggs"}`)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, draftOf(t, env).Errors, "body")

	code, env = f.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusCreated, code)
	var res wizard.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "/notes/n-1", res.Redirect)
	assert.EqualValues(t, 1, f.submitted.Load())

	code, _ = f.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDraft_SubmissionFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", `{"title":"Trip","body":"Pack the tent"}`)
	base := "/api/v1/wizards/notes/" + draftOf(t, env).DraftID

	f.failWith = wizard.NewUserError("Title already taken", errors.New("conflict"))
	code, env := f.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Title already taken", env.Message)

	f.failWith = errors.New("connection reset")
	code, env = f.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Failed to create note", env.Message)

	code, env = f.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	d := draftOf(t, env)
	assert.Equal(t, wizard.PhaseEditing, d.Phase)
	assert.Equal(t, "Pack the tent", d.FormData.Body)
}

func TestDraft_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", "")
	base := "/api/v1/wizards/notes/" + draftOf(t, env).DraftID

	code, env := f.do(t, http.MethodPatch, base+"/fields", `{"colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Errors), "colour")

	code, _ = f.do(t, http.MethodPatch, base+"/fields", `{"title":42}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPatch, base+"/fields", `["title"]`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, base+"/tags", `{"action":"toggle","tag":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDraft_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", "")
	base := "/api/v1/wizards/notes/" + draftOf(t, env).DraftID

	code, _ := f.do(t, http.MethodGet, base, "", "X-User", uuid.NewString())
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodDelete, base, "", "X-User", uuid.NewString())
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDraft_DemoCannotSubmit(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", `{"title":"Trip","body":"Pack the tent"}`, "X-Demo", "1")
	base := "/api/v1/wizards/notes/" + draftOf(t, env).DraftID

	code, _ := f.do(t, http.MethodPost, base+"/submit", "", "X-Demo", "1")
	assert.Equal(t, http.StatusForbidden, code)
	assert.EqualValues(t, 0, f.submitted.Load())
}

func TestDraft_ConcurrentSubmitIsRejected(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", `{"title":"Trip","body":"Pack the tent"}`)
	id := draftOf(t, env).DraftID

	require.NoError(t, f.mr.Set("dhukuti:wizards:notes:"+f.user.UserID.String()+":"+id+":submitting", "1"))
	code, _ := f.do(t, http.MethodPost, "/api/v1/wizards/notes/"+id+"/submit", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.EqualValues(t, 0, f.submitted.Load())
}

// hookStore runs beforeAcquire once, ahead of the first AcquireSubmit.
type hookStore struct {
	Store
	beforeAcquire func()
}

func (s *hookStore) AcquireSubmit(ctx context.Context, kind string, owner uuid.UUID, draftID string) (bool, error) {
	if hook := s.beforeAcquire; hook != nil {
		s.beforeAcquire = nil
		hook()
	}
	return s.Store.AcquireSubmit(ctx, kind, owner, draftID)
}

func TestDraft_SubmitAfterAnotherSubmitCompletes(t *testing.T) {
	hooks := &hookStore{}
	f := newFixture(t, func(s Store) Store {
		hooks.Store = s
		return hooks
	})
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", `{"title":"Trip","body":"Pack the tent"}`)
	submit := "/api/v1/wizards/notes/" + draftOf(t, env).DraftID + "/submit"

	// The first request stalls before locking while a second one submits the draft in full.
	var inner int
	hooks.beforeAcquire = func() {
		inner, _ = f.do(t, http.MethodPost, submit, "")
	}
	outer, _ := f.do(t, http.MethodPost, submit, "")

	assert.Equal(t, http.StatusCreated, inner)
	assert.Equal(t, http.StatusNotFound, outer)
	assert.EqualValues(t, 1, f.submitted.Load())
}

func TestDraft_ExpiresWithTTL(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/api/v1/wizards/notes", "")
	base := "/api/v1/wizards/notes/" + draftOf(t, env).DraftID

	f.mr.FastForward(2 * time.Hour)
	code, _ := f.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrderedFields(t *testing.T) {
	got, err := orderedFields([]byte(`{"b":1,"a":{"x":[1,2]},"c":"s"}`))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.JSONEq(t, `{"x":[1,2]}`, string(got[1].Value))

	_, err = orderedFields([]byte(`{"a":}`))
	assert.ErrorIs(t, err, errNotObject)
}
