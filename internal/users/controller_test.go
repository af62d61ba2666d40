package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/session"
)

type stubRepo struct {
	Repository
	users map[uuid.UUID]*User
}

func (s stubRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (s stubRepo) UpdateProfile(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if v, ok := fields["first_name"]; ok {
		u.FirstName = v.(string)
	}
	if v, ok := fields["last_name"]; ok {
		u.LastName = v.(string)
	}
	return u, nil
}

func asUser(id uuid.UUID) gin.HandlerFunc {
	return asSession(session.Session{UserID: id, Role: session.RoleUser})
}

func asSession(s session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		c.Next()
	}
}

func getMe(engine *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	return w
}

func TestGetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	known := &User{ID: uuid.New(), FirstName: "Sita", LastName: "Gurung", Email: "sita@example.com", Password: "hash", Role: RoleUser, IsDemo: true}
	repo := stubRepo{users: map[uuid.UUID]*User{known.ID: known}}

	engine := gin.New()
	SetupUserRoutes(engine.Group("/api/v1"), NewController(repo), asUser(known.ID))
	w := getMe(engine)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")

	var body struct {
		Data UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, known.ID.String(), body.Data.ID)
	assert.True(t, body.Data.IsDemo)

	engine = gin.New()
	SetupUserRoutes(engine.Group("/api/v1"), NewController(repo), asUser(uuid.New()))
	assert.Equal(t, http.StatusNotFound, getMe(engine).Code)

	engine = gin.New()
	SetupUserRoutes(engine.Group("/api/v1"), NewController(repo), func(c *gin.Context) { c.Next() })
	assert.Equal(t, http.StatusUnauthorized, getMe(engine).Code)
}

func putMe(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestUpdateMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	known := &User{ID: uuid.New(), FirstName: "Sita", LastName: "Gurung", Email: "sita@example.com", Role: RoleUser}
	repo := stubRepo{users: map[uuid.UUID]*User{known.ID: known}}

	engine := gin.New()
	SetupUserRoutes(engine.Group("/api/v1"), NewController(repo), asUser(known.ID))

	w := putMe(engine, `{"firstName":"  Sunita  "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Sunita", body.Data.FirstName)
	assert.Equal(t, "Gurung", body.Data.LastName)

	assert.Equal(t, http.StatusBadRequest, putMe(engine, `{"firstName":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, putMe(engine, `{"lastName":"X"}`).Code)
	assert.Equal(t, http.StatusBadRequest, putMe(engine, `{"lastName":"`+strings.Repeat("a", 101)+`"}`).Code)
	assert.Equal(t, http.StatusBadRequest, putMe(engine, `not json`).Code)
	assert.Equal(t, "Gurung", known.LastName)

	engine = gin.New()
	SetupUserRoutes(engine.Group("/api/v1"), NewController(repo), asUser(uuid.New()))
	assert.Equal(t, http.StatusNotFound, putMe(engine, `{"lastName":"Thapa"}`).Code)
}

func TestUpdateMe_DemoAccountsAreReadOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	demo := &User{ID: uuid.New(), FirstName: "Demo", LastName: "User", Role: RoleUser, IsDemo: true}
	repo := stubRepo{users: map[uuid.UUID]*User{demo.ID: demo}}

	engine := gin.New()
	SetupUserRoutes(engine.Group("/api/v1"), NewController(repo), asSession(demo.Session()))
	assert.Equal(t, http.StatusForbidden, putMe(engine, `{"firstName":"Hacker"}`).Code)
	assert.Equal(t, "Demo", demo.FirstName)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" admin "))
	assert.Equal(t, RoleUser, ParseRole("USER"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("root"))
}

func TestSessionFromUser(t *testing.T) {
	u := &User{ID: uuid.New(), Email: "a@b.c", Role: RoleAdmin, IsDemo: true}
	s := u.Session()
	assert.Equal(t, u.ID, s.UserID)
	assert.True(t, s.IsAdmin())
	assert.True(t, s.IsDemo)
}
