package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/config"
	"dhukuti/internal/shared/session"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		s, ok := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "session": s})
	})
	engine.GET("/me", handlers...)
	return engine
}

func do(engine *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	userID := uuid.New()
	valid := signToken(t, jwt.MapClaims{
		"user_id": userID.String(),
		"email":   "sita@example.com",
		"role":    "USER",
		"is_demo": true,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	refresh := signToken(t, jwt.MapClaims{
		"user_id": userID.String(),
		"type":    "refresh",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.MapClaims{
		"user_id": userID.String(),
		"type":    "access",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	engine := newEngine(JWTAuthWithConfig(testConfig()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := do(engine, "Bearer "+valid)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"isDemo":true`)
}

func TestOptionalAuth(t *testing.T) {
	engine := newEngine(OptionalAuthWithConfig(testConfig()))

	w := do(engine, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestRequireAdminAndRejectDemo(t *testing.T) {
	cfg := testConfig()
	user := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    string(session.RoleUser),
		"is_demo": true,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	admin := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    string(session.RoleAdmin),
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	adminOnly := newEngine(JWTAuthWithConfig(cfg), RequireAdmin())
	assert.Equal(t, http.StatusForbidden, do(adminOnly, "Bearer "+user).Code)
	assert.Equal(t, http.StatusOK, do(adminOnly, "Bearer "+admin).Code)

	noDemo := newEngine(JWTAuthWithConfig(cfg), RejectDemo())
	assert.Equal(t, http.StatusForbidden, do(noDemo, "Bearer "+user).Code)
	assert.Equal(t, http.StatusOK, do(noDemo, "Bearer "+admin).Code)
}
