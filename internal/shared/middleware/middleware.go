package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"dhukuti/internal/shared/config"
	"dhukuti/internal/shared/session"
	"dhukuti/internal/shared/utils/response"
)

// Context keys kept for handlers that read the caller straight from gin.
const (
	ContextUserID  = "user_id"
	ContextEmail   = "user_email"
	ContextRole    = "user_role"
	ContextSession = "session"
)

var (
	errMissingHeader = errors.New("Authorization header is required")
	errHeaderFormat  = errors.New("authorization header format must be Bearer {token}")
	errInvalidToken  = errors.New("invalid or expired token")
	errTokenType     = errors.New("invalid token type")
)

// JWTAuthWithConfig requires a valid access token and stores the caller's session.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWT.Secret)
	return func(c *gin.Context) {
		s, err := sessionFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}
		attach(c, s)
		c.Next()
	}
}

// OptionalAuthWithConfig attaches a session when a valid token is present and continues either way.
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWT.Secret)
	return func(c *gin.Context) {
		if s, err := sessionFromHeader(c.GetHeader("Authorization"), secret); err == nil {
			attach(c, s)
		}
		c.Next()
	}
}

func sessionFromHeader(header string, secret []byte) (session.Session, error) {
	if header == "" {
		return session.Session{}, errMissingHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return session.Session{}, errHeaderFormat
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return session.Session{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session.Session{}, errInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return session.Session{}, errTokenType
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return session.Session{}, errInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	isDemo, _ := claims["is_demo"].(bool)

	return session.Session{
		UserID: userID,
		Email:  email,
		Role:   session.Role(role),
		IsDemo: isDemo,
	}, nil
}

func attach(c *gin.Context, s session.Session) {
	c.Set(ContextSession, s)
	c.Set(ContextUserID, s.UserID.String())
	c.Set(ContextEmail, s.Email)
	c.Set(ContextRole, string(s.Role))
	c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
}

// CurrentSession returns the caller's session, if any.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	return session.FromContext(c.Request.Context())
}

// RequireRoles allows the request through when the caller has one of roles.
func RequireRoles(roles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}
		for _, role := range roles {
			if s.Role == role {
				c.Next()
				return
			}
		}
		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(session.RoleAdmin)
}

// RejectDemo blocks demo accounts from write endpoints.
func RejectDemo() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, ok := CurrentSession(c); ok && s.IsDemo {
			response.RespondJSON(c, "error", http.StatusForbidden, "Demo accounts cannot perform this action", nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
