package auth

import "github.com/golang-jwt/jwt/v4"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	issuer = "dhukuti"
)

// JWTClaims is the token payload. Field names match what the auth middleware reads.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	IsDemo bool   `json:"is_demo"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}
