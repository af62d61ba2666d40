// Package session carries the authenticated caller through a request.
package session

import (
	"context"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Session is a read-only view of the caller. It is passed by value.
type Session struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	IsDemo bool      `json:"isDemo"`
}

func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx and whether there was one.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
