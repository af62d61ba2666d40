package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/shared/session"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"not null;default:'USER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	IsDemo    bool      `json:"isDemo" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ParseRole upper-cases role and falls back to RoleUser for anything unknown.
func ParseRole(role string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(role))); r {
	case RoleUser, RoleAdmin:
		return r
	default:
		return RoleUser
	}
}

func (u *User) Session() session.Session {
	return session.Session{
		UserID: u.ID,
		Email:  u.Email,
		Role:   session.Role(u.Role),
		IsDemo: u.IsDemo,
	}
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		IsDemo:    u.IsDemo,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsDemo    bool      `json:"isDemo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
