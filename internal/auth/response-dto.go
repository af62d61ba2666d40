package auth

import "dhukuti/internal/users"

type AuthResponse struct {
	User users.UserResponse `json:"user"`
	TokenPair
}
