package auth

import (
	"github.com/aurylabs/aury-backend/internal/stores"
	"github.com/aurylabs/aury-backend/internal/users"
)

// LoginRequest carries dashboard sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the data the client needs to
// route: a nil Store sends the user to store setup instead of the dashboard.
type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *users.UserDTO   `json:"user"`
	Store        *stores.StoreDTO `json:"store"`
}

// SessionResponse is the introspection payload for an authenticated user.
type SessionResponse struct {
	User  *users.UserDTO   `json:"user"`
	Store *stores.StoreDTO `json:"store"`
}
