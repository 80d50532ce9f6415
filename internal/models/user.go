package models

// User represents a row of the users table owned by the leasing platform.
// The gateway only ever reads it.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // bcrypt hash (never in JSON)
}

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
}
