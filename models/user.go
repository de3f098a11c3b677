package models

import "time"

// User represents a registered account.
// Password is stored hashed (bcrypt); never returned in JSON responses.
type User struct {
	ID                int        `json:"id" db:"id"`
	Username          string     `json:"name" db:"username"`
	Email             string     `json:"email" db:"email"`
	Password          string     `json:"-" db:"password"`
	PreferredLanguage string     `json:"preferred_language" db:"preferred_language"`
	Token             *string    `json:"-" db:"user_tokens"` // Current session token; a new login replaces it
	TokenIssuedAt     *time.Time `json:"-" db:"token_issued_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// RegisterRequest represents the POST /register body
type RegisterRequest struct {
	Username          string `json:"username" validate:"required"`
	Email             string `json:"email" validate:"required"`
	Password          string `json:"password" validate:"required"` // Plaintext; hashed by the account service
	PreferredLanguage string `json:"preferred_language,omitempty"` // Default: "en"
}

// LoginRequest represents the POST /login body
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the POST /forgot_password body.
// Password is the new password.
type ForgotPasswordRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the freshly issued bearer token
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// MeResponse is the GET /me payload
type MeResponse struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	PreferredLanguage string `json:"preferred_language"`
}

// Me builds the profile payload for u.
func (u *User) Me() MeResponse {
	return MeResponse{
		ID:                u.ID,
		Name:              u.Username,
		Email:             u.Email,
		PreferredLanguage: u.PreferredLanguage,
	}
}
