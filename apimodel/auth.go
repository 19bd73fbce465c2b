package apimodel

import "github.com/jrsteele09/go-jobportal-client/users"

// LoginRequest is the body of POST /users/login and POST /login-hr
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /users/signup and POST /signup-hr
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned from login and signup.
// Usage: AccessToken goes in "Authorization: Bearer <accessToken>", RefreshToken is
// only ever sent to /users/refresh-token and /users/logout.
type AuthResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *users.User `json:"user"`
	Message      string      `json:"message,omitempty"` // Signup only, e.g. "check your inbox"
}

// RefreshTokenRequest is the body of POST /users/refresh-token and POST /users/logout
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenResponse carries the rotated pair. RefreshToken may be empty when the
// backend does not rotate; the previous refresh token stays valid in that case.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// EmailRequest is the body of forgot-password and resend-verification
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /users/reset-password/:token
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /users/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MessageResponse is the generic success payload of the pass-through auth endpoints
type MessageResponse struct {
	Message string `json:"message"`
}
