package models

// LoginRequest represents a dashboard login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  *SessionInfo `json:"user"`
}

// SessionInfo represents the authenticated user in responses
type SessionInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}
