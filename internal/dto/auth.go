package dto

import "time"

// TokenRequest exchanges the administrator access key for a bearer token.
type TokenRequest struct {
	Key string `json:"key" validate:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
}
