package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles a token may carry.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}
