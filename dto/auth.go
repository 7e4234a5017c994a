package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskboard-simple/models"
)

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest represents login credentials submitted by the login form
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Username        string `form:"username" validate:"required,min=3,max=150"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Name            string `form:"name" validate:"max=150"`
	Password        string `form:"password" validate:"required,min=6"`
	PasswordConfirm string `form:"password_confirm" validate:"eqfield=Password"`
}

// AuthResponse represents the result of a successful login
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
