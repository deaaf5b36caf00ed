package types

import (
	"github.com/google/uuid"
)

// TokenClaims represents the identity carried by a bearer token
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
