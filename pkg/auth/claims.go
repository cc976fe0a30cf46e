package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Region string
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by shoppers.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Region string    `json:"region,omitempty"`
	jwt.RegisteredClaims
}
