package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Subject string
	IsAdmin bool
}

// AccessTokenClaims represents the typed JWT issued to administrators.
type AccessTokenClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}
