package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTIssuer         = "inkwell"
	JWTExpirationTime = time.Hour * 24
)

// UserClaims carries the identity every authenticated request resolves to.
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
