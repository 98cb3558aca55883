package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsTokenValid reports whether token decodes as a JWT whose expiry lies
// strictly in the future. The signature is deliberately not verified; only the
// backend holds the key, the client just needs the expiry claim. Malformed
// tokens and tokens without an exp claim count as invalid.
func IsTokenValid(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now())
}
