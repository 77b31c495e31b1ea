package httpx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the minimal identity the surrounding application encodes
// into a session token: who the caller is and what role they hold. The
// engine never mints login sessions itself; it only reads these.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidSessionToken = errors.New("httpx: invalid session token")

// SignSessionToken mints an HS256 session token for userID/role. Exposed for
// the host application's login flow and for tests.
func SignSessionToken(secret []byte, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifySessionToken parses and validates a session token, returning its claims.
func VerifySessionToken(secret []byte, raw string) (SessionClaims, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.Subject == "" {
		return SessionClaims{}, ErrInvalidSessionToken
	}
	return claims, nil
}
