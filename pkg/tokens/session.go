package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "santu"

// SessionClaims binds a signed token to a server-side session row: Subject is
// the user id and ID (jti) is the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

func SignSession(userID, sessionID string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func SessionClaimsFromToken(tokenStr string, secret []byte) (*SessionClaims, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("session token missing subject or id")
	}
	return &claims, nil
}
