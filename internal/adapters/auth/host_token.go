package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"guestlist/internal/domain"
)

type hostJWTClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type hostTokenVerifier struct {
	secret []byte
}

// NewHostTokenVerifier returns a HostTokenVerifier that validates HS256
// bearer tokens for host endpoints and extracts the host ID.
func NewHostTokenVerifier(secret string) (domain.HostTokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: host token secret is not set", domain.ErrConfiguration)
	}
	return &hostTokenVerifier{secret: []byte(secret)}, nil
}

func (v *hostTokenVerifier) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &hostJWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid host token")
	}
	claims, ok := parsed.Claims.(*hostJWTClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("invalid host token claims")
	}
	return claims.Subject, nil
}

// IssueHostToken signs a short-lived host bearer token. Used by tooling and
// tests; production hosts get tokens from the account collaborator.
func IssueHostToken(secret, hostID, email string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := hostJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   hostID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign host token: %w", err)
	}
	return signed, nil
}
