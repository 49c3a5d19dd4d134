package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"guestlist/internal/domain"
)

type offerJWTClaims struct {
	jwt.RegisteredClaims
	OfferID     string             `json:"offer_id"`
	EventID     string             `json:"event_id"`
	RSVPID      string             `json:"rsvp_id"`
	Email       string             `json:"email"`
	Type        string             `json:"type"`
	RSVPDetails domain.RSVPDetails `json:"rsvp_details"`
}

type offerSigner struct {
	secret []byte
	now    func() time.Time
}

// NewOfferSigner returns an OfferSigner that signs waitlist offer tokens
// with HS256 using the given secret. The secret is resolved once at process
// start and passed in; an empty secret is a configuration error.
func NewOfferSigner(secret string) (domain.OfferSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: offer signing secret is not set", domain.ErrConfiguration)
	}
	return &offerSigner{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues the token. Numeric date claims carry jwt.TimePrecision (whole
// seconds), so a sub-second ExpiresAt is truncated; callers that surface the
// expiry elsewhere should pass a whole-second instant.
func (s *offerSigner) Sign(claims domain.OfferClaims) (string, error) {
	if claims.Type == "" {
		claims.Type = domain.OfferType
	}
	now := s.now()
	jc := offerJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.OfferID,
			Subject:   claims.RSVPID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		OfferID:     claims.OfferID,
		EventID:     claims.EventID,
		RSVPID:      claims.RSVPID,
		Email:       claims.Email,
		Type:        claims.Type,
		RSVPDetails: claims.RSVPDetails,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign offer token: %w", err)
	}
	return tokenString, nil
}

func (s *offerSigner) Verify(tokenString string) (*domain.OfferClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &offerJWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrOfferExpired
		}
		return nil, domain.ErrInvalidOffer
	}
	claims, ok := parsed.Claims.(*offerJWTClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidOffer
	}
	if claims.Type != domain.OfferType {
		return nil, domain.ErrInvalidOffer
	}
	if claims.OfferID == "" || claims.EventID == "" || claims.RSVPID == "" {
		return nil, domain.ErrInvalidOffer
	}
	return &domain.OfferClaims{
		OfferID:     claims.OfferID,
		EventID:     claims.EventID,
		RSVPID:      claims.RSVPID,
		Email:       claims.Email,
		Type:        claims.Type,
		RSVPDetails: claims.RSVPDetails,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
