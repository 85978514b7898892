package authn

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by a session token. The subject is the
// identity ID; SessionID points at the server-side session record, so a
// signed token alone is not enough once the session has been revoked.
type Claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IdentityID returns the identity UUID from the claims, or uuid.Nil if the
// subject is malformed.
func (c *Claims) IdentityID() uuid.UUID {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// TokenCodec signs and verifies session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec signing HS256 tokens with the given secret.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given session.
func (tc *TokenCodec) Issue(s *Session) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: s.ID.String(),
		Email:     s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.IdentityID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify parses and validates a token string.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return tc.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.SessionID == "" || claims.IdentityID() == uuid.Nil {
		return nil, errors.New("token is missing session or identity claims")
	}

	return claims, nil
}
