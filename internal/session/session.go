// Package session verifies bearer credentials issued by the external
// identity provider. The application consumes identity only: whether a user
// is logged in and what their id is. Credential issuance lives with the
// provider, not here.
package session

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/cardbook/internal/errors"
)

// Session is the verified identity of a request.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// Provider verifies bearer tokens into sessions.
type Provider interface {
	Verify(token string) (*Session, error)
}

// claims is the accepted token payload: a registered subject carrying the
// user id, plus the provider's email claim.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// jwtProvider implements Provider over HS256-signed JWTs.
type jwtProvider struct {
	secret []byte
}

// NewJWTProvider creates a Provider verifying HS256 tokens signed with
// secret.
func NewJWTProvider(secret string) Provider {
	return &jwtProvider{secret: []byte(secret)}
}

// Verify parses and validates a token, returning the session it carries.
// Expired, unsigned, or foreign-algorithm tokens are rejected as
// unauthorized.
func (p *jwtProvider) Verify(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Wrapf(apperrors.ErrUnauthorized, "unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrUnauthorized, "invalid session token: %v", err)
	}

	payload, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid session token")
	}

	userID, err := uuid.Parse(payload.Subject)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "session token subject is not a user id")
	}

	return &Session{UserID: userID, Email: payload.Email}, nil
}
