package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is the only failure VerifySession reports.  Bad
	// signatures, expiry and malformed input are deliberately collapsed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when a TokenService is built without a key.
	ErrMissingSecret = errors.New("token signing secret is empty")
)

// SessionToken is a signed JWT together with its expiry.  The expiry is
// reused for the session cookie so both share one lifetime.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// sessionClaims carries only the registered claims; the subject is the hex
// ObjectID of the user.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens.  The secret is loaded
// once at startup and never changes afterwards.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService.  An empty secret is a configuration
// error.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// TTL returns the session validity window.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// IssueSession signs an HS256 token for userID.
func (s *TokenService) IssueSession(userID string) (SessionToken, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySession checks signature, expiry and issuer and returns the subject.
func (s *TokenService) VerifySession(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
