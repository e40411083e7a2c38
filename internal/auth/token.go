package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer issues and validates bearer tokens.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
	Validate(token string) (uint, bool)
}

// TokenService signs access tokens with a shared secret.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService for one of HS256, HS384 or HS512.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source. Used by tests to move past expiry.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue creates a token whose subject is the decimal user id.
func (s *TokenService) Issue(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate returns the subject of a well-formed, correctly signed, unexpired token.
func (s *TokenService) Validate(token string) (uint, bool) {
	if token == "" {
		return 0, false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return 0, false
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
