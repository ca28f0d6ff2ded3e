package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued admin token stays valid.
const TokenTTL = 4 * time.Hour

// Service verifies the configured admin identity and issues/validates the
// signed session tokens the admin panel uses. The password hash is computed
// once here at construction, never per request.
type Service struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService hashes the configured admin password and returns a ready
// verifier/issuer. email and password come from deployment configuration.
func NewService(email, password, secret string) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Service{
		email:  email,
		hash:   hash,
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// Verify reports whether the submitted credentials match the configured
// admin identity. Email comparison is case-sensitive.
func (s *Service) Verify(email, password string) bool {
	if email != s.email {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
}

// Issue creates a signed bearer token for the admin session.
func (s *Service) Issue() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"email": s.email,
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks signature and expiry and returns the decoded claims.
// Any failure (malformed, bad signature, expired) comes back as (nil, false);
// callers treat that as "unauthenticated", never as a fatal error.
func (s *Service) Validate(tokenString string) (jwt.MapClaims, bool) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}
