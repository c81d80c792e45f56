package usecase

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/internal/httperr"
)

// ParseIdentity extracts the caller identity from a JWT WITHOUT verifying its
// signature. Trust boundary: the reverse-proxy in front of this service has
// already validated the token; this adapter only reads claims and must never
// grow authorization logic beyond identity extraction.
func ParseIdentity(token string) (*domain.Identity, error) {
	raw := strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = strings.TrimSpace(raw[len("bearer "):])
	}
	if raw == "" {
		return nil, httperr.ErrUnauthenticated
	}

	if len(strings.Split(raw, ".")) != 3 {
		return nil, httperr.ErrMalformedToken
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", httperr.ErrMalformedToken, err)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, fmt.Errorf("%w: sub and email are required", httperr.ErrInvalidClaims)
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = email
	}

	return &domain.Identity{
		Sub:   sub,
		Email: email,
		Name:  name,
		Token: raw,
	}, nil
}
