package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

type GoogleClaims struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier validates a Google ID token against an expected audience.
// A func type so services can inject a fake in tests.
type GoogleVerifier func(ctx context.Context, tokenString string) (*GoogleClaims, error)

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return func(ctx context.Context, tokenString string) (*GoogleClaims, error) {
		return VerifyGoogleIDToken(ctx, tokenString, clientID)
	}
}

func VerifyGoogleIDToken(ctx context.Context, tokenString, expectedAud string) (*GoogleClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("missing id token")
	}
	if strings.TrimSpace(expectedAud) == "" {
		return nil, errors.New("missing google client id")
	}

	payload, err := idtoken.Validate(ctx, tokenString, expectedAud)
	if err != nil {
		return nil, err
	}
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer: %s", payload.Issuer)
	}

	email := ""
	if raw, ok := payload.Claims["email"]; ok {
		if v, ok := raw.(string); ok {
			email = v
		}
	}
	name := ""
	if raw, ok := payload.Claims["name"]; ok {
		if v, ok := raw.(string); ok {
			name = v
		}
	}

	return &GoogleClaims{
		Subject: payload.Subject,
		Email:   strings.TrimSpace(strings.ToLower(email)),
		Name:    strings.TrimSpace(name),
	}, nil
}
