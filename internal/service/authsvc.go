package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"StudyLeaderwebserver/internal/auth"
	"StudyLeaderwebserver/internal/domain"
)

type AuthService struct {
	Users  UsersStore
	Verify auth.GoogleVerifier
	Tokens *auth.TokenCodec
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Signup verifies a Google ID token and creates an account for its
// subject. The chosen username must be free; when no display name is
// given the Google profile name is used. New accounts are public.
func (s *AuthService) Signup(ctx context.Context, idToken, username, displayName string) (domain.User, string, error) {
	claims, err := s.Verify(ctx, idToken)
	if err != nil {
		return domain.User{}, "", domain.ErrInvalidIDToken
	}

	username = strings.TrimSpace(username)
	if !ValidUsername(username) {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"username": "must be 3-32 chars of letters, numbers and underscores"})
	}

	if _, err := s.Users.GetUserByGoogleSub(ctx, claims.Subject); err == nil {
		return domain.User{}, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.TrimSpace(claims.Name)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	u, err := s.Users.CreateUser(ctx, domain.User{
		Email:        email,
		EmailDomain:  emailDomain(email),
		GoogleSub:    claims.Subject,
		DisplayName:  displayName,
		Username:     username,
		Timezone:     "UTC",
		PrivacyOptIn: true,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Mint(u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

// Login verifies a Google ID token and issues an access token for the
// matching account.
func (s *AuthService) Login(ctx context.Context, idToken string) (domain.User, string, error) {
	claims, err := s.Verify(ctx, idToken)
	if err != nil {
		return domain.User{}, "", domain.ErrInvalidIDToken
	}

	u, err := s.Users.GetUserByGoogleSub(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrNotFound
		}
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Mint(u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

// CheckUsername reports whether a username is well-formed and unclaimed.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if !ValidUsername(username) {
		return false, domain.NewValidationError(map[string]string{"username": "must be 3-32 chars of letters, numbers and underscores"})
	}
	_, err := s.Users.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// GetUserForToken resolves a bearer token to its user.
func (s *AuthService) GetUserForToken(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.Tokens.Parse(token)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return u, nil
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}

