package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"StudyLeaderwebserver/internal/auth"
	"StudyLeaderwebserver/internal/domain"
)

func fakeVerifier(claims *auth.GoogleClaims, err error) auth.GoogleVerifier {
	return func(ctx context.Context, tokenString string) (*auth.GoogleClaims, error) {
		return claims, err
	}
}

func authFixture(verify auth.GoogleVerifier) (*AuthService, *stubUsers) {
	users := &stubUsers{
		byID:       map[int64]domain.User{},
		byUsername: map[string]domain.User{},
		byGoogle:   map[string]domain.User{},
	}
	return &AuthService{
		Users:  users,
		Verify: verify,
		Tokens: auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour),
	}, users
}

func TestSignupCreatesUserAndToken(t *testing.T) {
	svc, users := authFixture(fakeVerifier(&auth.GoogleClaims{
		Subject: "goog-123",
		Email:   "Alice@Example.EDU",
		Name:    "Alice L",
	}, nil))

	u, token, err := svc.Signup(context.Background(), "id-token", "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if users.created == nil {
		t.Fatal("expected store create")
	}
	if users.created.Email != "alice@example.edu" {
		t.Fatalf("email = %q, want lowercased", users.created.Email)
	}
	if users.created.EmailDomain != "example.edu" {
		t.Fatalf("email domain = %q, want example.edu", users.created.EmailDomain)
	}
	if users.created.GoogleSub != "goog-123" {
		t.Fatalf("google sub = %q", users.created.GoogleSub)
	}
	if users.created.DisplayName != "Alice L" {
		t.Fatalf("display name = %q, want Google profile fallback", users.created.DisplayName)
	}
	if !users.created.PrivacyOptIn {
		t.Fatal("new accounts should be public")
	}
	if u.Username != "alice" {
		t.Fatalf("username = %q, want alice", u.Username)
	}

	id, err := svc.Tokens.Parse(token)
	if err != nil || id != u.ID {
		t.Fatalf("token resolves to (%d, %v), want user %d", id, err, u.ID)
	}
}

func TestSignupChosenDisplayNameWins(t *testing.T) {
	svc, users := authFixture(fakeVerifier(&auth.GoogleClaims{
		Subject: "goog-123",
		Email:   "alice@example.edu",
		Name:    "Alice L",
	}, nil))

	_, _, err := svc.Signup(context.Background(), "id-token", "alice", "  Allie  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.created.DisplayName != "Allie" {
		t.Fatalf("display name = %q, want trimmed Allie", users.created.DisplayName)
	}
}

func TestSignupBadIDToken(t *testing.T) {
	svc, _ := authFixture(fakeVerifier(nil, errors.New("bad audience")))
	_, _, err := svc.Signup(context.Background(), "id-token", "alice", "")
	if !errors.Is(err, domain.ErrInvalidIDToken) {
		t.Fatalf("expected ErrInvalidIDToken, got %v", err)
	}
}

func TestSignupBadUsername(t *testing.T) {
	svc, _ := authFixture(fakeVerifier(&auth.GoogleClaims{Subject: "goog-123"}, nil))
	_, _, err := svc.Signup(context.Background(), "id-token", "a!", "")
	expectValidation(t, err)
}

func TestSignupExistingAccount(t *testing.T) {
	svc, users := authFixture(fakeVerifier(&auth.GoogleClaims{Subject: "goog-123", Email: "a@b.edu"}, nil))
	users.byGoogle["goog-123"] = domain.User{ID: 7, GoogleSub: "goog-123"}

	_, _, err := svc.Signup(context.Background(), "id-token", "alice", "")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, users := authFixture(fakeVerifier(&auth.GoogleClaims{Subject: "goog-123"}, nil))
	users.byGoogle["goog-123"] = domain.User{ID: 7, Username: "alice", GoogleSub: "goog-123"}

	u, token, err := svc.Login(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 {
		t.Fatalf("user = %d, want 7", u.ID)
	}
	id, err := svc.Tokens.Parse(token)
	if err != nil || id != 7 {
		t.Fatalf("token resolves to (%d, %v), want 7", id, err)
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	svc, _ := authFixture(fakeVerifier(&auth.GoogleClaims{Subject: "goog-999"}, nil))
	_, _, err := svc.Login(context.Background(), "id-token")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckUsername(t *testing.T) {
	svc, users := authFixture(fakeVerifier(nil, nil))
	users.byUsername["taken"] = domain.User{ID: 1, Username: "taken"}

	free, err := svc.CheckUsername(context.Background(), "open_name")
	if err != nil || !free {
		t.Fatalf("open_name: got (%v, %v), want free", free, err)
	}
	free, err = svc.CheckUsername(context.Background(), "taken")
	if err != nil || free {
		t.Fatalf("taken: got (%v, %v), want taken", free, err)
	}
	_, err = svc.CheckUsername(context.Background(), "x")
	expectValidation(t, err)
}

func TestGetUserForToken(t *testing.T) {
	svc, users := authFixture(fakeVerifier(nil, nil))
	users.byID[7] = domain.User{ID: 7, Username: "alice"}

	token, err := svc.Tokens.Mint(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	u, err := svc.GetUserForToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 {
		t.Fatalf("user = %d, want 7", u.ID)
	}
}

func TestGetUserForTokenGarbage(t *testing.T) {
	svc, _ := authFixture(fakeVerifier(nil, nil))
	_, err := svc.GetUserForToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetUserForTokenDeletedUser(t *testing.T) {
	svc, _ := authFixture(fakeVerifier(nil, nil))
	token, err := svc.Tokens.Mint(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := svc.GetUserForToken(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
