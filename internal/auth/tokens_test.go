package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)

	signed, err := codec.Mint(42)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	userID, err := codec.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestTokenExpired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour).
		WithNow(func() time.Time { return issued })

	signed, err := codec.Mint(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	codec.WithNow(func() time.Time { return issued.Add(2 * time.Hour) })
	if _, err := codec.Parse(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	a := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	b := NewTokenCodec([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)

	signed, err := a.Mint(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := b.Parse(signed); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestTokenGarbage(t *testing.T) {
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if _, err := codec.Parse("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}
