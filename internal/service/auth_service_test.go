package service

import (
	"context"
	"testing"
	"time"

	"fitstudio/server/internal/domain"
)

func TestRegisterDefaultsToStudent(t *testing.T) {
	f := newFixture(t)
	u, err := f.auth.Register(context.Background(), RegisterInput{Username: "ana@x.com", Password: "pw", Name: "Ana"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != domain.RoleStudent {
		t.Fatalf("role = %q, want student", u.Role)
	}
	if u.PasswordHash != "" {
		t.Fatal("password hash leaked")
	}
	if !u.JoinDate.Equal(t0) {
		t.Fatalf("joinDate = %v, want %v", u.JoinDate, t0)
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dani@x.com", domain.RoleTrainer)

	_, err := f.auth.Register(context.Background(), RegisterInput{Username: "dani@x.com", Password: "pw", Name: "Other"})
	wantErr(t, err, ErrUsernameTaken)
	wantErr(t, err, domain.ErrConflict)

	// Matching is case-sensitive.
	if _, err := f.auth.Register(context.Background(), RegisterInput{Username: "Dani@x.com", Password: "pw", Name: "Other"}); err != nil {
		t.Fatalf("case variant should register: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	cases := []RegisterInput{
		{Password: "pw", Name: "n"},
		{Username: "u", Name: "n"},
		{Username: "u", Password: "pw"},
		{Username: "u", Password: "pw", Name: "n", Role: "admin"},
	}
	for _, in := range cases {
		_, err := f.auth.Register(context.Background(), in)
		wantErr(t, err, domain.ErrValidation)
	}
}

func TestLoginAndParseToken(t *testing.T) {
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)

	token, user, err := f.auth.Login(context.Background(), "dani@x.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != dani.ID || user.PasswordHash != "" {
		t.Fatalf("unexpected user %+v", user)
	}

	actor, err := f.auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if actor != dani {
		t.Fatalf("actor = %+v, want %+v", actor, dani)
	}

	f.advance(time.Hour + time.Second)
	_, err = f.auth.ParseToken(token)
	wantErr(t, err, ErrInvalidToken)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dani@x.com", domain.RoleTrainer)

	_, _, err := f.auth.Login(context.Background(), "dani@x.com", "wrong")
	wantErr(t, err, ErrAuthenticationFailed)
	_, _, err = f.auth.Login(context.Background(), "nobody@x.com", "secret123")
	wantErr(t, err, ErrAuthenticationFailed)
	wantErr(t, err, domain.ErrUnauthenticated)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dani@x.com", domain.RoleTrainer)
	other := NewAuthService(f.store, TokenConfig{Secret: "another-secret"}, Clock(f.clock), nil)

	token, _, err := other.Login(context.Background(), "dani@x.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, err = f.auth.ParseToken(token)
	wantErr(t, err, ErrInvalidToken)

	_, err = f.auth.ParseToken("not-a-token")
	wantErr(t, err, ErrInvalidToken)
}
