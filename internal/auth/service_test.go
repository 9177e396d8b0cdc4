package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSignUpSignInSignOut(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, testLogger())
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "dana@bakery.co.il", "secret123", "Dana's Desserts", "Dana Levi")
	if err != nil {
		t.Fatal(err)
	}
	if session.Token == "" || session.OwnerID == "" {
		t.Fatal("expected a token and owner id")
	}

	// Sign-up creates the profile alongside the account.
	profile, err := mem.GetProfile(ctx, session.OwnerID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.BusinessName != "Dana's Desserts" {
		t.Errorf("business name = %q", profile.BusinessName)
	}
	if profile.Preferences.Language != "en" {
		t.Errorf("default language = %q, want en", profile.Preferences.Language)
	}

	signin, err := svc.SignIn(ctx, "dana@bakery.co.il", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if signin.OwnerID != session.OwnerID {
		t.Error("sign-in resolved a different owner")
	}
	if signin.Token == session.Token {
		t.Error("each sign-in should mint a fresh token")
	}

	if err := svc.SignOut(ctx, signin.Token); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.GetSession(ctx, signin.Token); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("session should be revoked, got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, testLogger())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "dana@bakery.co.il", "secret123", "Dana's Desserts", "Dana Levi"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.SignUp(ctx, "dana@bakery.co.il", "other456", "Other Biz", "Other Name")
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

type flakyProfileStore struct {
	*store.Memory
	failProfile bool
}

func (f *flakyProfileStore) CreateProfile(ctx context.Context, p *models.Profile) error {
	if f.failProfile {
		f.failProfile = false
		return errors.New("profile insert failed")
	}
	return f.Memory.CreateProfile(ctx, p)
}

func TestSignUpRemovesAccountWhenProfileFails(t *testing.T) {
	st := &flakyProfileStore{Memory: store.NewMemory(), failProfile: true}
	svc := NewService(st, testLogger())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "dana@bakery.co.il", "secret123", "Dana's Desserts", "Dana Levi"); err == nil {
		t.Fatal("expected sign-up to fail")
	}
	if _, err := st.GetAccountByEmail(ctx, "dana@bakery.co.il"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("account should be removed, got %v", err)
	}

	// The email is free to use again.
	session, err := svc.SignUp(ctx, "dana@bakery.co.il", "secret123", "Dana's Desserts", "Dana Levi")
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if _, err := st.GetProfile(ctx, session.OwnerID); err != nil {
		t.Errorf("profile should exist after retry: %v", err)
	}
}

func TestSignInBadCredentials(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, testLogger())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "dana@bakery.co.il", "secret123", "Dana's Desserts", "Dana Levi"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SignIn(ctx, "dana@bakery.co.il", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@bakery.co.il", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
