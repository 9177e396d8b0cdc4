package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so responses never reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Store interface {
	store.AccountStore
	store.SessionStore
	store.ProfileStore
}

// Service manages accounts and bearer sessions. Tokens are opaque
// rows in the store; revoking one is deleting it.
type Service struct {
	store  Store
	logger *logrus.Logger
}

func NewService(st Store, logger *logrus.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// SignUp creates the account, its profile and a first session. The
// email must be unused; store.ErrDuplicateEmail is passed through.
func (s *Service) SignUp(ctx context.Context, email, password, businessName, fullName string) (*store.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &store.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	profile := &models.Profile{
		OwnerID:      account.ID,
		Email:        email,
		BusinessName: businessName,
		FullName:     fullName,
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		// Without the profile the account is unusable, and leaving it
		// would block the email on every retry.
		if delErr := s.store.DeleteAccount(ctx, account.ID); delErr != nil {
			s.logger.WithError(delErr).WithField("owner_id", account.ID).
				Error("Failed to remove account after profile creation failure")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"owner_id": account.ID,
		"email":    email,
	}).Info("Account created")

	return s.newSession(ctx, account.ID)
}

// SignIn verifies the credentials and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*store.Session, error) {
	account, err := s.store.GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithField("owner_id", account.ID).Info("Signed in")
	return s.newSession(ctx, account.ID)
}

// SignOut revokes the presented token. Revoking an unknown token is
// not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

func (s *Service) newSession(ctx context.Context, ownerID string) (*store.Session, error) {
	session := &store.Session{
		Token:     uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
