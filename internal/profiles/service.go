package profiles

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/bucket"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
)

// ErrBucketUnavailable is returned when a logo upload is attempted
// with no object-storage service configured.
var ErrBucketUnavailable = errors.New("object storage is not configured")

var timeNow = time.Now

// Store is the slice of persistence the settings screens need,
// including the owner-wide deletes behind account removal.
type Store interface {
	store.ProfileStore
	store.AccountStore
	store.SessionStore
	DeleteOrdersByOwner(ctx context.Context, ownerID string) error
	DeleteClientsByOwner(ctx context.Context, ownerID string) error
}

type Service struct {
	store  Store
	bucket *bucket.Client
	logger *logrus.Logger
}

func NewService(st Store, logger *logrus.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// SetBucket wires the logo storage client; without it uploads fail
// with ErrBucketUnavailable.
func (s *Service) SetBucket(b *bucket.Client) {
	s.bucket = b
}

func (s *Service) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	return s.store.GetProfile(ctx, ownerID)
}

type InfoDraft struct {
	BusinessName string `json:"business_name"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone,omitempty"`
}

// UpdateInfo rewrites the business-facing profile fields.
func (s *Service) UpdateInfo(ctx context.Context, ownerID string, draft *InfoDraft) (*models.Profile, error) {
	errs := models.ValidationErrors{}
	if strings.TrimSpace(draft.BusinessName) == "" {
		errs["business_name"] = "Business name is required"
	}
	if strings.TrimSpace(draft.FullName) == "" {
		errs["full_name"] = "Full name is required"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	profile, err := s.store.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	profile.BusinessName = draft.BusinessName
	profile.FullName = draft.FullName
	profile.Phone = draft.Phone
	return s.save(ctx, profile)
}

// UpdatePreferences rewrites the preferences blob.
func (s *Service) UpdatePreferences(ctx context.Context, ownerID string, prefs models.Preferences) (*models.Profile, error) {
	if strings.TrimSpace(prefs.Language) == "" {
		return nil, models.ValidationErrors{"language": "Please select a language"}
	}

	profile, err := s.store.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	profile.Preferences = prefs
	return s.save(ctx, profile)
}

// UploadLogo stores the logo under the owner's path in the bucket and
// records the returned public URL on the profile.
func (s *Service) UploadLogo(ctx context.Context, ownerID, filename, contentType string, body io.Reader) (*models.Profile, error) {
	if s.bucket == nil {
		return nil, ErrBucketUnavailable
	}

	logoURL, err := s.bucket.Upload(ctx, ownerID+"/"+filename, contentType, body)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	profile.LogoURL = logoURL
	return s.save(ctx, profile)
}

// DeleteAccount permanently removes everything the owner has: orders,
// clients, sessions, profile, account. There is no undo.
func (s *Service) DeleteAccount(ctx context.Context, ownerID string) error {
	if err := s.store.DeleteOrdersByOwner(ctx, ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteClientsByOwner(ctx, ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteSessionsByOwner(ctx, ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteProfile(ctx, ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, ownerID); err != nil {
		return err
	}

	s.logger.WithField("owner_id", ownerID).Info("Account deleted")
	return nil
}

func (s *Service) save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	profile.UpdatedAt = timeNow()
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.WithField("owner_id", profile.OwnerID).Info("Profile updated")
	return profile, nil
}
