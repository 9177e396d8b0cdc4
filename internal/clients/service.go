package clients

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
)

// ValidateDraft checks a client record draft. Client records live
// apart from the free-text client name on orders.
func ValidateDraft(d *models.ClientDraft) models.ValidationErrors {
	errs := models.ValidationErrors{}
	if len(strings.TrimSpace(d.FullName)) < 2 {
		errs["full_name"] = "Name must be at least 2 characters"
	}
	if len(strings.TrimSpace(d.PhoneNumber)) < 5 {
		errs["phone_number"] = "Phone number must be at least 5 characters"
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			errs["email"] = "Invalid email address"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type Service struct {
	store  store.ClientStore
	logger *logrus.Logger
	now    func() time.Time
}

func NewService(st store.ClientStore, logger *logrus.Logger) *Service {
	return &Service{store: st, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, ownerID string, draft *models.ClientDraft) (*models.Client, error) {
	if errs := ValidateDraft(draft); errs != nil {
		return nil, errs
	}

	now := s.now()
	client := &models.Client{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		FullName:    draft.FullName,
		PhoneNumber: draft.PhoneNumber,
		Email:       draft.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"client_id": client.ID,
		"owner_id":  ownerID,
	}).Info("Client created")
	return client, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, draft *models.ClientDraft) (*models.Client, error) {
	if errs := ValidateDraft(draft); errs != nil {
		return nil, errs
	}

	client := &models.Client{
		ID:          id,
		OwnerID:     ownerID,
		FullName:    draft.FullName,
		PhoneNumber: draft.PhoneNumber,
		Email:       draft.Email,
		UpdatedAt:   s.now(),
	}
	if err := s.store.UpdateClient(ctx, client); err != nil {
		return nil, err
	}

	stored, err := s.store.GetClient(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"client_id": id,
		"owner_id":  ownerID,
	}).Info("Client updated")
	return stored, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteClient(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"client_id": id,
		"owner_id":  ownerID,
	}).Info("Client deleted")
	return nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]*models.Client, error) {
	return s.store.ListClients(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.Client, error) {
	return s.store.GetClient(ctx, ownerID, id)
}
