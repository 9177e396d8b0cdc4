package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
)

// Publisher pushes order lifecycle events to interested consumers.
// Publishing is best effort: a failure is logged and never fails the
// request that triggered it.
type Publisher interface {
	PublishOrderCreated(o *models.Order) error
	PublishOrderUpdated(o *models.Order) error
	PublishOrderDeleted(ownerID, orderID string) error
}

// Invalidator drops cached views derived from an owner's orders so
// the next read reflects the write.
type Invalidator interface {
	Invalidate(ownerID string)
}

// Service owns the order lifecycle. Every operation is scoped to the
// calling owner; the store enforces the scoping, not the handlers.
type Service struct {
	store     store.OrderStore
	logger    *logrus.Logger
	publisher Publisher
	stats     Invalidator
	now       func() time.Time
}

func NewService(st store.OrderStore, logger *logrus.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

func (s *Service) SetInvalidator(inv Invalidator) {
	s.stats = inv
}

// Create validates the draft, recomputes the total from the submitted
// items and persists a new order for the owner. Status defaults to
// pending when omitted.
func (s *Service) Create(ctx context.Context, ownerID string, draft *models.OrderDraft) (*models.Order, error) {
	if errs := ValidateDraft(draft, s.now()); errs != nil {
		return nil, errs
	}

	now := s.now()
	status := draft.Status
	if status == "" {
		status = models.StatusPending
	}
	order := &models.Order{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		ClientName:   draft.ClientName,
		Items:        append([]models.OrderItem(nil), draft.Items...),
		TotalPrice:   models.OrderTotal(draft.Items),
		DeliveryDate: draft.DeliveryDate,
		DeliveryTime: draft.DeliveryTime,
		Status:       status,
		Notes:        draft.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"owner_id":    ownerID,
		"total_price": order.TotalPrice,
		"items_count": len(order.Items),
	}).Info("Order created")

	s.afterWrite(ownerID, func() error { return s.publisher.PublishOrderCreated(order) })
	return order, nil
}

// Update replaces the stored order with the validated draft. The
// write targets (id, owner) at the store; a foreign or unknown id
// yields store.ErrNotFound. There is no version check, so the later
// of two overlapping updates wins.
func (s *Service) Update(ctx context.Context, ownerID, id string, draft *models.OrderDraft) (*models.Order, error) {
	if errs := ValidateDraft(draft, s.now()); errs != nil {
		return nil, errs
	}

	status := draft.Status
	if status == "" {
		status = models.StatusPending
	}
	order := &models.Order{
		ID:           id,
		OwnerID:      ownerID,
		ClientName:   draft.ClientName,
		Items:        append([]models.OrderItem(nil), draft.Items...),
		TotalPrice:   models.OrderTotal(draft.Items),
		DeliveryDate: draft.DeliveryDate,
		DeliveryTime: draft.DeliveryTime,
		Status:       status,
		Notes:        draft.Notes,
		UpdatedAt:    s.now(),
	}

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Re-read so the caller gets the stored record, created_at
	// included.
	stored, err := s.store.GetOrder(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":    id,
		"owner_id":    ownerID,
		"total_price": stored.TotalPrice,
		"status":      stored.Status,
	}).Info("Order updated")

	s.afterWrite(ownerID, func() error { return s.publisher.PublishOrderUpdated(stored) })
	return stored, nil
}

// Delete permanently removes the order. There is no soft delete and
// no undo.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteOrder(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"owner_id": ownerID,
	}).Info("Order deleted")

	s.afterWrite(ownerID, func() error { return s.publisher.PublishOrderDeleted(ownerID, id) })
	return nil
}

// List returns the owner's orders by delivery date ascending,
// optionally filtered by exact status.
func (s *Service) List(ctx context.Context, ownerID, status string) ([]*models.Order, error) {
	return s.store.ListOrders(ctx, ownerID, status)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.Order, error) {
	return s.store.GetOrder(ctx, ownerID, id)
}

// afterWrite runs the write side effects: cached views are dropped
// and the lifecycle event is published if a publisher is wired.
func (s *Service) afterWrite(ownerID string, publish func() error) {
	if s.stats != nil {
		s.stats.Invalidate(ownerID)
	}
	if s.publisher == nil {
		return
	}
	if err := publish(); err != nil {
		s.logger.WithError(err).Error("Failed to publish order event")
	}
}
