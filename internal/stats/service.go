package stats

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
)

// Summary is the dashboard headline: deliveries due today and
// tomorrow, plus open and finished order counts.
type Summary struct {
	Today     int `json:"today"`
	Tomorrow  int `json:"tomorrow"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Service computes per-owner summaries and caches them until the next
// order write. Order writes call Invalidate, which is the whole
// cache-coherence contract: a read after a write always recounts.
type Service struct {
	store  store.OrderStore
	logger *logrus.Logger
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]Summary
	gens  map[string]uint64
}

func NewService(st store.OrderStore, logger *logrus.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
		cache:  make(map[string]Summary),
		gens:   make(map[string]uint64),
	}
}

func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	s.mu.RLock()
	cached, ok := s.cache[ownerID]
	gen := s.gens[ownerID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	now := s.now()
	today := now.Format(models.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)

	var summary Summary
	var err error
	if summary.Today, err = s.store.CountOrdersByDate(ctx, ownerID, today); err != nil {
		return Summary{}, err
	}
	if summary.Tomorrow, err = s.store.CountOrdersByDate(ctx, ownerID, tomorrow); err != nil {
		return Summary{}, err
	}
	if summary.Pending, err = s.store.CountOrdersByStatus(ctx, ownerID, models.StatusPending); err != nil {
		return Summary{}, err
	}
	if summary.Completed, err = s.store.CountOrdersByStatus(ctx, ownerID, models.StatusCompleted); err != nil {
		return Summary{}, err
	}

	s.mu.Lock()
	// A write that invalidated while we were counting makes these
	// numbers stale; caching them would serve pre-write counts until
	// the next write. Only store when the generation is unchanged.
	if s.gens[ownerID] == gen {
		s.cache[ownerID] = summary
	}
	s.mu.Unlock()

	s.logger.WithField("owner_id", ownerID).Debug("Order summary computed")
	return summary, nil
}

// Invalidate drops the owner's cached summary after an order write and
// bumps the generation so an in-flight computation cannot re-cache
// counts taken before the write.
func (s *Service) Invalidate(ownerID string) {
	s.mu.Lock()
	delete(s.cache, ownerID)
	s.gens[ownerID]++
	s.mu.Unlock()
}
