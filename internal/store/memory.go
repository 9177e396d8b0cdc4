package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sweetflow/sweetflow/pkg/models"
)

// Memory is an in-process Store used by tests and local development.
// It mirrors the Postgres semantics: owner scoping on every lookup and
// ErrNotFound for missing or foreign rows.
type Memory struct {
	mu       sync.RWMutex
	orders   map[string]models.Order
	clients  map[string]models.Client
	accounts map[string]Account
	sessions map[string]Session
	profiles map[string]models.Profile
}

func NewMemory() *Memory {
	return &Memory{
		orders:   make(map[string]models.Order),
		clients:  make(map[string]models.Client),
		accounts: make(map[string]Account),
		sessions: make(map[string]Session),
		profiles: make(map[string]models.Profile),
	}
}

var _ Store = (*Memory)(nil)

func copyOrder(o models.Order) models.Order {
	cp := o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return cp
}

func (m *Memory) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = copyOrder(*o)
	return nil
}

func (m *Memory) UpdateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.orders[o.ID]
	if !ok || existing.OwnerID != o.OwnerID {
		return ErrNotFound
	}
	cp := copyOrder(*o)
	// created_at is not an updatable column.
	cp.CreatedAt = existing.CreatedAt
	m.orders[o.ID] = cp
	return nil
}

func (m *Memory) DeleteOrder(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.orders[id]
	if !ok || existing.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *Memory) GetOrder(ctx context.Context, ownerID, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok || o.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (m *Memory) ListOrders(ctx context.Context, ownerID, status string) ([]*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Order
	for _, o := range m.orders {
		if o.OwnerID != ownerID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		cp := copyOrder(o)
		out = append(out, &cp)
	}
	// YYYY-MM-DD sorts lexically in date order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].DeliveryDate < out[j].DeliveryDate
	})
	return out, nil
}

func (m *Memory) CountOrdersByDate(ctx context.Context, ownerID, date string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, o := range m.orders {
		if o.OwnerID == ownerID && o.DeliveryDate == date {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountOrdersByStatus(ctx context.Context, ownerID, status string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, o := range m.orders {
		if o.OwnerID == ownerID && o.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *Memory) DeleteOrdersByOwner(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.orders {
		if o.OwnerID == ownerID {
			delete(m.orders, id)
		}
	}
	return nil
}

func (m *Memory) CreateClient(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = *c
	return nil
}

func (m *Memory) UpdateClient(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.clients[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return ErrNotFound
	}
	cp := *c
	cp.CreatedAt = existing.CreatedAt
	m.clients[c.ID] = cp
	return nil
}

func (m *Memory) DeleteClient(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.clients[id]
	if !ok || existing.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func (m *Memory) GetClient(ctx context.Context, ownerID, id string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok || c.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (m *Memory) ListClients(ctx context.Context, ownerID string) ([]*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Client
	for _, c := range m.clients {
		if c.OwnerID != ownerID {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}

func (m *Memory) DeleteClientsByOwner(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.clients {
		if c.OwnerID == ownerID {
			delete(m.clients, id)
		}
	}
	return nil
}

func (m *Memory) CreateAccount(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return ErrDuplicateEmail
		}
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *Memory) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) DeleteAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *Memory) CreateSession(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = *s
	return nil
}

func (m *Memory) GetSession(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (m *Memory) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *Memory) DeleteSessionsByOwner(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.OwnerID == ownerID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *Memory) CreateProfile(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.OwnerID] = *p
	return nil
}

func (m *Memory) GetProfile(ctx context.Context, ownerID string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *Memory) UpdateProfile(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.profiles[p.OwnerID]
	if !ok {
		return ErrNotFound
	}
	cp := *p
	cp.CreatedAt = existing.CreatedAt
	m.profiles[p.OwnerID] = cp
	return nil
}

func (m *Memory) DeleteProfile(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, ownerID)
	return nil
}
