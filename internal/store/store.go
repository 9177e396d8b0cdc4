package store

import (
	"context"
	"errors"
	"time"

	"github.com/sweetflow/sweetflow/pkg/models"
)

var (
	// ErrNotFound covers rows that do not exist as well as rows owned
	// by someone else; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail = errors.New("email already registered")
)

// Account is the credential record behind a profile. The password
// hash never leaves this package's consumers.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an opaque bearer token resolved to an owner id on every
// authenticated request. Sign-out deletes the row.
type Session struct {
	Token     string
	OwnerID   string
	CreatedAt time.Time
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	// UpdateOrder replaces the stored order and its items, scoped to
	// (ID, OwnerID). A mismatch on either yields ErrNotFound.
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, ownerID, id string) error
	GetOrder(ctx context.Context, ownerID, id string) (*models.Order, error)
	// ListOrders returns the owner's orders ordered by delivery date
	// ascending, optionally filtered by exact status.
	ListOrders(ctx context.Context, ownerID, status string) ([]*models.Order, error)
	CountOrdersByDate(ctx context.Context, ownerID, date string) (int, error)
	CountOrdersByStatus(ctx context.Context, ownerID, status string) (int, error)
	DeleteOrdersByOwner(ctx context.Context, ownerID string) error
}

type ClientStore interface {
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, ownerID, id string) error
	GetClient(ctx context.Context, ownerID, id string) (*models.Client, error)
	ListClients(ctx context.Context, ownerID string) ([]*models.Client, error)
	DeleteClientsByOwner(ctx context.Context, ownerID string) error
}

type AccountStore interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsByOwner(ctx context.Context, ownerID string) error
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, ownerID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, ownerID string) error
}

// Store is the full persistence surface of the service.
type Store interface {
	OrderStore
	ClientStore
	AccountStore
	SessionStore
	ProfileStore
}
