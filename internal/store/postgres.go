package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
	"github.com/sweetflow/sweetflow/pkg/models"
)

// Postgres implements Store on database/sql with the pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

// CreateTables sets up the schema on startup.
func (s *Postgres) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token VARCHAR(64) PRIMARY KEY,
			owner_id VARCHAR(64) NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			owner_id VARCHAR(64) PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
			email VARCHAR(255) NOT NULL,
			business_name VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			phone VARCHAR(64),
			logo_url TEXT,
			preferences JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(64) PRIMARY KEY,
			owner_id VARCHAR(64) NOT NULL,
			client_name VARCHAR(255) NOT NULL,
			total_price DECIMAL(10,2) NOT NULL,
			delivery_date DATE NOT NULL,
			delivery_time VARCHAR(16),
			status VARCHAR(32) NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id VARCHAR(64) PRIMARY KEY,
			owner_id VARCHAR(64) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(64) NOT NULL,
			email VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_owner_id ON orders(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_delivery_date ON orders(delivery_date)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_owner_id ON clients(owner_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (s *Postgres) CreateOrder(ctx context.Context, o *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, owner_id, client_name, total_price, delivery_date, delivery_time, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, query, o.ID, o.OwnerID, o.ClientName, o.TotalPrice,
		o.DeliveryDate, nullString(o.DeliveryTime), o.Status, nullString(o.Notes), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Postgres) UpdateOrder(ctx context.Context, o *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE orders
		SET client_name = $3, total_price = $4, delivery_date = $5, delivery_time = $6, status = $7, notes = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2
	`
	res, err := tx.ExecContext(ctx, query, o.ID, o.OwnerID, o.ClientName, o.TotalPrice,
		o.DeliveryDate, nullString(o.DeliveryTime), o.Status, nullString(o.Notes), o.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID string, items []models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, position, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, query, orderID, i, item.Name, item.Quantity, item.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func (s *Postgres) DeleteOrder(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const orderColumns = `id, owner_id, client_name, total_price, to_char(delivery_date, 'YYYY-MM-DD'), COALESCE(delivery_time, ''), status, COALESCE(notes, ''), created_at, updated_at`

func (s *Postgres) GetOrder(ctx context.Context, ownerID, id string) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND owner_id = $2`
	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&order.ID, &order.OwnerID, &order.ClientName, &order.TotalPrice,
		&order.DeliveryDate, &order.DeliveryTime, &order.Status, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Postgres) ListOrders(ctx context.Context, ownerID, status string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY delivery_date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID, &order.OwnerID, &order.ClientName, &order.TotalPrice,
			&order.DeliveryDate, &order.DeliveryTime, &order.Status, &order.Notes,
			&order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := s.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Postgres) loadItems(ctx context.Context, order *models.Order) error {
	query := `SELECT name, quantity, unit_price FROM order_items WHERE order_id = $1 ORDER BY position ASC`
	rows, err := s.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (s *Postgres) CountOrdersByDate(ctx context.Context, ownerID, date string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE owner_id = $1 AND delivery_date = $2`, ownerID, date).Scan(&count)
	return count, err
}

func (s *Postgres) CountOrdersByStatus(ctx context.Context, ownerID, status string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE owner_id = $1 AND status = $2`, ownerID, status).Scan(&count)
	return count, err
}

func (s *Postgres) DeleteOrdersByOwner(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE owner_id = $1`, ownerID)
	return err
}

func (s *Postgres) CreateClient(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO clients (id, owner_id, full_name, phone_number, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.OwnerID, c.FullName, c.PhoneNumber,
		nullString(c.Email), c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Postgres) UpdateClient(ctx context.Context, c *models.Client) error {
	query := `
		UPDATE clients SET full_name = $3, phone_number = $4, email = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`
	res, err := s.db.ExecContext(ctx, query, c.ID, c.OwnerID, c.FullName, c.PhoneNumber,
		nullString(c.Email), c.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteClient(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) GetClient(ctx context.Context, ownerID, id string) (*models.Client, error) {
	c := &models.Client{}
	query := `
		SELECT id, owner_id, full_name, phone_number, COALESCE(email, ''), created_at, updated_at
		FROM clients WHERE id = $1 AND owner_id = $2
	`
	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.FullName, &c.PhoneNumber, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Postgres) ListClients(ctx context.Context, ownerID string) ([]*models.Client, error) {
	query := `
		SELECT id, owner_id, full_name, phone_number, COALESCE(email, ''), created_at, updated_at
		FROM clients WHERE owner_id = $1 ORDER BY full_name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c := &models.Client{}
		err := rows.Scan(&c.ID, &c.OwnerID, &c.FullName, &c.PhoneNumber, &c.Email, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Postgres) DeleteClientsByOwner(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE owner_id = $1`, ownerID)
	return err
}

func (s *Postgres) CreateAccount(ctx context.Context, a *Account) error {
	query := `INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, a.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Postgres) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	a := &Account{}
	query := `SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`
	err := s.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Postgres) DeleteAccount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

func (s *Postgres) CreateSession(ctx context.Context, sess *Session) error {
	query := `INSERT INTO sessions (token, owner_id, created_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, sess.Token, sess.OwnerID, sess.CreatedAt)
	return err
}

func (s *Postgres) GetSession(ctx context.Context, token string) (*Session, error) {
	sess := &Session{}
	query := `SELECT token, owner_id, created_at FROM sessions WHERE token = $1`
	err := s.db.QueryRowContext(ctx, query, token).Scan(&sess.Token, &sess.OwnerID, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Postgres) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (s *Postgres) DeleteSessionsByOwner(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner_id = $1`, ownerID)
	return err
}

func (s *Postgres) CreateProfile(ctx context.Context, p *models.Profile) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO profiles (owner_id, email, business_name, full_name, phone, logo_url, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query, p.OwnerID, p.Email, p.BusinessName, p.FullName,
		nullString(p.Phone), nullString(p.LogoURL), string(prefs), p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *Postgres) GetProfile(ctx context.Context, ownerID string) (*models.Profile, error) {
	p := &models.Profile{}
	var prefs string
	query := `
		SELECT owner_id, email, business_name, full_name, COALESCE(phone, ''), COALESCE(logo_url, ''), COALESCE(preferences::text, '{}'), created_at, updated_at
		FROM profiles WHERE owner_id = $1
	`
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(
		&p.OwnerID, &p.Email, &p.BusinessName, &p.FullName, &p.Phone, &p.LogoURL, &prefs,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(prefs), &p.Preferences); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Postgres) UpdateProfile(ctx context.Context, p *models.Profile) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return err
	}
	query := `
		UPDATE profiles
		SET business_name = $2, full_name = $3, phone = $4, logo_url = $5, preferences = $6, updated_at = $7
		WHERE owner_id = $1
	`
	res, err := s.db.ExecContext(ctx, query, p.OwnerID, p.BusinessName, p.FullName,
		nullString(p.Phone), nullString(p.LogoURL), string(prefs), p.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteProfile(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE owner_id = $1`, ownerID)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
