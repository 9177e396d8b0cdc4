package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweetflow/sweetflow/pkg/models"
)

func seedOrder(t *testing.T, m *Memory, id, ownerID, date, status string) {
	t.Helper()
	err := m.CreateOrder(context.Background(), &models.Order{
		ID:           id,
		OwnerID:      ownerID,
		ClientName:   "Dana Levi",
		Items:        []models.OrderItem{{Name: "Cheesecake", Quantity: 1, UnitPrice: 45}},
		TotalPrice:   45,
		DeliveryDate: date,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMemoryOrderOwnerScoping(t *testing.T) {
	m := NewMemory()
	seedOrder(t, m, "o1", "alice", "2025-06-20", models.StatusPending)

	if _, err := m.GetOrder(context.Background(), "bob", "o1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign get should be ErrNotFound, got %v", err)
	}
	if err := m.DeleteOrder(context.Background(), "bob", "o1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign delete should be ErrNotFound, got %v", err)
	}
	if _, err := m.GetOrder(context.Background(), "alice", "o1"); err != nil {
		t.Errorf("owner get failed: %v", err)
	}
}

func TestMemoryListOrdersOrderingAndFilter(t *testing.T) {
	m := NewMemory()
	seedOrder(t, m, "o1", "alice", "2025-07-01", models.StatusPending)
	seedOrder(t, m, "o2", "alice", "2025-06-20", models.StatusCompleted)
	seedOrder(t, m, "o3", "alice", "2025-06-25", models.StatusPending)
	seedOrder(t, m, "o4", "bob", "2025-06-01", models.StatusPending)

	list, err := m.ListOrders(context.Background(), "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].DeliveryDate > list[i].DeliveryDate {
			t.Errorf("orders not sorted by delivery date: %s before %s", list[i-1].DeliveryDate, list[i].DeliveryDate)
		}
	}

	pending, err := m.ListOrders(context.Background(), "alice", models.StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("pending len = %d, want 2", len(pending))
	}
}

func TestMemoryUpdateOrderPreservesCreatedAt(t *testing.T) {
	m := NewMemory()
	seedOrder(t, m, "o1", "alice", "2025-06-20", models.StatusPending)
	before, _ := m.GetOrder(context.Background(), "alice", "o1")

	err := m.UpdateOrder(context.Background(), &models.Order{
		ID:           "o1",
		OwnerID:      "alice",
		ClientName:   "Dana Levi",
		Items:        []models.OrderItem{{Name: "Babka", Quantity: 2, UnitPrice: 20}},
		TotalPrice:   40,
		DeliveryDate: "2025-06-22",
		Status:       models.StatusInProgress,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	after, _ := m.GetOrder(context.Background(), "alice", "o1")
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("created_at changed on update")
	}
	if after.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in_progress", after.Status)
	}
}

func TestMemoryOrderCounts(t *testing.T) {
	m := NewMemory()
	seedOrder(t, m, "o1", "alice", "2025-06-20", models.StatusPending)
	seedOrder(t, m, "o2", "alice", "2025-06-20", models.StatusCompleted)
	seedOrder(t, m, "o3", "alice", "2025-06-21", models.StatusCompleted)

	if n, _ := m.CountOrdersByDate(context.Background(), "alice", "2025-06-20"); n != 2 {
		t.Errorf("date count = %d, want 2", n)
	}
	if n, _ := m.CountOrdersByStatus(context.Background(), "alice", models.StatusCompleted); n != 2 {
		t.Errorf("status count = %d, want 2", n)
	}
	if n, _ := m.CountOrdersByStatus(context.Background(), "bob", models.StatusCompleted); n != 0 {
		t.Errorf("foreign count = %d, want 0", n)
	}
}

func TestMemoryAccountsAndSessions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acc := &Account{ID: "a1", Email: "owner@example.com", PasswordHash: "x", CreatedAt: time.Now()}
	if err := m.CreateAccount(ctx, acc); err != nil {
		t.Fatal(err)
	}
	dup := &Account{ID: "a2", Email: "owner@example.com", PasswordHash: "y", CreatedAt: time.Now()}
	if err := m.CreateAccount(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	sess := &Session{Token: "t1", OwnerID: "a1", CreatedAt: time.Now()}
	if err := m.CreateSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := m.GetSession(ctx, "t1")
	if err != nil || got.OwnerID != "a1" {
		t.Fatalf("session lookup failed: %v", err)
	}
	if err := m.DeleteSession(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetSession(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryDeleteByOwner(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedOrder(t, m, "o1", "alice", "2025-06-20", models.StatusPending)
	seedOrder(t, m, "o2", "bob", "2025-06-20", models.StatusPending)

	if err := m.DeleteOrdersByOwner(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if list, _ := m.ListOrders(ctx, "alice", ""); len(list) != 0 {
		t.Error("alice's orders should be gone")
	}
	if list, _ := m.ListOrders(ctx, "bob", ""); len(list) != 1 {
		t.Error("bob's orders should survive")
	}
}
