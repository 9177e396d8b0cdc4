package models

import (
	"math"
	"time"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// OrderStatuses lists every status an order may carry. Transitions
// between them are unrestricted.
var OrderStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func ValidStatus(s string) bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DateLayout is the wire format for delivery dates.
const DateLayout = "2006-01-02"

type Order struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"owner_id"`
	ClientName   string      `json:"client_name"`
	Items        []OrderItem `json:"items"`
	TotalPrice   float64     `json:"total_price"`
	DeliveryDate string      `json:"delivery_date"`
	DeliveryTime string      `json:"delivery_time,omitempty"`
	Status       string      `json:"status"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Subtotal treats unset quantity or price as zero so a half-filled
// line never poisons the running total.
func (it OrderItem) Subtotal() float64 {
	if it.Quantity <= 0 || it.UnitPrice <= 0 {
		return 0
	}
	return float64(it.Quantity) * it.UnitPrice
}

// OrderTotal recomputes the total from scratch, rounded to 2 decimals.
// The stored total is always derived from the final item list at save
// time, never taken from the request.
func OrderTotal(items []OrderItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Subtotal()
	}
	return math.Round(sum*100) / 100
}

// OrderDraft is the submittable form state for a new or edited order.
type OrderDraft struct {
	ClientName   string      `json:"client_name"`
	Items        []OrderItem `json:"items"`
	DeliveryDate string      `json:"delivery_date"`
	DeliveryTime string      `json:"delivery_time,omitempty"`
	Status       string      `json:"status,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Order   *Order `json:"order,omitempty"`
}
