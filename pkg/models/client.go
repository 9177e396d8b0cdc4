package models

import "time"

type Client struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientDraft carries the submittable fields of a client record.
// Client records are independent of the free-text client name on
// orders; there is no foreign key between the two.
type ClientDraft struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

type ClientResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Client  *Client `json:"client,omitempty"`
}
