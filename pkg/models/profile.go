package models

import "time"

type Profile struct {
	OwnerID      string      `json:"owner_id"`
	Email        string      `json:"email"`
	BusinessName string      `json:"business_name"`
	FullName     string      `json:"full_name"`
	Phone        string      `json:"phone,omitempty"`
	LogoURL      string      `json:"logo_url,omitempty"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Preferences struct {
	Language             string `json:"language"`
	Currency             string `json:"currency"`
	EnableDailyReminders bool   `json:"enable_daily_reminders"`
	EnablePaymentAlerts  bool   `json:"enable_payment_alerts"`
}

// DefaultPreferences mirrors the defaults a fresh account starts with.
func DefaultPreferences() Preferences {
	return Preferences{Language: "en", Currency: "ILS"}
}

type ProfileResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}
