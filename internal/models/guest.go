package models

import (
	"time"

	"github.com/kovazenko1977/sanatory/internal/store"
)

// Loyalty tiers, derived from cumulative bookings and spend.
const (
	LoyaltyBase     = "base"
	LoyaltySilver   = "silver"
	LoyaltyGold     = "gold"
	LoyaltyPlatinum = "platinum"
)

// GuestDocument is metadata about an uploaded document; the file itself is
// handled outside the core.
type GuestDocument struct {
	Type         string    `json:"type"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Guest holds contact and identity details plus cached loyalty statistics.
// The statistics are recomputed on demand from the booking history, not
// maintained incrementally.
type Guest struct {
	store.Meta
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	MiddleName      string          `json:"middle_name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	PassportSeries  string          `json:"passport_series"`
	PassportNumber  string          `json:"passport_number"`
	BirthDate       string          `json:"birth_date"`
	Address         string          `json:"address"`
	Notes           string          `json:"notes"`
	Documents       []GuestDocument `json:"documents"`
	Blacklisted     bool            `json:"blacklisted"`
	BlacklistReason string          `json:"blacklist_reason,omitempty"`
	BlacklistedAt   *time.Time      `json:"blacklisted_at,omitempty"`
	LoyaltyLevel    string          `json:"loyalty_level"`
	LoyaltyPoints   int             `json:"loyalty_points"`
	TotalBookings   int             `json:"total_bookings"`
	TotalSpent      float64         `json:"total_spent"`
}

// FullName returns "Last First" for display and search.
func (g *Guest) FullName() string {
	return g.LastName + " " + g.FirstName
}
