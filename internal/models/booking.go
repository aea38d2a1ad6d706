package models

import (
	"time"

	"github.com/kovazenko1977/sanatory/internal/store"
)

// DateLayout is the date-only format for check-in/check-out dates. Dates in
// this layout compare chronologically as plain strings.
const DateLayout = "2006-01-02"

type BookingStatus string

const (
	StatusNew        BookingStatus = "new"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusPaid       BookingStatus = "paid"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// ValidStatus reports whether s is one of the six known booking statuses.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusPaid, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// Payment methods.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Payment is one recorded payment event against a booking. Only local
// recording; no gateway integration.
type Payment struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Method string    `json:"method"`
	Date   time.Time `json:"date"`
}

// PriceBreakdown is the persisted result of a price calculation.
// Total = Base + Services - Discount + Taxes.
type PriceBreakdown struct {
	Base     float64 `json:"base"`
	Services float64 `json:"services"`
	Discount float64 `json:"discount"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
}

// Booking references exactly one guest and one room instance and carries a
// snapshot of the price components computed at creation or last
// modification. PaidAmount always equals the sum of Payments.
type Booking struct {
	store.Meta
	GuestID        int           `json:"guest_id"`
	RoomInstanceID int           `json:"room_instance_id"`
	CheckIn        string        `json:"check_in"`
	CheckOut       string        `json:"check_out"`
	GuestsCount    int           `json:"guests_count"`
	Status         BookingStatus `json:"status"`
	TotalPrice     float64       `json:"total_price"`
	BasePrice      float64       `json:"base_price"`
	ServicesPrice  float64       `json:"services_price"`
	Taxes          float64       `json:"taxes"`
	Discount       float64       `json:"discount"`
	ServiceIDs     []int         `json:"services"`
	Promocode      string        `json:"promocode,omitempty"`
	Notes          string        `json:"notes"`
	Payments       []Payment     `json:"payments"`
	PaidAmount     float64       `json:"paid_amount"`
	Source         string        `json:"source"`
	ActualCheckIn  *time.Time    `json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time    `json:"actual_check_out,omitempty"`
	CancelReason   string        `json:"cancellation_reason,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
}

// ApplyBreakdown copies a price calculation onto the booking snapshot.
func (b *Booking) ApplyBreakdown(p PriceBreakdown) {
	b.BasePrice = p.Base
	b.ServicesPrice = p.Services
	b.Discount = p.Discount
	b.Taxes = p.Taxes
	b.TotalPrice = p.Total
}

// BookingView decorates a booking with its resolved guest and room records
// for read-side display.
type BookingView struct {
	Booking
	Guest        *Guest        `json:"guest,omitempty"`
	RoomInstance *RoomInstance `json:"room_instance,omitempty"`
	RoomClass    *RoomClass    `json:"room_class,omitempty"`
}
