package service

import "github.com/kovazenko1977/sanatory/internal/models"

// Notifier abstracts the booking-created notification hook for testability.
// The booking manager calls it exactly once per successful creation and does
// not retry on failure.
type Notifier interface {
	NotifyBookingCreated(booking *models.Booking, guest *models.Guest, room *models.RoomInstance) error
}

// CalendarPublisher abstracts calendar publishing for testability.
type CalendarPublisher interface {
	PublishBooking(booking *models.Booking, guest *models.Guest, room *models.RoomInstance) error
}
