package service

import (
	"context"
	"fmt"

	"github.com/kovazenko1977/sanatory/internal/models"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarService publishes bookings as all-day events to a shared Google
// Calendar so housekeeping and the front desk see arrivals without opening
// the admin panel.
type CalendarService struct {
	srv    *calendar.Service
	config CalendarConfig
}

func NewCalendarService(ctx context.Context, config CalendarConfig) (*CalendarService, error) {
	tokenJSON, err := config.LoadServiceAccountToken()
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithAuthCredentialsJSON(option.ServiceAccount, tokenJSON))
	if err != nil {
		return nil, err
	}

	return &CalendarService{srv: srv, config: config}, nil
}

// PublishBooking inserts one event per booking, spanning the stay as
// all-day dates.
func (s *CalendarService) PublishBooking(booking *models.Booking, guest *models.Guest, room *models.RoomInstance) error {
	summary := fmt.Sprintf("Booking #%d", booking.ID)
	if guest != nil {
		summary = fmt.Sprintf("Booking #%d: %s", booking.ID, guest.FullName())
	}
	description := fmt.Sprintf("Guests: %d\nTotal: %.2f\nStatus: %s", booking.GuestsCount, booking.TotalPrice, booking.Status)
	if room != nil {
		summary += fmt.Sprintf(" (room %s)", room.RoomNumber)
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start:       &calendar.EventDateTime{Date: booking.CheckIn},
		End:         &calendar.EventDateTime{Date: booking.CheckOut},
	}
	if _, err := s.srv.Events.Insert(s.config.CalendarID, event).Do(); err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}
