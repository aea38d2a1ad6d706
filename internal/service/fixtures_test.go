package service

import (
	"io"
	"testing"

	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
	"github.com/kovazenko1977/sanatory/internal/store"
	"github.com/stretchr/testify/require"
)

// fixture wires every manager against a throwaway store so tests exercise
// the real persistence path instead of mocks.
type fixture struct {
	col      *Collections
	rooms    *RoomManager
	guests   *GuestManager
	catalog  *CatalogManager
	bookings *BookingManager
	pricing  *PriceCalculator
	stats    *StatsAggregator
	settings *SettingsManager
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)

	log := logger.NewWithWriter(io.Discard)
	col := NewCollections(s)

	f := &fixture{
		col:      col,
		rooms:    NewRoomManager(col, log),
		guests:   NewGuestManager(col, log),
		catalog:  NewCatalogManager(col, log),
		pricing:  NewPriceCalculator(col),
		settings: NewSettingsManager(col, log),
		notifier: &fakeNotifier{},
	}
	availability := NewAvailabilityChecker(col.Bookings)
	f.bookings = NewBookingManager(col, availability, f.pricing, f.notifier, nil, log)
	f.stats = NewStatsAggregator(col, f.rooms)
	return f
}

// seedRoom creates a room class with the given nightly price and one active
// instance of it, returning the instance id.
func (f *fixture) seedRoom(t *testing.T, basePrice float64) int {
	t.Helper()
	class, err := f.rooms.CreateRoomClass(CreateRoomClassInput{
		Name:      "Стандарт",
		BasePrice: basePrice,
	})
	require.NoError(t, err)
	instance, err := f.rooms.CreateRoomInstance(CreateRoomInstanceInput{
		RoomClassID: class.ID,
		RoomNumber:  "101",
	})
	require.NoError(t, err)
	return instance.ID
}

func (f *fixture) seedGuest(t *testing.T) *models.Guest {
	t.Helper()
	guest, err := f.guests.Create(CreateGuestInput{
		FirstName: "Иван",
		LastName:  "Петров",
		Phone:     "+7 900 123-45-67",
		Email:     "ivan.petrov@example.com",
	})
	require.NoError(t, err)
	return guest
}

// fakeNotifier records every invocation and fails on demand.
type fakeNotifier struct {
	calls []int
	err   error
}

func (n *fakeNotifier) NotifyBookingCreated(booking *models.Booking, guest *models.Guest, room *models.RoomInstance) error {
	n.calls = append(n.calls, booking.ID)
	return n.err
}
