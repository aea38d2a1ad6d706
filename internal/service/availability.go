package service

import (
	"github.com/kovazenko1977/sanatory/internal/models"
	"github.com/kovazenko1977/sanatory/internal/store"
)

// AvailabilityChecker decides whether a room instance is free for a
// half-open [checkIn, checkOut) date interval. Cancelled bookings are
// transparent. It returns a plain boolean; the caller decides whether
// unavailability blocks the operation.
type AvailabilityChecker struct {
	bookings *store.Collection[*models.Booking]
}

func NewAvailabilityChecker(bookings *store.Collection[*models.Booking]) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings}
}

// IsRoomAvailable reports whether no non-cancelled booking for the room
// overlaps the interval. excludeBookingID skips one booking from the
// comparison, for re-checks while modifying it; pass 0 to skip none.
func (c *AvailabilityChecker) IsRoomAvailable(roomInstanceID int, checkIn, checkOut string, excludeBookingID int) (bool, error) {
	bookings, err := c.bookings.All()
	if err != nil {
		return false, err
	}
	for _, b := range bookings {
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}
		if b.Status == models.StatusCancelled {
			continue
		}
		if b.RoomInstanceID != roomInstanceID {
			continue
		}
		if datesOverlap(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return false, nil
		}
	}
	return true, nil
}

// datesOverlap tests half-open interval intersection. Touching endpoints
// (same-day checkout and checkin) do not overlap. ISO dates compare
// chronologically as strings.
func datesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}
