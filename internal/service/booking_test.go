package service

import (
	"testing"
	"time"

	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	valid := CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	}

	tests := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing guest id", func(in *CreateBookingInput) { in.GuestID = 0 }},
		{"missing room id", func(in *CreateBookingInput) { in.RoomInstanceID = 0 }},
		{"missing check-in", func(in *CreateBookingInput) { in.CheckIn = "" }},
		{"missing check-out", func(in *CreateBookingInput) { in.CheckOut = "" }},
		{"equal dates", func(in *CreateBookingInput) { in.CheckOut = in.CheckIn }},
		{"reversed dates", func(in *CreateBookingInput) { in.CheckIn, in.CheckOut = in.CheckOut, in.CheckIn }},
		{"malformed date", func(in *CreateBookingInput) { in.CheckIn = "01.07.2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.bookings.Create(in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	t.Run("unknown guest", func(t *testing.T) {
		in := valid
		in.GuestID = 999
		_, err := f.bookings.Create(in)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCreateBooking_Defaults(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusNew, booking.Status)
	assert.Equal(t, 1, booking.GuestsCount)
	assert.Equal(t, "admin", booking.Source)
	assert.Equal(t, 0.0, booking.PaidAmount)
	assert.Empty(t, booking.Payments)
	assert.Equal(t, 15000.0, booking.TotalPrice, "no taxes or services configured")
	assert.Equal(t, 1, booking.ID)

	stored, err := f.bookings.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.TotalPrice, stored.TotalPrice)
}

func TestCreateBooking_Conflict(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	_, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-05",
	})
	require.NoError(t, err)

	t.Run("overlapping stay is refused", func(t *testing.T) {
		_, err := f.bookings.Create(CreateBookingInput{
			GuestID:        guest.ID,
			RoomInstanceID: roomID,
			CheckIn:        "2026-07-03",
			CheckOut:       "2026-07-08",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("back-to-back stay is accepted", func(t *testing.T) {
		_, err := f.bookings.Create(CreateBookingInput{
			GuestID:        guest.ID,
			RoomInstanceID: roomID,
			CheckIn:        "2026-07-05",
			CheckOut:       "2026-07-08",
		})
		assert.NoError(t, err)
	})
}

func TestCreateBooking_BlacklistedGuest(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)
	require.NoError(t, f.guests.AddToBlacklist(guest.ID, "unpaid bill"))

	_, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBooking_NotifiesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)
	assert.Equal(t, []int{booking.ID}, f.notifier.calls)
}

func TestCreateBooking_NotifierFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)
	f.notifier.err = assert.AnError

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)
	assert.Len(t, f.notifier.calls, 1, "no retry on hook failure")

	_, err = f.bookings.Get(booking.ID)
	assert.NoError(t, err)
}

func TestCreateBooking_ConsumesPromocode(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)
	promo, err := f.catalog.CreatePromocode(CreatePromocodeInput{
		Code: "SUMMER10", Type: models.DiscountPercent, Value: 10,
	})
	require.NoError(t, err)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
		Promocode:      "SUMMER10",
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, booking.Discount)
	assert.Equal(t, 13500.0, booking.TotalPrice)

	stored, err := f.col.Promocodes.Get(promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestAddPayment(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)
	_, err := f.catalog.CreateTax("НДС", 2)
	require.NoError(t, err)
	_, err = f.catalog.CreatePromocode(CreatePromocodeInput{
		Code: "SUMMER10", Type: models.DiscountPercent, Value: 10,
	})
	require.NoError(t, err)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
		Promocode:      "SUMMER10",
	})
	require.NoError(t, err)
	require.Equal(t, 13770.0, booking.TotalPrice)

	t.Run("negative amount refused", func(t *testing.T) {
		_, err := f.bookings.AddPayment(booking.ID, -100, models.PaymentCash)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("partial payment keeps status", func(t *testing.T) {
		updated, err := f.bookings.AddPayment(booking.ID, 5000, models.PaymentCard)
		require.NoError(t, err)
		assert.Equal(t, 5000.0, updated.PaidAmount)
		assert.Equal(t, models.StatusNew, updated.Status)
		require.Len(t, updated.Payments, 1)
		assert.NotEmpty(t, updated.Payments[0].ID)
		assert.Equal(t, models.PaymentCard, updated.Payments[0].Method)
	})

	t.Run("covering payment promotes to paid", func(t *testing.T) {
		updated, err := f.bookings.AddPayment(booking.ID, 8770, models.PaymentTransfer)
		require.NoError(t, err)
		assert.Equal(t, 13770.0, updated.PaidAmount)
		assert.Equal(t, models.StatusPaid, updated.Status)
	})

	t.Run("zero payment leaves state unchanged", func(t *testing.T) {
		updated, err := f.bookings.AddPayment(booking.ID, 0, "")
		require.NoError(t, err)
		assert.Equal(t, 13770.0, updated.PaidAmount)
		assert.Equal(t, models.StatusPaid, updated.Status)
		assert.Len(t, updated.Payments, 3)
	})

	t.Run("empty method defaults to cash", func(t *testing.T) {
		stored, err := f.bookings.Get(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCash, stored.Payments[2].Method)
	})

	t.Run("never demotes a later status", func(t *testing.T) {
		require.NoError(t, f.bookings.CheckIn(booking.ID))
		updated, err := f.bookings.AddPayment(booking.ID, 500, models.PaymentCash)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCheckedIn, updated.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := f.bookings.AddPayment(999, 100, models.PaymentCash)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCheckInCheckOut(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)

	t.Run("check-in from new is refused", func(t *testing.T) {
		assert.ErrorIs(t, f.bookings.CheckIn(booking.ID), domain.ErrState)
	})

	t.Run("check-out before check-in is refused", func(t *testing.T) {
		assert.ErrorIs(t, f.bookings.CheckOut(booking.ID), domain.ErrState)
	})

	t.Run("check-in from confirmed succeeds", func(t *testing.T) {
		require.NoError(t, f.bookings.ChangeStatus(booking.ID, models.StatusConfirmed))
		require.NoError(t, f.bookings.CheckIn(booking.ID))

		stored, err := f.bookings.Get(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCheckedIn, stored.Status)
		require.NotNil(t, stored.ActualCheckIn)
		assert.WithinDuration(t, time.Now().UTC(), *stored.ActualCheckIn, time.Minute)
	})

	t.Run("repeated check-in is refused", func(t *testing.T) {
		assert.ErrorIs(t, f.bookings.CheckIn(booking.ID), domain.ErrState)
	})

	t.Run("check-out from checked_in succeeds", func(t *testing.T) {
		require.NoError(t, f.bookings.CheckOut(booking.ID))

		stored, err := f.bookings.Get(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCheckedOut, stored.Status)
		assert.NotNil(t, stored.ActualCheckOut)
	})
}

func TestChangeStatus(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)

	t.Run("unknown status", func(t *testing.T) {
		assert.ErrorIs(t, f.bookings.ChangeStatus(booking.ID, "archived"), domain.ErrValidation)
	})

	t.Run("known status", func(t *testing.T) {
		require.NoError(t, f.bookings.ChangeStatus(booking.ID, models.StatusConfirmed))
		stored, err := f.bookings.Get(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, stored.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		assert.ErrorIs(t, f.bookings.ChangeStatus(999, models.StatusConfirmed), domain.ErrNotFound)
	})
}

func TestCancelBooking_FreesDates(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)

	require.NoError(t, f.bookings.Cancel(booking.ID, "plans changed"))

	stored, err := f.bookings.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Equal(t, "plans changed", stored.CancelReason)
	assert.NotNil(t, stored.CancelledAt)

	_, err = f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	assert.NoError(t, err, "cancelled stay no longer blocks the room")
}

func TestUpdateBooking(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	booking, err := f.bookings.Create(CreateBookingInput{
		GuestID:        guest.ID,
		RoomInstanceID: roomID,
		CheckIn:        "2026-07-01",
		CheckOut:       "2026-07-06",
	})
	require.NoError(t, err)

	t.Run("notes change does not reprice", func(t *testing.T) {
		notes := "late arrival"
		require.NoError(t, f.bookings.Update(booking.ID, UpdateBookingInput{Notes: &notes}))

		stored, err := f.bookings.Get(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, "late arrival", stored.Notes)
		assert.Equal(t, 15000.0, stored.TotalPrice)
	})

	t.Run("date change reprices", func(t *testing.T) {
		checkOut := "2026-07-04"
		require.NoError(t, f.bookings.Update(booking.ID, UpdateBookingInput{CheckOut: &checkOut}))

		stored, err := f.bookings.Get(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-07-04", stored.CheckOut)
		assert.Equal(t, 9000.0, stored.TotalPrice)
	})

	t.Run("own dates do not conflict with self", func(t *testing.T) {
		checkOut := "2026-07-06"
		assert.NoError(t, f.bookings.Update(booking.ID, UpdateBookingInput{CheckOut: &checkOut}))
	})

	t.Run("conflicting move is refused", func(t *testing.T) {
		other, err := f.bookings.Create(CreateBookingInput{
			GuestID:        guest.ID,
			RoomInstanceID: roomID,
			CheckIn:        "2026-07-10",
			CheckOut:       "2026-07-15",
		})
		require.NoError(t, err)

		checkIn, checkOut := "2026-07-04", "2026-07-12"
		err = f.bookings.Update(other.ID, UpdateBookingInput{CheckIn: &checkIn, CheckOut: &checkOut})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("reversed dates are refused", func(t *testing.T) {
		checkIn := "2026-07-08"
		err := f.bookings.Update(booking.ID, UpdateBookingInput{CheckIn: &checkIn})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown booking", func(t *testing.T) {
		notes := "x"
		assert.ErrorIs(t, f.bookings.Update(999, UpdateBookingInput{Notes: &notes}), domain.ErrNotFound)
	})
}

func TestGetAllBookings(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)
	other, err := f.guests.Create(CreateGuestInput{
		FirstName: "Анна", LastName: "Сидорова", Phone: "+7 900 765-43-21",
	})
	require.NoError(t, err)

	first, err := f.bookings.Create(CreateBookingInput{
		GuestID: guest.ID, RoomInstanceID: roomID,
		CheckIn: "2026-07-01", CheckOut: "2026-07-05",
	})
	require.NoError(t, err)
	second, err := f.bookings.Create(CreateBookingInput{
		GuestID: other.ID, RoomInstanceID: roomID,
		CheckIn: "2026-07-05", CheckOut: "2026-07-10",
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.ChangeStatus(second.ID, models.StatusConfirmed))

	t.Run("unfiltered returns views with resolved references", func(t *testing.T) {
		views, err := f.bookings.GetAll(BookingFilter{})
		require.NoError(t, err)
		require.Len(t, views, 2)
		require.NotNil(t, views[0].Guest)
		assert.Equal(t, guest.ID, views[0].Guest.ID)
		require.NotNil(t, views[0].RoomInstance)
		require.NotNil(t, views[0].RoomClass)
		assert.Equal(t, "Стандарт", views[0].RoomClass.Name)
	})

	t.Run("filter by status", func(t *testing.T) {
		views, err := f.bookings.GetAll(BookingFilter{Status: models.StatusConfirmed})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, second.ID, views[0].ID)
	})

	t.Run("filter by guest", func(t *testing.T) {
		views, err := f.bookings.GetAll(BookingFilter{GuestID: guest.ID})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, first.ID, views[0].ID)
	})

	t.Run("filter by date range", func(t *testing.T) {
		views, err := f.bookings.GetAll(BookingFilter{DateFrom: "2026-07-01", DateTo: "2026-07-05"})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, first.ID, views[0].ID)
	})
}

func TestGetToday(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	today := time.Now().UTC()
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format(models.DateLayout)
	}

	arriving, err := f.bookings.Create(CreateBookingInput{
		GuestID: guest.ID, RoomInstanceID: roomID,
		CheckIn: day(0), CheckOut: day(3),
	})
	require.NoError(t, err)

	roomID2 := 0
	{
		instance, err := f.rooms.CreateRoomInstance(CreateRoomInstanceInput{
			RoomClassID: 1, RoomNumber: "102",
		})
		require.NoError(t, err)
		roomID2 = instance.ID
	}
	staying, err := f.bookings.Create(CreateBookingInput{
		GuestID: guest.ID, RoomInstanceID: roomID2,
		CheckIn: day(-2), CheckOut: day(2),
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.ChangeStatus(staying.ID, models.StatusConfirmed))
	require.NoError(t, f.bookings.CheckIn(staying.ID))

	instance3, err := f.rooms.CreateRoomInstance(CreateRoomInstanceInput{
		RoomClassID: 1, RoomNumber: "103",
	})
	require.NoError(t, err)
	_, err = f.bookings.Create(CreateBookingInput{
		GuestID: guest.ID, RoomInstanceID: instance3.ID,
		CheckIn: day(5), CheckOut: day(8),
	})
	require.NoError(t, err)

	todays, err := f.bookings.GetToday()
	require.NoError(t, err)
	require.Len(t, todays, 2)
	ids := []int{todays[0].ID, todays[1].ID}
	assert.Contains(t, ids, arriving.ID)
	assert.Contains(t, ids, staying.ID)
}

func TestBookingHistory(t *testing.T) {
	f := newFixture(t)
	roomID := f.seedRoom(t, 3000)
	guest := f.seedGuest(t)

	first, err := f.bookings.Create(CreateBookingInput{
		GuestID: guest.ID, RoomInstanceID: roomID,
		CheckIn: "2026-07-01", CheckOut: "2026-07-05",
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Cancel(first.ID, ""))

	second, err := f.bookings.Create(CreateBookingInput{
		GuestID: guest.ID, RoomInstanceID: roomID,
		CheckIn: "2026-07-01", CheckOut: "2026-07-05",
	})
	require.NoError(t, err)

	history, err := f.bookings.History(guest.ID)
	require.NoError(t, err)
	require.Len(t, history, 2, "cancelled stays remain in the history")
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
}
