package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
)

// BookingManager orchestrates the booking lifecycle: creation, modification,
// payment accrual and status transitions. It is the only writer of the
// bookings collection.
type BookingManager struct {
	col          *Collections
	availability *AvailabilityChecker
	pricing      *PriceCalculator
	notifier     Notifier          // optional
	calendar     CalendarPublisher // optional
	logger       *logger.Logger
}

func NewBookingManager(col *Collections, availability *AvailabilityChecker, pricing *PriceCalculator, notifier Notifier, calendar CalendarPublisher, log *logger.Logger) *BookingManager {
	return &BookingManager{
		col:          col,
		availability: availability,
		pricing:      pricing,
		notifier:     notifier,
		calendar:     calendar,
		logger:       log,
	}
}

type CreateBookingInput struct {
	GuestID        int
	RoomInstanceID int
	CheckIn        string
	CheckOut       string
	GuestsCount    int
	ServiceIDs     []int
	Promocode      string
	Notes          string
	Source         string
}

func (in *CreateBookingInput) validate() error {
	if in.GuestID <= 0 {
		return fmt.Errorf("%w: guest id is required", domain.ErrValidation)
	}
	if in.RoomInstanceID <= 0 {
		return fmt.Errorf("%w: room instance id is required", domain.ErrValidation)
	}
	if in.CheckIn == "" || in.CheckOut == "" {
		return fmt.Errorf("%w: check-in and check-out dates are required", domain.ErrValidation)
	}
	nights, err := Nights(in.CheckIn, in.CheckOut)
	if err != nil {
		return err
	}
	if nights <= 0 {
		return fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}
	return nil
}

// Create validates the request, checks availability, prices the stay and
// persists the booking with status new. The notification hook is invoked
// exactly once per successful creation; a hook failure is logged, never
// retried.
func (m *BookingManager) Create(in CreateBookingInput) (*models.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	guest, err := m.col.Guests.Get(in.GuestID)
	if err != nil {
		return nil, err
	}
	if guest.Blacklisted {
		return nil, fmt.Errorf("%w: guest %d is blacklisted", domain.ErrValidation, guest.ID)
	}

	available, err := m.availability.IsRoomAvailable(in.RoomInstanceID, in.CheckIn, in.CheckOut, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: room %d, %s..%s", domain.ErrConflict, in.RoomInstanceID, in.CheckIn, in.CheckOut)
	}

	price, promo, err := m.pricing.Calculate(in.RoomInstanceID, in.CheckIn, in.CheckOut, in.ServiceIDs, in.Promocode)
	if err != nil {
		return nil, err
	}

	guestsCount := in.GuestsCount
	if guestsCount <= 0 {
		guestsCount = 1
	}
	source := in.Source
	if source == "" {
		source = "admin"
	}

	booking := &models.Booking{
		GuestID:        in.GuestID,
		RoomInstanceID: in.RoomInstanceID,
		CheckIn:        in.CheckIn,
		CheckOut:       in.CheckOut,
		GuestsCount:    guestsCount,
		Status:         models.StatusNew,
		ServiceIDs:     in.ServiceIDs,
		Promocode:      in.Promocode,
		Notes:          in.Notes,
		Payments:       []models.Payment{},
		PaidAmount:     0,
		Source:         source,
	}
	booking.ApplyBreakdown(price)

	if err := m.col.Bookings.Insert(booking); err != nil {
		return nil, err
	}

	if promo != nil {
		if _, err := m.col.Promocodes.Update(promo.ID, func(pc *models.Promocode) error {
			pc.UsedCount++
			return nil
		}); err != nil {
			m.logger.Warn("promocode use count not updated", logger.Code(promo.Code), logger.Error(err))
		}
	}

	m.logger.Info("booking_created",
		logger.BookingID(booking.ID),
		logger.GuestID(booking.GuestID),
		logger.RoomID(booking.RoomInstanceID),
		logger.Dates(booking.CheckIn+".."+booking.CheckOut),
		logger.Amount(booking.TotalPrice),
	)

	m.notifyCreated(booking, guest)

	return booking, nil
}

func (m *BookingManager) notifyCreated(booking *models.Booking, guest *models.Guest) {
	room, err := m.col.RoomInstances.Get(booking.RoomInstanceID)
	if err != nil {
		m.logger.Warn("room lookup for notification failed", logger.BookingID(booking.ID), logger.Error(err))
		room = nil
	}
	if m.notifier != nil {
		if err := m.notifier.NotifyBookingCreated(booking, guest, room); err != nil {
			m.logger.Warn("booking notification failed", logger.BookingID(booking.ID), logger.Error(err))
		} else {
			m.logger.Info("notification_sent", logger.BookingID(booking.ID))
		}
	}
	if m.calendar != nil {
		if err := m.calendar.PublishBooking(booking, guest, room); err != nil {
			m.logger.Warn("calendar publish failed", logger.BookingID(booking.ID), logger.Error(err))
		}
	}
}

// Get returns one booking by id.
func (m *BookingManager) Get(id int) (*models.Booking, error) {
	return m.col.Bookings.Get(id)
}

type UpdateBookingInput struct {
	RoomInstanceID *int
	CheckIn        *string
	CheckOut       *string
	GuestsCount    *int
	ServiceIDs     *[]int
	Promocode      *string
	Notes          *string
}

func (in *UpdateBookingInput) changesStay() bool {
	return in.RoomInstanceID != nil || in.CheckIn != nil || in.CheckOut != nil ||
		in.ServiceIDs != nil || in.Promocode != nil
}

// Update merges the given fields over the booking. When the dates, room,
// services or promocode change, availability is re-checked excluding the
// booking itself and the price snapshot is recomputed.
func (m *BookingManager) Update(id int, in UpdateBookingInput) error {
	booking, err := m.col.Bookings.Get(id)
	if err != nil {
		return err
	}

	roomID := booking.RoomInstanceID
	checkIn := booking.CheckIn
	checkOut := booking.CheckOut
	serviceIDs := booking.ServiceIDs
	promocode := booking.Promocode
	if in.RoomInstanceID != nil {
		roomID = *in.RoomInstanceID
	}
	if in.CheckIn != nil {
		checkIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		checkOut = *in.CheckOut
	}
	if in.ServiceIDs != nil {
		serviceIDs = *in.ServiceIDs
	}
	if in.Promocode != nil {
		promocode = *in.Promocode
	}

	var price models.PriceBreakdown
	reprice := in.changesStay()
	if reprice {
		nights, err := Nights(checkIn, checkOut)
		if err != nil {
			return err
		}
		if nights <= 0 {
			return fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
		}
		available, err := m.availability.IsRoomAvailable(roomID, checkIn, checkOut, id)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("%w: room %d, %s..%s", domain.ErrConflict, roomID, checkIn, checkOut)
		}
		price, _, err = m.pricing.Calculate(roomID, checkIn, checkOut, serviceIDs, promocode)
		if err != nil {
			return err
		}
	}

	found, err := m.col.Bookings.Update(id, func(b *models.Booking) error {
		b.RoomInstanceID = roomID
		b.CheckIn = checkIn
		b.CheckOut = checkOut
		b.ServiceIDs = serviceIDs
		b.Promocode = promocode
		if in.GuestsCount != nil {
			b.GuestsCount = *in.GuestsCount
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		if reprice {
			b.ApplyBreakdown(price)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: booking id %d", domain.ErrNotFound, id)
	}

	m.logger.Info("booking_updated", logger.BookingID(id))
	return nil
}

// ChangeStatus sets the booking status to any of the six known values.
// Beyond the guarded check-in and check-out transitions this is deliberately
// loose; the state graph is only enforced where it matters operationally.
func (m *BookingManager) ChangeStatus(id int, status models.BookingStatus) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	found, err := m.col.Bookings.Update(id, func(b *models.Booking) error {
		b.Status = status
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: booking id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("booking_status_changed", logger.BookingID(id), logger.Status(string(status)))
	return nil
}

// AddPayment appends a payment event, recomputes the paid total and
// promotes the booking to paid once the total price is covered. The status
// is never moved backwards.
func (m *BookingManager) AddPayment(id int, amount float64, method string) (*models.Booking, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: payment amount must not be negative", domain.ErrValidation)
	}
	if method == "" {
		method = models.PaymentCash
	}

	var updated *models.Booking
	found, err := m.col.Bookings.Update(id, func(b *models.Booking) error {
		b.Payments = append(b.Payments, models.Payment{
			ID:     uuid.New().String(),
			Amount: amount,
			Method: method,
			Date:   time.Now().UTC(),
		})
		total := 0.0
		for _, p := range b.Payments {
			total += p.Amount
		}
		b.PaidAmount = total
		if b.PaidAmount >= b.TotalPrice && (b.Status == models.StatusNew || b.Status == models.StatusConfirmed) {
			b.Status = models.StatusPaid
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: booking id %d", domain.ErrNotFound, id)
	}

	m.logger.Info("payment_added", logger.BookingID(id), logger.Amount(amount), logger.Status(string(updated.Status)))
	return updated, nil
}

// CheckIn transitions the booking to checked_in. Allowed only from paid or
// confirmed.
func (m *BookingManager) CheckIn(id int) error {
	found, err := m.col.Bookings.Update(id, func(b *models.Booking) error {
		if b.Status != models.StatusPaid && b.Status != models.StatusConfirmed {
			return fmt.Errorf("%w: booking must be paid or confirmed before check-in, is %q", domain.ErrState, b.Status)
		}
		now := time.Now().UTC()
		b.Status = models.StatusCheckedIn
		b.ActualCheckIn = &now
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: booking id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("guest_checked_in", logger.BookingID(id))
	return nil
}

// CheckOut transitions the booking to checked_out. Allowed only from
// checked_in.
func (m *BookingManager) CheckOut(id int) error {
	found, err := m.col.Bookings.Update(id, func(b *models.Booking) error {
		if b.Status != models.StatusCheckedIn {
			return fmt.Errorf("%w: guest must be checked in before check-out, is %q", domain.ErrState, b.Status)
		}
		now := time.Now().UTC()
		b.Status = models.StatusCheckedOut
		b.ActualCheckOut = &now
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: booking id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("guest_checked_out", logger.BookingID(id))
	return nil
}

// Cancel marks the booking cancelled from any state. Cancelled bookings are
// transparent to later availability checks; no explicit resource is freed.
func (m *BookingManager) Cancel(id int, reason string) error {
	found, err := m.col.Bookings.Update(id, func(b *models.Booking) error {
		now := time.Now().UTC()
		b.Status = models.StatusCancelled
		b.CancelReason = reason
		b.CancelledAt = &now
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: booking id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("booking_cancelled", logger.BookingID(id), logger.Reason(reason))
	return nil
}

type BookingFilter struct {
	Status         models.BookingStatus
	GuestID        int
	RoomInstanceID int
	DateFrom       string
	DateTo         string
}

func (f *BookingFilter) matches(b *models.Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.GuestID != 0 && b.GuestID != f.GuestID {
		return false
	}
	if f.RoomInstanceID != 0 && b.RoomInstanceID != f.RoomInstanceID {
		return false
	}
	if f.DateFrom != "" && b.CheckIn < f.DateFrom {
		return false
	}
	if f.DateTo != "" && b.CheckOut > f.DateTo {
		return false
	}
	return true
}

// GetAll returns bookings matching the filter, each decorated with its
// resolved guest, room instance and room class. Referenced collections are
// read once per call and joined through id maps.
func (m *BookingManager) GetAll(filter BookingFilter) ([]models.BookingView, error) {
	bookings, err := m.col.Bookings.All()
	if err != nil {
		return nil, err
	}

	guests, err := m.col.Guests.All()
	if err != nil {
		return nil, err
	}
	instances, err := m.col.RoomInstances.All()
	if err != nil {
		return nil, err
	}
	classes, err := m.col.RoomClasses.All()
	if err != nil {
		return nil, err
	}

	guestByID := make(map[int]*models.Guest, len(guests))
	for _, g := range guests {
		guestByID[g.ID] = g
	}
	instanceByID := make(map[int]*models.RoomInstance, len(instances))
	for _, ri := range instances {
		instanceByID[ri.ID] = ri
	}
	classByID := make(map[int]*models.RoomClass, len(classes))
	for _, rc := range classes {
		classByID[rc.ID] = rc
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		if !filter.matches(b) {
			continue
		}
		view := models.BookingView{Booking: *b}
		view.Guest = guestByID[b.GuestID]
		if instance := instanceByID[b.RoomInstanceID]; instance != nil {
			view.RoomInstance = instance
			view.RoomClass = classByID[instance.RoomClassID]
		}
		views = append(views, view)
	}
	return views, nil
}

// GetToday returns bookings arriving today, leaving today, or currently
// checked in and spanning today.
func (m *BookingManager) GetToday() ([]*models.Booking, error) {
	today := time.Now().UTC().Format(models.DateLayout)
	return m.col.Bookings.Find(func(b *models.Booking) bool {
		return b.CheckIn == today ||
			b.CheckOut == today ||
			(b.CheckIn < today && b.CheckOut > today && b.Status == models.StatusCheckedIn)
	})
}

// History returns every booking ever made by the guest, in file order.
func (m *BookingManager) History(guestID int) ([]*models.Booking, error) {
	return m.col.Bookings.Find(func(b *models.Booking) bool {
		return b.GuestID == guestID
	})
}
