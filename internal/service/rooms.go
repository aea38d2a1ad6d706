package service

import (
	"fmt"
	"math"
	"time"

	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
)

// RoomManager owns room classes and the physical room instances that
// reference them.
type RoomManager struct {
	col    *Collections
	logger *logger.Logger
}

func NewRoomManager(col *Collections, log *logger.Logger) *RoomManager {
	return &RoomManager{col: col, logger: log}
}

type CreateRoomClassInput struct {
	Name        string
	Level       string
	MaxGuests   int
	BasePrice   float64
	Description string
	Amenities   []string
	Area        float64
}

// CreateRoomClass persists a new room category, active by default.
func (m *RoomManager) CreateRoomClass(in CreateRoomClassInput) (*models.RoomClass, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: room class name is required", domain.ErrValidation)
	}
	level := in.Level
	if level == "" {
		level = models.LevelStandard
	}
	maxGuests := in.MaxGuests
	if maxGuests <= 0 {
		maxGuests = 2
	}

	class := &models.RoomClass{
		Name:        in.Name,
		Level:       level,
		MaxGuests:   maxGuests,
		BasePrice:   in.BasePrice,
		Description: in.Description,
		Amenities:   in.Amenities,
		Area:        in.Area,
		Active:      true,
	}
	if err := m.col.RoomClasses.Insert(class); err != nil {
		return nil, err
	}
	m.logger.Info("room_class_created", logger.RoomID(class.ID), logger.Name(class.Name))
	return class, nil
}

type UpdateRoomClassInput struct {
	Name        *string
	Level       *string
	MaxGuests   *int
	BasePrice   *float64
	Description *string
	Amenities   *[]string
	Area        *float64
	Active      *bool
}

// UpdateRoomClass merges the given fields over the class.
func (m *RoomManager) UpdateRoomClass(id int, in UpdateRoomClassInput) error {
	found, err := m.col.RoomClasses.Update(id, func(rc *models.RoomClass) error {
		if in.Name != nil {
			rc.Name = *in.Name
		}
		if in.Level != nil {
			rc.Level = *in.Level
		}
		if in.MaxGuests != nil {
			rc.MaxGuests = *in.MaxGuests
		}
		if in.BasePrice != nil {
			rc.BasePrice = *in.BasePrice
		}
		if in.Description != nil {
			rc.Description = *in.Description
		}
		if in.Amenities != nil {
			rc.Amenities = *in.Amenities
		}
		if in.Area != nil {
			rc.Area = *in.Area
		}
		if in.Active != nil {
			rc.Active = *in.Active
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: room class id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("room_class_updated", logger.RoomID(id))
	return nil
}

// DeleteRoomClass removes a class. Refused while any room instance still
// references it.
func (m *RoomManager) DeleteRoomClass(id int) error {
	dependents, err := m.col.RoomInstances.Find(func(ri *models.RoomInstance) bool {
		return ri.RoomClassID == id
	})
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		return fmt.Errorf("%w: room class %d has %d instances", domain.ErrReferential, id, len(dependents))
	}

	removed, err := m.col.RoomClasses.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: room class id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("room_class_deleted", logger.RoomID(id))
	return nil
}

// RoomClasses returns every room class.
func (m *RoomManager) RoomClasses() ([]*models.RoomClass, error) {
	return m.col.RoomClasses.All()
}

type CreateRoomInstanceInput struct {
	RoomClassID int
	RoomNumber  string
	Floor       int
	Status      string
	Notes       string
}

// CreateRoomInstance persists a new physical room. The referenced class must
// exist.
func (m *RoomManager) CreateRoomInstance(in CreateRoomInstanceInput) (*models.RoomInstance, error) {
	if in.RoomNumber == "" {
		return nil, fmt.Errorf("%w: room number is required", domain.ErrValidation)
	}
	if _, err := m.col.RoomClasses.Get(in.RoomClassID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.RoomStatusActive
	}
	floor := in.Floor
	if floor <= 0 {
		floor = 1
	}

	instance := &models.RoomInstance{
		RoomClassID: in.RoomClassID,
		RoomNumber:  in.RoomNumber,
		Floor:       floor,
		Status:      status,
		Notes:       in.Notes,
	}
	if err := m.col.RoomInstances.Insert(instance); err != nil {
		return nil, err
	}
	m.logger.Info("room_instance_created", logger.RoomID(instance.ID), logger.RoomNumber(instance.RoomNumber))
	return instance, nil
}

type UpdateRoomInstanceInput struct {
	RoomClassID *int
	RoomNumber  *string
	Floor       *int
	Status      *string
	Notes       *string
}

// UpdateRoomInstance merges the given fields over the instance.
func (m *RoomManager) UpdateRoomInstance(id int, in UpdateRoomInstanceInput) error {
	found, err := m.col.RoomInstances.Update(id, func(ri *models.RoomInstance) error {
		if in.RoomClassID != nil {
			ri.RoomClassID = *in.RoomClassID
		}
		if in.RoomNumber != nil {
			ri.RoomNumber = *in.RoomNumber
		}
		if in.Floor != nil {
			ri.Floor = *in.Floor
		}
		if in.Status != nil {
			ri.Status = *in.Status
		}
		if in.Notes != nil {
			ri.Notes = *in.Notes
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: room instance id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("room_instance_updated", logger.RoomID(id))
	return nil
}

// DeleteRoomInstance removes a physical room. Refused while confirmed or
// checked-in bookings still reference it.
func (m *RoomManager) DeleteRoomInstance(id int) error {
	active, err := m.col.Bookings.Find(func(b *models.Booking) bool {
		return b.RoomInstanceID == id &&
			(b.Status == models.StatusConfirmed || b.Status == models.StatusCheckedIn)
	})
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return fmt.Errorf("%w: room instance %d has active bookings", domain.ErrReferential, id)
	}

	removed, err := m.col.RoomInstances.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: room instance id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("room_instance_deleted", logger.RoomID(id))
	return nil
}

// RoomInstances returns every physical room decorated with its class.
func (m *RoomManager) RoomInstances() ([]models.RoomInstanceView, error) {
	instances, err := m.col.RoomInstances.All()
	if err != nil {
		return nil, err
	}
	classes, err := m.col.RoomClasses.All()
	if err != nil {
		return nil, err
	}
	classByID := make(map[int]*models.RoomClass, len(classes))
	for _, rc := range classes {
		classByID[rc.ID] = rc
	}

	views := make([]models.RoomInstanceView, 0, len(instances))
	for _, ri := range instances {
		views = append(views, models.RoomInstanceView{
			RoomInstance: *ri,
			RoomClass:    classByID[ri.RoomClassID],
		})
	}
	return views, nil
}

// AvailableRooms returns the active rooms free for the whole half-open
// [checkIn, checkOut) interval.
func (m *RoomManager) AvailableRooms(checkIn, checkOut string) ([]models.RoomInstanceView, error) {
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if nights <= 0 {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}

	instances, err := m.RoomInstances()
	if err != nil {
		return nil, err
	}
	bookings, err := m.col.Bookings.All()
	if err != nil {
		return nil, err
	}

	var available []models.RoomInstanceView
	for _, instance := range instances {
		if instance.Status != models.RoomStatusActive {
			continue
		}
		free := true
		for _, b := range bookings {
			if b.RoomInstanceID != instance.ID || b.Status == models.StatusCancelled {
				continue
			}
			if datesOverlap(checkIn, checkOut, b.CheckIn, b.CheckOut) {
				free = false
				break
			}
		}
		if free {
			available = append(available, instance)
		}
	}
	return available, nil
}

// Block takes a room out of service, recording a reason and an informational
// date window.
func (m *RoomManager) Block(id int, reason, from, to string) error {
	found, err := m.col.RoomInstances.Update(id, func(ri *models.RoomInstance) error {
		ri.Status = models.RoomStatusBlocked
		ri.BlockReason = reason
		ri.BlockFrom = from
		ri.BlockTo = to
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: room instance id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("room_blocked", logger.RoomID(id), logger.Reason(reason), logger.Dates(from+".."+to))
	return nil
}

// Unblock returns a blocked room to service.
func (m *RoomManager) Unblock(id int) error {
	found, err := m.col.RoomInstances.Update(id, func(ri *models.RoomInstance) error {
		ri.Status = models.RoomStatusActive
		ri.BlockReason = ""
		ri.BlockFrom = ""
		ri.BlockTo = ""
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: room instance id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("room_unblocked", logger.RoomID(id))
	return nil
}

// RoomStatistics is a point-in-time rollup over the room inventory.
type RoomStatistics struct {
	TotalRooms       int     `json:"total_rooms"`
	ActiveRooms      int     `json:"active_rooms"`
	BlockedRooms     int     `json:"blocked_rooms"`
	MaintenanceRooms int     `json:"maintenance_rooms"`
	OccupiedToday    int     `json:"occupied_today"`
	AvailableToday   int     `json:"available_today"`
	OccupancyRate    float64 `json:"occupancy_rate"`
}

// Statistics scans rooms and bookings and derives today's occupancy.
func (m *RoomManager) Statistics() (RoomStatistics, error) {
	var stats RoomStatistics

	instances, err := m.col.RoomInstances.All()
	if err != nil {
		return stats, err
	}
	bookings, err := m.col.Bookings.All()
	if err != nil {
		return stats, err
	}

	today := time.Now().UTC().Format(models.DateLayout)
	stats.TotalRooms = len(instances)

	for _, instance := range instances {
		switch instance.Status {
		case models.RoomStatusActive:
			stats.ActiveRooms++
		case models.RoomStatusBlocked:
			stats.BlockedRooms++
		case models.RoomStatusMaintenance:
			stats.MaintenanceRooms++
		}

		occupied := false
		for _, b := range bookings {
			if b.RoomInstanceID == instance.ID &&
				b.Status == models.StatusCheckedIn &&
				b.CheckIn <= today && b.CheckOut > today {
				occupied = true
				break
			}
		}
		if occupied {
			stats.OccupiedToday++
		} else if instance.Status == models.RoomStatusActive {
			stats.AvailableToday++
		}
	}

	if stats.TotalRooms > 0 {
		rate := float64(stats.OccupiedToday) / float64(stats.TotalRooms) * 100
		stats.OccupancyRate = math.Round(rate*100) / 100
	}
	return stats, nil
}
