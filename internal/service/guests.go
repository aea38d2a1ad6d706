package service

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
)

// GuestManager owns the guest registry: contact details, blacklist,
// document metadata and on-demand loyalty statistics.
type GuestManager struct {
	col    *Collections
	logger *logger.Logger
}

func NewGuestManager(col *Collections, log *logger.Logger) *GuestManager {
	return &GuestManager{col: col, logger: log}
}

type CreateGuestInput struct {
	FirstName      string
	LastName       string
	MiddleName     string
	Phone          string
	Email          string
	PassportSeries string
	PassportNumber string
	BirthDate      string
	Address        string
	Notes          string
}

// Create registers a new guest at the base loyalty tier.
func (m *GuestManager) Create(in CreateGuestInput) (*models.Guest, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: guest first and last name are required", domain.ErrValidation)
	}
	if in.Phone == "" {
		return nil, fmt.Errorf("%w: guest phone is required", domain.ErrValidation)
	}

	guest := &models.Guest{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		MiddleName:     in.MiddleName,
		Phone:          in.Phone,
		Email:          in.Email,
		PassportSeries: in.PassportSeries,
		PassportNumber: in.PassportNumber,
		BirthDate:      in.BirthDate,
		Address:        in.Address,
		Notes:          in.Notes,
		Documents:      []models.GuestDocument{},
		LoyaltyLevel:   models.LoyaltyBase,
	}
	if err := m.col.Guests.Insert(guest); err != nil {
		return nil, err
	}
	m.logger.Info("guest_created", logger.GuestID(guest.ID), logger.Name(guest.FullName()))
	return guest, nil
}

type UpdateGuestInput struct {
	FirstName      *string
	LastName       *string
	MiddleName     *string
	Phone          *string
	Email          *string
	PassportSeries *string
	PassportNumber *string
	BirthDate      *string
	Address        *string
	Notes          *string
}

// Update merges the given fields over the guest record.
func (m *GuestManager) Update(id int, in UpdateGuestInput) error {
	found, err := m.col.Guests.Update(id, func(g *models.Guest) error {
		if in.FirstName != nil {
			g.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			g.LastName = *in.LastName
		}
		if in.MiddleName != nil {
			g.MiddleName = *in.MiddleName
		}
		if in.Phone != nil {
			g.Phone = *in.Phone
		}
		if in.Email != nil {
			g.Email = *in.Email
		}
		if in.PassportSeries != nil {
			g.PassportSeries = *in.PassportSeries
		}
		if in.PassportNumber != nil {
			g.PassportNumber = *in.PassportNumber
		}
		if in.BirthDate != nil {
			g.BirthDate = *in.BirthDate
		}
		if in.Address != nil {
			g.Address = *in.Address
		}
		if in.Notes != nil {
			g.Notes = *in.Notes
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: guest id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("guest_updated", logger.GuestID(id))
	return nil
}

// Delete removes a guest. Refused while confirmed, paid or checked-in
// bookings still reference them.
func (m *GuestManager) Delete(id int) error {
	active, err := m.col.Bookings.Find(func(b *models.Booking) bool {
		if b.GuestID != id {
			return false
		}
		return b.Status == models.StatusConfirmed || b.Status == models.StatusPaid || b.Status == models.StatusCheckedIn
	})
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return fmt.Errorf("%w: guest %d has active bookings", domain.ErrReferential, id)
	}

	removed, err := m.col.Guests.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: guest id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("guest_deleted", logger.GuestID(id))
	return nil
}

// Get returns one guest by id.
func (m *GuestManager) Get(id int) (*models.Guest, error) {
	return m.col.Guests.Get(id)
}

type GuestFilter struct {
	Search      string
	Blacklisted *bool
}

// GetAll returns guests matching the filter. Search covers full name, phone
// and email, case-insensitively.
func (m *GuestManager) GetAll(filter GuestFilter) ([]*models.Guest, error) {
	search := strings.ToLower(filter.Search)
	return m.col.Guests.Find(func(g *models.Guest) bool {
		if search != "" {
			fullName := strings.ToLower(g.FirstName + " " + g.LastName)
			if !strings.Contains(fullName, search) &&
				!strings.Contains(g.Phone, search) &&
				!strings.Contains(strings.ToLower(g.Email), search) {
				return false
			}
		}
		if filter.Blacklisted != nil && g.Blacklisted != *filter.Blacklisted {
			return false
		}
		return true
	})
}

// FindByContact looks a guest up by exact phone or email match.
func (m *GuestManager) FindByContact(contact string) (*models.Guest, error) {
	guest, found, err := m.col.Guests.First(func(g *models.Guest) bool {
		return g.Phone == contact || g.Email == contact
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: guest with contact %q", domain.ErrNotFound, contact)
	}
	return guest, nil
}

// AddToBlacklist flags the guest, recording a reason and timestamp.
// Blacklisted guests cannot receive new bookings.
func (m *GuestManager) AddToBlacklist(id int, reason string) error {
	found, err := m.col.Guests.Update(id, func(g *models.Guest) error {
		now := time.Now().UTC()
		g.Blacklisted = true
		g.BlacklistReason = reason
		g.BlacklistedAt = &now
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: guest id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("guest_blacklisted", logger.GuestID(id), logger.Reason(reason))
	return nil
}

// RemoveFromBlacklist clears the blacklist flag.
func (m *GuestManager) RemoveFromBlacklist(id int) error {
	found, err := m.col.Guests.Update(id, func(g *models.Guest) error {
		g.Blacklisted = false
		g.BlacklistReason = ""
		g.BlacklistedAt = nil
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: guest id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("guest_removed_from_blacklist", logger.GuestID(id))
	return nil
}

// Document types accepted for guest files.
var documentTypes = map[string]bool{
	"passport":  true,
	"voucher":   true,
	"insurance": true,
	"other":     true,
}

// AddDocument records document metadata against the guest and returns the
// generated storage filename. Physical file handling happens outside the
// core.
func (m *GuestManager) AddDocument(guestID int, docType, originalName string) (string, error) {
	if !documentTypes[docType] {
		return "", fmt.Errorf("%w: invalid document type %q", domain.ErrValidation, docType)
	}
	filename := fmt.Sprintf("%s_%s%s", docType, uuid.New().String(), filepath.Ext(originalName))

	found, err := m.col.Guests.Update(guestID, func(g *models.Guest) error {
		g.Documents = append(g.Documents, models.GuestDocument{
			Type:         docType,
			Filename:     filename,
			OriginalName: originalName,
			UploadedAt:   time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: guest id %d", domain.ErrNotFound, guestID)
	}
	m.logger.Info("document_uploaded", logger.GuestID(guestID), logger.F("TYPE", docType))
	return filename, nil
}

// RemoveDocument drops document metadata by storage filename.
func (m *GuestManager) RemoveDocument(guestID int, filename string) error {
	found, err := m.col.Guests.Update(guestID, func(g *models.Guest) error {
		kept := g.Documents[:0]
		for _, doc := range g.Documents {
			if doc.Filename != filename {
				kept = append(kept, doc)
			}
		}
		g.Documents = kept
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: guest id %d", domain.ErrNotFound, guestID)
	}
	return nil
}

// RecomputeStats rebuilds the guest's cached loyalty statistics from their
// non-cancelled bookings. Tiers: silver at 2 bookings or 20k spent, gold at
// 5 or 50k, platinum at 10 or 100k; one point per 100 spent.
func (m *GuestManager) RecomputeStats(id int) error {
	bookings, err := m.col.Bookings.Find(func(b *models.Booking) bool {
		return b.GuestID == id && b.Status != models.StatusCancelled
	})
	if err != nil {
		return err
	}

	totalBookings := len(bookings)
	totalSpent := 0.0
	for _, b := range bookings {
		totalSpent += b.TotalPrice
	}

	level := models.LoyaltyBase
	switch {
	case totalBookings >= 10 || totalSpent >= 100000:
		level = models.LoyaltyPlatinum
	case totalBookings >= 5 || totalSpent >= 50000:
		level = models.LoyaltyGold
	case totalBookings >= 2 || totalSpent >= 20000:
		level = models.LoyaltySilver
	}

	found, err := m.col.Guests.Update(id, func(g *models.Guest) error {
		g.TotalBookings = totalBookings
		g.TotalSpent = totalSpent
		g.LoyaltyLevel = level
		g.LoyaltyPoints = int(math.Floor(totalSpent / 100))
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: guest id %d", domain.ErrNotFound, id)
	}
	return nil
}
