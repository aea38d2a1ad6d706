package service

import (
	"fmt"

	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
)

// CatalogManager owns the pricing inputs: add-on services, promocodes and
// tax rules.
type CatalogManager struct {
	col    *Collections
	logger *logger.Logger
}

func NewCatalogManager(col *Collections, log *logger.Logger) *CatalogManager {
	return &CatalogManager{col: col, logger: log}
}

// CreateService persists a new add-on service, active by default.
func (m *CatalogManager) CreateService(name, category string, price float64, description string) (*models.Service, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: service name is required", domain.ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: service price must not be negative", domain.ErrValidation)
	}
	svc := &models.Service{
		Name:        name,
		Category:    category,
		Price:       price,
		Description: description,
		Active:      true,
	}
	if err := m.col.Services.Insert(svc); err != nil {
		return nil, err
	}
	m.logger.Info("service_created", logger.F("SERVICE_ID", svc.ID), logger.Name(svc.Name))
	return svc, nil
}

type UpdateServiceInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Description *string
	Active      *bool
}

func (m *CatalogManager) UpdateService(id int, in UpdateServiceInput) error {
	found, err := m.col.Services.Update(id, func(s *models.Service) error {
		if in.Name != nil {
			s.Name = *in.Name
		}
		if in.Category != nil {
			s.Category = *in.Category
		}
		if in.Price != nil {
			s.Price = *in.Price
		}
		if in.Description != nil {
			s.Description = *in.Description
		}
		if in.Active != nil {
			s.Active = *in.Active
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: service id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("service_updated", logger.F("SERVICE_ID", id))
	return nil
}

func (m *CatalogManager) DeleteService(id int) error {
	removed, err := m.col.Services.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: service id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("service_deleted", logger.F("SERVICE_ID", id))
	return nil
}

func (m *CatalogManager) Services() ([]*models.Service, error) {
	return m.col.Services.All()
}

type CreatePromocodeInput struct {
	Code       string
	Type       string
	Value      float64
	ValidFrom  string
	ValidUntil string
	UsageLimit int
}

// CreatePromocode persists a new discount code, active by default. The code
// must be unique among existing promocodes.
func (m *CatalogManager) CreatePromocode(in CreatePromocodeInput) (*models.Promocode, error) {
	if in.Code == "" {
		return nil, fmt.Errorf("%w: promocode code is required", domain.ErrValidation)
	}
	if in.Type != models.DiscountPercent && in.Type != models.DiscountFixed {
		return nil, fmt.Errorf("%w: promocode type must be percent or fixed", domain.ErrValidation)
	}
	if in.Value <= 0 {
		return nil, fmt.Errorf("%w: promocode value must be positive", domain.ErrValidation)
	}
	_, exists, err := m.col.Promocodes.First(func(p *models.Promocode) bool {
		return p.Code == in.Code
	})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: promocode %q already exists", domain.ErrValidation, in.Code)
	}

	promo := &models.Promocode{
		Code:       in.Code,
		Type:       in.Type,
		Value:      in.Value,
		ValidFrom:  in.ValidFrom,
		ValidUntil: in.ValidUntil,
		UsageLimit: in.UsageLimit,
		Active:     true,
	}
	if err := m.col.Promocodes.Insert(promo); err != nil {
		return nil, err
	}
	m.logger.Info("promocode_created", logger.Code(promo.Code))
	return promo, nil
}

type UpdatePromocodeInput struct {
	Value      *float64
	ValidFrom  *string
	ValidUntil *string
	UsageLimit *int
	Active     *bool
}

func (m *CatalogManager) UpdatePromocode(id int, in UpdatePromocodeInput) error {
	found, err := m.col.Promocodes.Update(id, func(p *models.Promocode) error {
		if in.Value != nil {
			p.Value = *in.Value
		}
		if in.ValidFrom != nil {
			p.ValidFrom = *in.ValidFrom
		}
		if in.ValidUntil != nil {
			p.ValidUntil = *in.ValidUntil
		}
		if in.UsageLimit != nil {
			p.UsageLimit = *in.UsageLimit
		}
		if in.Active != nil {
			p.Active = *in.Active
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: promocode id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("promocode_updated", logger.F("PROMOCODE_ID", id))
	return nil
}

func (m *CatalogManager) DeletePromocode(id int) error {
	removed, err := m.col.Promocodes.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: promocode id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("promocode_deleted", logger.F("PROMOCODE_ID", id))
	return nil
}

func (m *CatalogManager) Promocodes() ([]*models.Promocode, error) {
	return m.col.Promocodes.All()
}

// CreateTax persists a new tax rule, active by default. All active taxes
// apply additively to priced bookings.
func (m *CatalogManager) CreateTax(name string, rate float64) (*models.Tax, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tax name is required", domain.ErrValidation)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: tax rate must not be negative", domain.ErrValidation)
	}
	tax := &models.Tax{Name: name, Rate: rate, Active: true}
	if err := m.col.Taxes.Insert(tax); err != nil {
		return nil, err
	}
	m.logger.Info("tax_created", logger.Name(tax.Name), logger.F("RATE", tax.Rate))
	return tax, nil
}

type UpdateTaxInput struct {
	Name   *string
	Rate   *float64
	Active *bool
}

func (m *CatalogManager) UpdateTax(id int, in UpdateTaxInput) error {
	found, err := m.col.Taxes.Update(id, func(t *models.Tax) error {
		if in.Name != nil {
			t.Name = *in.Name
		}
		if in.Rate != nil {
			t.Rate = *in.Rate
		}
		if in.Active != nil {
			t.Active = *in.Active
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: tax id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("tax_updated", logger.F("TAX_ID", id))
	return nil
}

func (m *CatalogManager) DeleteTax(id int) error {
	removed, err := m.col.Taxes.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: tax id %d", domain.ErrNotFound, id)
	}
	m.logger.Info("tax_deleted", logger.F("TAX_ID", id))
	return nil
}

func (m *CatalogManager) Taxes() ([]*models.Tax, error) {
	return m.col.Taxes.All()
}
