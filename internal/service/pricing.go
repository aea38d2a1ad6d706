package service

import (
	"fmt"
	"time"

	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/models"
)

// PriceCalculator derives a booking's price breakdown from the room tariff,
// selected add-on services, an optional promocode and the active taxes. The
// derivation is pure given its inputs: the same records and dates always
// produce the same breakdown.
type PriceCalculator struct {
	col *Collections

	// Now supplies the date promocode validity is checked against.
	// Overridable in tests.
	Now func() time.Time
}

func NewPriceCalculator(col *Collections) *PriceCalculator {
	return &PriceCalculator{col: col, Now: time.Now}
}

// Nights returns the whole-day length of [checkIn, checkOut).
func Nights(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(models.DateLayout, checkIn)
	if err != nil {
		return 0, fmt.Errorf("%w: bad check-in date %q", domain.ErrValidation, checkIn)
	}
	out, err := time.Parse(models.DateLayout, checkOut)
	if err != nil {
		return 0, fmt.Errorf("%w: bad check-out date %q", domain.ErrValidation, checkOut)
	}
	return int(out.Sub(in).Hours() / 24), nil
}

// Calculate computes the breakdown for a stay in the given room instance.
// Unknown service ids are skipped. The returned promocode is the one that
// was applied, nil when none was; the caller owns use-count bookkeeping.
func (p *PriceCalculator) Calculate(roomInstanceID int, checkIn, checkOut string, serviceIDs []int, promocode string) (models.PriceBreakdown, *models.Promocode, error) {
	var zero models.PriceBreakdown

	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return zero, nil, err
	}

	instance, err := p.col.RoomInstances.Get(roomInstanceID)
	if err != nil {
		return zero, nil, err
	}
	class, err := p.col.RoomClasses.Get(instance.RoomClassID)
	if err != nil {
		return zero, nil, err
	}

	base := class.BasePrice * float64(nights)

	servicesPrice := 0.0
	if len(serviceIDs) > 0 {
		all, err := p.col.Services.All()
		if err != nil {
			return zero, nil, err
		}
		byID := make(map[int]*models.Service, len(all))
		for _, svc := range all {
			byID[svc.ID] = svc
		}
		for _, id := range serviceIDs {
			if svc, ok := byID[id]; ok {
				servicesPrice += svc.Price * float64(nights)
			}
		}
	}

	var applied *models.Promocode
	discount := 0.0
	if promocode != "" {
		today := p.Now().UTC().Format(models.DateLayout)
		promo, found, err := p.col.Promocodes.First(func(pc *models.Promocode) bool {
			return pc.Code == promocode && pc.UsableOn(today)
		})
		if err != nil {
			return zero, nil, err
		}
		if found {
			applied = promo
			switch promo.Type {
			case models.DiscountPercent:
				discount = (base + servicesPrice) * promo.Value / 100
			default:
				discount = promo.Value
			}
		}
	}

	taxes, err := p.col.Taxes.All()
	if err != nil {
		return zero, nil, err
	}
	subtotal := base + servicesPrice - discount
	taxTotal := 0.0
	for _, tax := range taxes {
		if tax.Active {
			taxTotal += subtotal * tax.Rate / 100
		}
	}

	return models.PriceBreakdown{
		Base:     base,
		Services: servicesPrice,
		Discount: discount,
		Taxes:    taxTotal,
		Total:    base + servicesPrice - discount + taxTotal,
	}, applied, nil
}
