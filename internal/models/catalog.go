package models

import "github.com/kovazenko1977/sanatory/internal/store"

// Service is a priced add-on billed per night of the stay.
type Service struct {
	store.Meta
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Active      bool    `json:"active"`
}

// Promocode discount types.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Promocode is a discount code. It applies only while active, inside its
// validity window, and under its usage cap (zero cap means unlimited).
type Promocode struct {
	store.Meta
	Code       string  `json:"code"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	ValidFrom  string  `json:"valid_from"`
	ValidUntil string  `json:"valid_until"`
	UsageLimit int     `json:"usage_limit"`
	UsedCount  int     `json:"used_count"`
	Active     bool    `json:"active"`
}

// UsableOn reports whether the code can be applied on the given date
// (DateLayout). Empty window bounds are open-ended.
func (p *Promocode) UsableOn(date string) bool {
	if !p.Active {
		return false
	}
	if p.ValidFrom != "" && date < p.ValidFrom {
		return false
	}
	if p.ValidUntil != "" && date > p.ValidUntil {
		return false
	}
	if p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit {
		return false
	}
	return true
}

// Tax is a named percentage applied additively to the post-discount
// subtotal.
type Tax struct {
	store.Meta
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Active bool    `json:"active"`
}
