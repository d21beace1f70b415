package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	Image       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAvailable reports whether the product can cover the requested quantity.
func (p Product) IsAvailable(quantity int) bool {
	return p.Active && p.Stock >= quantity
}

func (p *Product) DecrementStock(quantity int) {
	if p.Stock < quantity {
		return
	}
	p.Stock -= quantity
}
