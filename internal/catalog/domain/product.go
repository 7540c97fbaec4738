package domain

import "time"

// Product is the catalog entry shoppers browse. UnitAmount is in minor
// currency units; Stock never goes negative.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitAmount  int64
	Category    string
	Stock       int
	ImageURL    string
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
