package domain

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusShipped   Status = "shipped"
)

// Terminal reports whether payment has already landed, so no further
// payment activity is expected. Cancelled is not terminal: the shopper
// can retry the widget against the same order.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusShipped
}

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// ShippingAddress uses the field names the storefront client submits.
type ShippingAddress struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Line is an order item frozen from the cart at order time. UnitAmount
// is in minor currency units.
type Line struct {
	ProductID  string `json:"id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url"`
}

// Order is one checkout attempt. TotalAmount is fixed in minor units
// when the order is created or updated, never recomputed from Items at
// read time. Every read is scoped to UserID.
type Order struct {
	ID               string
	UserID           string
	UserEmail        string
	ShippingAddress  ShippingAddress
	Items            []Line
	ShippingMethod   ShippingMethod
	Status           Status
	TotalAmount      int64
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransition encodes the legal status moves. Payment callbacks may
// repeat, so re-applying the current status is allowed and must be
// treated as a no-op by callers.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusCancelled
	case StatusCancelled:
		// Aborting the widget is not terminal: a retried payment on
		// the same order must still be recordable.
		return to == StatusPaid
	case StatusPaid:
		return to == StatusShipped
	default:
		return false
	}
}
