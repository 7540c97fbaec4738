package domain

// ShippingDetails is the checkout form. Validation reports every
// failing field in one pass, not just the first.
type ShippingDetails struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	PostalCode     string `json:"postalCode" validate:"required"`
	Country        string `json:"country"`
	ShippingMethod string `json:"shippingMethod"`
}

// Pricing is the derived cost breakdown, all amounts in minor currency
// units. It is recomputed from the live cart on every request, never
// stored.
type Pricing struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

// PaymentRequest is what the hosted payment widget is initialized
// with. Amount is in minor units; Reference is unique per attempt so
// retries of the same order never collide at the provider.
type PaymentRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata"`
}

// PaymentSession is the provider's handle for one widget invocation.
type PaymentSession struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
	PublicKey        string `json:"public_key"`
}

// OutcomeKind is the terminal (or non-terminal) signal reported by the
// payment widget for one attempt.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeCancel  OutcomeKind = "cancel"
	OutcomeClose   OutcomeKind = "close"
)

// PaymentOutcome is a widget callback translated into data. Reference
// is only set for success.
type PaymentOutcome struct {
	Kind      OutcomeKind `json:"kind"`
	Reference string      `json:"reference"`
}
