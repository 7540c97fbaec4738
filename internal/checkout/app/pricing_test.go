package app

import (
	"testing"

	cartdomain "github.com/johdel/machinery/internal/cart/domain"
	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

func testPricer() Pricer {
	return NewPricer(50, 80, 1250)
}

func TestQuoteStandardShipping(t *testing.T) {
	cart := cartdomain.Cart{Items: []cartdomain.Item{
		{ProductID: "p1", UnitAmount: 100, Quantity: 2},
	}}

	got := testPricer().Quote(cart, orderdomain.ShippingStandard)

	if got.Subtotal != 200 {
		t.Fatalf("subtotal: want 200, got %d", got.Subtotal)
	}
	if got.ShippingFee != 50 {
		t.Fatalf("shipping: want 50, got %d", got.ShippingFee)
	}
	if got.Tax != 25 {
		t.Fatalf("tax: want 25, got %d", got.Tax)
	}
	if got.Total != 275 {
		t.Fatalf("total: want 275, got %d", got.Total)
	}
}

func TestQuoteExpressShipping(t *testing.T) {
	cart := cartdomain.Cart{Items: []cartdomain.Item{
		{ProductID: "p1", UnitAmount: 100, Quantity: 2},
	}}

	got := testPricer().Quote(cart, orderdomain.ShippingExpress)

	if got.ShippingFee != 80 {
		t.Fatalf("shipping: want 80, got %d", got.ShippingFee)
	}
	if got.Total != 305 {
		t.Fatalf("total: want 305, got %d", got.Total)
	}
}

func TestQuoteTaxRoundsHalfUp(t *testing.T) {
	// 12.5% of 7 is 0.875, which rounds to 1 minor unit.
	cart := cartdomain.Cart{Items: []cartdomain.Item{
		{ProductID: "p1", UnitAmount: 7, Quantity: 1},
	}}

	got := testPricer().Quote(cart, orderdomain.ShippingStandard)
	if got.Tax != 1 {
		t.Fatalf("tax: want 1, got %d", got.Tax)
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	got := testPricer().Quote(cartdomain.Cart{}, orderdomain.ShippingStandard)

	if got.Subtotal != 0 || got.Tax != 0 {
		t.Fatalf("empty cart must price to zero subtotal and tax: %+v", got)
	}
	if got.Total != got.ShippingFee {
		t.Fatalf("empty cart total must equal the shipping fee: %+v", got)
	}
}

func TestQuoteIgnoresZeroQuantityLines(t *testing.T) {
	cart := cartdomain.Cart{Items: []cartdomain.Item{
		{ProductID: "p1", UnitAmount: 100, Quantity: 2},
		{ProductID: "p2", UnitAmount: 999, Quantity: 0},
	}}

	got := testPricer().Quote(cart, orderdomain.ShippingStandard)
	if got.Subtotal != 200 {
		t.Fatalf("zero-quantity line contributed to subtotal: %d", got.Subtotal)
	}
}
