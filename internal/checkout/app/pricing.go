package app

import (
	cartdomain "github.com/johdel/machinery/internal/cart/domain"
	"github.com/johdel/machinery/internal/checkout/domain"
	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

// Pricer derives the cost breakdown from a cart and shipping method.
// Fees are minor-unit constants; the tax rate is expressed in basis
// points (1250 = 12.5%) so the whole computation stays in integers.
type Pricer struct {
	StandardFee    int64
	ExpressFee     int64
	TaxBasisPoints int64
}

func NewPricer(standardFee, expressFee, taxBasisPoints int64) Pricer {
	return Pricer{
		StandardFee:    standardFee,
		ExpressFee:     expressFee,
		TaxBasisPoints: taxBasisPoints,
	}
}

// Quote is a pure function of the cart and shipping method. Tax is
// rounded half-up to the nearest minor unit.
func (p Pricer) Quote(cart cartdomain.Cart, method orderdomain.ShippingMethod) domain.Pricing {
	subtotal := cart.Subtotal()

	fee := p.StandardFee
	if method == orderdomain.ShippingExpress {
		fee = p.ExpressFee
	}

	tax := (subtotal*p.TaxBasisPoints + 5000) / 10000

	return domain.Pricing{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}
}
