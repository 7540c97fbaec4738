package app

import (
	"github.com/johdel/machinery/internal/checkout/domain"
	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

// ApplyPaymentOutcome is the payment state machine: given the order's
// current status and a widget outcome it yields the next status and
// whether anything changed. Callbacks can repeat, so every input is
// total and re-applying an outcome never errors.
//
//	pending   --success--> paid
//	cancelled --success--> paid (a retry after an abort still charges)
//	pending   --cancel---> cancelled
//	*         --close----> unchanged (shopper may reopen the widget)
func ApplyPaymentOutcome(current orderdomain.Status, outcome domain.PaymentOutcome) (orderdomain.Status, bool) {
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		if current == orderdomain.StatusPending || current == orderdomain.StatusCancelled {
			return orderdomain.StatusPaid, true
		}
	case domain.OutcomeCancel:
		if current == orderdomain.StatusPending {
			return orderdomain.StatusCancelled, true
		}
	case domain.OutcomeClose:
		// No terminal outcome; the pending order and its reference
		// pattern stay resumable.
	}
	return current, false
}
