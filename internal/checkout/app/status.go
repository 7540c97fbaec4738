package app

import orderdomain "github.com/johdel/machinery/internal/order/domain"

// Presentation is the user-facing rendering of an order status.
type Presentation struct {
	Label    string `json:"label"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
}

var statusPresentations = map[orderdomain.Status]Presentation{
	orderdomain.StatusPending: {
		Label:    "Pending",
		Progress: 33,
		Message:  "Awaiting payment confirmation",
		Icon:     "clock",
	},
	orderdomain.StatusPaid: {
		Label:    "Paid",
		Progress: 66,
		Message:  "Order confirmed and being processed",
		Icon:     "check-circle",
	},
	orderdomain.StatusShipped: {
		Label:    "Shipped",
		Progress: 100,
		Message:  "Your order is on its way",
		Icon:     "truck",
	},
	orderdomain.StatusCancelled: {
		Label:    "Cancelled",
		Progress: 0,
		Message:  "This order has been cancelled",
		Icon:     "alert-circle",
	},
}

// Present maps a status to its label, progress and message. Unknown or
// missing statuses render as pending.
func Present(status orderdomain.Status) Presentation {
	if p, ok := statusPresentations[status]; ok {
		return p
	}
	return statusPresentations[orderdomain.StatusPending]
}
