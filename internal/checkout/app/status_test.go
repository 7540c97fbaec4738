package app

import (
	"testing"

	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

func TestPresentProgress(t *testing.T) {
	cases := []struct {
		status   orderdomain.Status
		label    string
		progress int
	}{
		{orderdomain.StatusPending, "Pending", 33},
		{orderdomain.StatusPaid, "Paid", 66},
		{orderdomain.StatusShipped, "Shipped", 100},
		{orderdomain.StatusCancelled, "Cancelled", 0},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			p := Present(tc.status)
			if p.Label != tc.label || p.Progress != tc.progress {
				t.Fatalf("got %+v", p)
			}
		})
	}
}

func TestPresentUnknownStatusDefaultsToPending(t *testing.T) {
	for _, s := range []orderdomain.Status{"", "refunded", "garbage"} {
		p := Present(s)
		if p.Label != "Pending" || p.Progress != 33 {
			t.Fatalf("status %q: got %+v", s, p)
		}
	}
}
