package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/johdel/machinery/internal/checkout/app"
	checkoutdomain "github.com/johdel/machinery/internal/checkout/domain"
)

// Verifier confirms a payment reference with the provider before the
// webhook is trusted.
type Verifier interface {
	Verify(ctx context.Context, reference string) (bool, error)
}

type WebhookHandler struct {
	checkout *checkoutapp.Service
	verifier Verifier
	log      *slog.Logger
}

func NewWebhookHandler(checkout *checkoutapp.Service, verifier Verifier, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{checkout: checkout, verifier: verifier, log: log}
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Metadata  struct {
			OrderID string `json:"order_id"`
		} `json:"metadata"`
	} `json:"data"`
}

// HandlePaystack processes provider callbacks for POST
// /api/v1/payments/webhook. Events other than charge.success are
// acknowledged and dropped. The reference is re-verified against the
// provider before any state changes, so a forged payload cannot mark
// an order paid.
func (h *WebhookHandler) HandlePaystack(c *gin.Context) {
	var event webhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Malformed webhook payload",
		})
		return
	}

	if event.Event != "charge.success" {
		c.Status(http.StatusOK)
		return
	}

	orderID := event.Data.Metadata.OrderID
	if orderID == "" {
		orderID = orderIDFromReference(event.Data.Reference)
	}
	if orderID == "" || event.Data.Reference == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Webhook payload carries no order reference",
		})
		return
	}

	ok, err := h.verifier.Verify(c.Request.Context(), event.Data.Reference)
	if err != nil {
		h.log.Error("webhook verification failed",
			slog.String("reference", event.Data.Reference),
			slog.String("error", err.Error()))
		c.Status(http.StatusBadGateway)
		return
	}
	if !ok {
		h.log.Warn("webhook reference did not verify",
			slog.String("reference", event.Data.Reference))
		c.Status(http.StatusOK)
		return
	}

	_, err = h.checkout.RecordVerifiedOutcome(c.Request.Context(), orderID, checkoutdomain.PaymentOutcome{
		Kind:      checkoutdomain.OutcomeSuccess,
		Reference: event.Data.Reference,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	paymentOutcomes.WithLabelValues("success").Inc()
	c.Status(http.StatusOK)
}

// orderIDFromReference recovers the order id from a reference shaped
// like ORD-{orderID}-{timestamp}.
func orderIDFromReference(ref string) string {
	if !strings.HasPrefix(ref, "ORD-") {
		return ""
	}
	rest := strings.TrimPrefix(ref, "ORD-")
	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return ""
	}
	return rest[:i]
}
