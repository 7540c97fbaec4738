package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/johdel/machinery/internal/checkout/app"
	checkoutdomain "github.com/johdel/machinery/internal/checkout/domain"
	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

type CheckoutHandler struct {
	checkout *checkoutapp.Service
}

func NewCheckoutHandler(checkout *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type quoteRequest struct {
	ShippingMethod string `json:"shippingMethod"`
}

// Quote handles POST /api/v1/checkout/quote. Pricing is derived fresh
// from the live cart on every call.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	method := orderdomain.ShippingMethod(req.ShippingMethod)
	if method != orderdomain.ShippingExpress {
		method = orderdomain.ShippingStandard
	}

	pricing, err := h.checkout.Quote(c.Request.Context(), cartKey(c), method)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pricing)
}

type createOrderRequest struct {
	OrderID  string                         `json:"order_id"`
	Shipping checkoutdomain.ShippingDetails `json:"shipping"`
}

type orderResponse struct {
	ID               string                         `json:"id"`
	Status           orderdomain.Status             `json:"status"`
	StatusInfo       checkoutapp.Presentation       `json:"status_info"`
	UserEmail        string                         `json:"user_email"`
	ShippingAddress  orderdomain.ShippingAddress    `json:"shipping_address"`
	ShippingMethod   orderdomain.ShippingMethod     `json:"shipping_method"`
	Items            []orderdomain.Line             `json:"items"`
	TotalAmount      int64                          `json:"total_amount"`
	PaymentReference string                         `json:"payment_reference,omitempty"`
}

func toOrderResponse(o orderdomain.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		Status:           o.Status,
		StatusInfo:       checkoutapp.Present(o.Status),
		UserEmail:        o.UserEmail,
		ShippingAddress:  o.ShippingAddress,
		ShippingMethod:   o.ShippingMethod,
		Items:            o.Items,
		TotalAmount:      o.TotalAmount,
		PaymentReference: o.PaymentReference,
	}
}

// CreateOrUpdateOrder handles POST /api/v1/checkout/orders. With an
// order_id in the body the existing pending order is rewritten in
// place instead of creating a new one.
func (h *CheckoutHandler) CreateOrUpdateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	order, err := h.checkout.CreateOrUpdateOrder(c.Request.Context(), sessionFrom(c), cartKey(c), req.Shipping, req.OrderID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if req.OrderID == "" {
		status = http.StatusCreated
		ordersCreated.Inc()
	}
	c.JSON(status, toOrderResponse(order))
}

// BeginPayment handles POST /api/v1/checkout/orders/:id/pay. An
// already-paid order short-circuits to the confirmation URL so the
// widget is never re-invoked.
func (h *CheckoutHandler) BeginPayment(c *gin.Context) {
	orderID := c.Param("id")

	ps, err := h.checkout.BeginPayment(c.Request.Context(), sessionFrom(c), orderID)
	if err != nil {
		if errors.Is(err, checkoutapp.ErrAlreadyPaid) {
			c.JSON(http.StatusOK, gin.H{
				"already_paid": true,
				"redirect":     "/order-confirmation?orderId=" + orderID,
			})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

type outcomeRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=success cancel close"`
	Reference string `json:"reference"`
}

// PaymentOutcome handles POST /api/v1/checkout/orders/:id/outcome,
// the adapter between the widget's callbacks and the payment state
// machine. Duplicate deliveries are harmless.
func (h *CheckoutHandler) PaymentOutcome(c *gin.Context) {
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	outcome := checkoutdomain.PaymentOutcome{
		Kind:      checkoutdomain.OutcomeKind(req.Kind),
		Reference: req.Reference,
	}

	order, err := h.checkout.CompletePayment(c.Request.Context(), sessionFrom(c), cartKey(c), c.Param("id"), outcome)
	if err != nil {
		abortWithError(c, err)
		return
	}

	paymentOutcomes.WithLabelValues(req.Kind).Inc()
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Resume handles GET /api/v1/checkout/orders/:id/resume. Revisiting a
// paid order's checkout URL goes straight to confirmation.
func (h *CheckoutHandler) Resume(c *gin.Context) {
	orderID := c.Param("id")

	order, paid, err := h.checkout.Resume(c.Request.Context(), sessionFrom(c), orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	redirect := ""
	if paid {
		redirect = "/order-confirmation?orderId=" + orderID
	}
	c.JSON(http.StatusOK, gin.H{
		"order":    toOrderResponse(order),
		"paid":     paid,
		"redirect": redirect,
	})
}
