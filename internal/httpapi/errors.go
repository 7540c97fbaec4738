package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johdel/machinery/internal/auth"
	catalogapp "github.com/johdel/machinery/internal/catalog/app"
	checkoutapp "github.com/johdel/machinery/internal/checkout/app"
	orderapp "github.com/johdel/machinery/internal/order/app"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// httpStatusFromError maps domain errors onto the transport. Every
// collaborator failure resolves to a user-visible status; nothing is
// allowed to escape as a panic.
func httpStatusFromError(err error) (int, string, string) {
	switch {
	case errors.Is(err, checkoutapp.ErrUnauthenticated), errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized, "UNAUTHENTICATED", "Please log in to continue"
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, orderapp.ErrNotOwner):
		return http.StatusForbidden, "UNAUTHORIZED", "You do not have access to this resource"
	case errors.Is(err, orderapp.ErrNotFound), errors.Is(err, catalogapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "The requested resource was not found"
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusBadRequest, "EMPTY_CART", "Cannot check out an empty cart"
	case errors.Is(err, checkoutapp.ErrAlreadyPaid):
		return http.StatusConflict, "ALREADY_PAID", "This order has already been paid"
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", "Invalid input"
	case errors.Is(err, catalogapp.ErrOutOfStock):
		return http.StatusConflict, "OUT_OF_STOCK", "Not enough stock for this product"
	case errors.Is(err, orderapp.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", "The order cannot move to that status"
	case errors.Is(err, checkoutapp.ErrPaymentGateway):
		return http.StatusBadGateway, "PAYMENT_FAILED", "We could not reach the payment provider. Please try again."
	default:
		return http.StatusInternalServerError, "INTERNAL", "Something went wrong"
	}
}

// errorResponseFor builds the envelope, giving typed errors their
// richer payloads.
func errorResponseFor(err error) (int, ErrorResponse) {
	var verr *checkoutapp.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: "Some required fields are missing or invalid",
			Details: verr.Fields,
		}
	}

	var pbe *checkoutapp.PaidButNotRecordedError
	if errors.As(err, &pbe) {
		return http.StatusBadGateway, ErrorResponse{
			Error:   "PAYMENT_NOT_RECORDED",
			Message: "Payment was successful but we could not update your order. Please contact support; do not pay again.",
		}
	}

	var perr *orderapp.PersistenceError
	if errors.As(err, &perr) {
		return http.StatusBadGateway, ErrorResponse{
			Error:   "PERSISTENCE_ERROR",
			Message: "We could not save your changes. Please try again.",
		}
	}

	status, code, msg := httpStatusFromError(err)
	return status, ErrorResponse{Error: code, Message: msg}
}

func abortWithError(c *gin.Context, err error) {
	status, body := errorResponseFor(err)
	c.AbortWithStatusJSON(status, body)
}
