package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/johdel/machinery/internal/auth"
	catalogapp "github.com/johdel/machinery/internal/catalog/app"
	checkoutapp "github.com/johdel/machinery/internal/checkout/app"
	orderapp "github.com/johdel/machinery/internal/order/app"
)

func TestErrorResponseFor(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", checkoutapp.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"no session", auth.ErrNoSession, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"not owner", orderapp.ErrNotOwner, http.StatusForbidden, "UNAUTHORIZED"},
		{"order not found", orderapp.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"product not found", catalogapp.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"empty cart", checkoutapp.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"already paid", checkoutapp.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID"},
		{"out of stock", catalogapp.ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK"},
		{"illegal transition", orderapp.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"gateway unreachable", checkoutapp.ErrPaymentGateway, http.StatusBadGateway, "PAYMENT_FAILED"},
		{"wrapped not found", fmt.Errorf("load order: %w", orderapp.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := errorResponseFor(tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", status, tc.wantStatus)
			}
			if body.Error != tc.wantCode {
				t.Fatalf("code = %q, want %q", body.Error, tc.wantCode)
			}
		})
	}
}

func TestErrorResponseForValidation(t *testing.T) {
	err := &checkoutapp.ValidationError{Fields: []checkoutapp.FieldError{
		{Field: "city", Message: "required"},
		{Field: "email", Message: "email"},
	}}

	status, body := errorResponseFor(err)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", status, http.StatusUnprocessableEntity)
	}
	if body.Error != "VALIDATION_FAILED" {
		t.Fatalf("code = %q", body.Error)
	}
	fields, ok := body.Details.([]checkoutapp.FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("details should list both failing fields, got %#v", body.Details)
	}
}

func TestErrorResponseForPaidButNotRecorded(t *testing.T) {
	// The wrapped persistence error must not shadow the
	// support-contact message.
	err := &checkoutapp.PaidButNotRecordedError{
		OrderID: "ord-1",
		Err:     &orderapp.PersistenceError{Op: "update-status", Err: errors.New("down")},
	}

	status, body := errorResponseFor(err)
	if status != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", status, http.StatusBadGateway)
	}
	if body.Error != "PAYMENT_NOT_RECORDED" {
		t.Fatalf("code = %q, want PAYMENT_NOT_RECORDED", body.Error)
	}
}

func TestErrorResponseForPersistence(t *testing.T) {
	err := &orderapp.PersistenceError{Op: "insert", Err: errors.New("connection refused")}

	status, body := errorResponseFor(err)
	if status != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", status, http.StatusBadGateway)
	}
	if body.Error != "PERSISTENCE_ERROR" {
		t.Fatalf("code = %q, want PERSISTENCE_ERROR", body.Error)
	}
}
