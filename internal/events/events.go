// Package events carries paid orders to the fulfillment pipeline over
// RabbitMQ. Fulfillment owns the paid -> shipped transition; the
// storefront only publishes.
package events

import "time"

type OrderPaidEvent struct {
	OrderID          string    `json:"order_id"`
	UserID           string    `json:"user_id"`
	UserEmail        string    `json:"user_email"`
	TotalAmount      int64     `json:"total_amount"`
	PaymentReference string    `json:"payment_reference"`
	PaidAt           time.Time `json:"paid_at"`
	Items            []Item    `json:"items"`
}

type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}
