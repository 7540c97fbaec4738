package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_created_total",
		Help:      "Orders created through checkout.",
	})

	paymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "payment_outcomes_total",
		Help:      "Payment widget outcomes applied to orders.",
	}, []string{"outcome"})

	cartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_mutations_total",
		Help:      "Cart operations by kind.",
	}, []string{"op"})
)
