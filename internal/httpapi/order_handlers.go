package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/johdel/machinery/internal/order/app"
)

type OrderHandler struct {
	orders *orderapp.Service
}

func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListMine handles GET /api/v1/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		rejectUnauthenticated(c)
		return
	}

	orders, err := h.orders.ListForUser(c.Request.Context(), sess.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

// GetMine handles GET /api/v1/orders/:id. Ownership is enforced on
// every read; the response carries the status presentation the
// confirmation page renders.
func (h *OrderHandler) GetMine(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		rejectUnauthenticated(c)
		return
	}

	order, err := h.orders.GetForUser(c.Request.Context(), sess.UserID, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
