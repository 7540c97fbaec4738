package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/johdel/machinery/internal/cart/app"
	cartdomain "github.com/johdel/machinery/internal/cart/domain"
	catalogapp "github.com/johdel/machinery/internal/catalog/app"
)

type CartHandler struct {
	carts   *cartapp.Service
	catalog *catalogapp.Service
}

func NewCartHandler(carts *cartapp.Service, catalog *catalogapp.Service) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

type cartResponse struct {
	Items    []cartdomain.Item `json:"items"`
	Subtotal int64             `json:"subtotal"`
}

func toCartResponse(cart cartdomain.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []cartdomain.Item{}
	}
	return cartResponse{Items: items, Subtotal: cart.Subtotal()}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), cartKey(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddItem handles POST /api/v1/cart/items. The product snapshot is
// taken from the catalog at add time and kept as-is on repeat adds.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	cart, err := h.carts.Add(c.Request.Context(), cartKey(c), cartdomain.ProductSnapshot{
		ID:         product.ID,
		Name:       product.Name,
		UnitAmount: product.UnitAmount,
		ImageURL:   product.ImageURL,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	cartMutations.WithLabelValues("add").Inc()
	c.JSON(http.StatusOK, toCartResponse(cart))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PUT /api/v1/cart/items/:productId. Quantity
// clamps at zero; the line stays until removed explicitly.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	cart, err := h.carts.SetQuantity(c.Request.Context(), cartKey(c), c.Param("productId"), req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}

	cartMutations.WithLabelValues("set_quantity").Inc()
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles DELETE /api/v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.carts.Remove(c.Request.Context(), cartKey(c), c.Param("productId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	cartMutations.WithLabelValues("remove").Inc()
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), cartKey(c)); err != nil {
		abortWithError(c, err)
		return
	}

	cartMutations.WithLabelValues("clear").Inc()
	c.Status(http.StatusNoContent)
}

type confirmationResponse struct {
	Added   bool   `json:"added"`
	Product string `json:"product,omitempty"`
}

// Confirmation handles GET /api/v1/cart/confirmation. The signal is
// one-shot: it reports the last add exactly once.
func (h *CartHandler) Confirmation(c *gin.Context) {
	p, ok := h.carts.ConsumeConfirmation(cartKey(c))
	if !ok {
		c.JSON(http.StatusOK, confirmationResponse{Added: false})
		return
	}
	c.JSON(http.StatusOK, confirmationResponse{Added: true, Product: p.Name})
}
