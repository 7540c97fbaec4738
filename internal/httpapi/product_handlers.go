package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/johdel/machinery/internal/catalog/app"
	catalogdomain "github.com/johdel/machinery/internal/catalog/domain"
)

type ProductHandler struct {
	catalog *catalogapp.Service
}

func NewProductHandler(catalog *catalogapp.Service) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
	Featured    bool   `json:"featured"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.UnitAmount,
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Featured:    p.Featured,
	}
}

// List handles GET /api/v1/products with optional category, featured
// and limit query params.
func (h *ProductHandler) List(c *gin.Context) {
	filter := catalogapp.ListFilter{Category: c.Query("category")}

	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}
