package httpapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/johdel/machinery/internal/auth"
	catalogapp "github.com/johdel/machinery/internal/catalog/app"
	catalogdomain "github.com/johdel/machinery/internal/catalog/domain"
	orderapp "github.com/johdel/machinery/internal/order/app"
	"github.com/johdel/machinery/internal/storage"
)

type AdminHandler struct {
	catalog  *catalogapp.Service
	orders   *orderapp.Service
	profiles auth.ProfileRepo
	uploader storage.Uploader
}

func NewAdminHandler(catalog *catalogapp.Service, orders *orderapp.Service, profiles auth.ProfileRepo, uploader storage.Uploader) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		orders:   orders,
		profiles: profiles,
		uploader: uploader,
	}
}

type productRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=1"`
	Category    string `json:"category"`
	Stock       int    `json:"stock" binding:"min=0"`
	ImageURL    string `json:"image_url"`
	Featured    bool   `json:"featured"`
}

// CreateProduct handles POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid product",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), catalogdomain.Product{
		Name:        req.Name,
		Description: req.Description,
		UnitAmount:  req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid product",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), catalogdomain.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		UnitAmount:  req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type stockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock handles POST /api/v1/admin/products/:id/stock
func (h *AdminHandler) AdjustStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "delta is required",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// UploadImage handles POST /api/v1/admin/products/:id/image. The file
// goes to object storage under a generated path and the product record
// gets the returned public URL.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "image file is required",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer f.Close()

	path := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.uploader.Upload(c.Request.Context(), path, contentType, f, fileHeader.Size, nil)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "PERSISTENCE_ERROR",
			Message: "Image upload failed. Please try again.",
		})
		return
	}

	product.ImageURL = url
	updated, err := h.catalog.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(updated))
}

// ListOrders handles GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	orders, err := h.orders.ListAll(c.Request.Context(), limit)
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

// ShipOrder handles POST /api/v1/admin/orders/:id/ship, the manual
// counterpart of the fulfillment consumer.
func (h *AdminHandler) ShipOrder(c *gin.Context) {
	order, err := h.orders.MarkShipped(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	profiles, err := h.profiles.List(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
