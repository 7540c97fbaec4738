package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johdel/machinery/internal/auth"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Admin    *AdminHandler
	Webhook  *WebhookHandler
}

// NewRouter builds the gin engine with all storefront routes mounted.
// Checkout, order and admin groups sit behind the session guard; the
// admin group additionally requires the admin role from the profiles
// store.
func NewRouter(h Handlers, authClient auth.Client, profiles auth.ProfileRepo, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CartKey())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)

	api.GET("/products", h.Products.List)
	api.GET("/products/:id", h.Products.Get)

	cart := api.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:productId", h.Cart.SetQuantity)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
		cart.GET("/confirmation", h.Cart.Confirmation)
	}

	checkout := api.Group("/checkout")
	checkout.Use(RequireSession(authClient, log))
	{
		checkout.POST("/quote", h.Checkout.Quote)
		checkout.POST("/orders", h.Checkout.CreateOrUpdateOrder)
		checkout.POST("/orders/:id/pay", h.Checkout.BeginPayment)
		checkout.POST("/orders/:id/outcome", h.Checkout.PaymentOutcome)
		checkout.GET("/orders/:id/resume", h.Checkout.Resume)
	}

	orders := api.Group("/orders")
	orders.Use(RequireSession(authClient, log))
	{
		orders.GET("", h.Orders.ListMine)
		orders.GET("/:id", h.Orders.GetMine)
	}

	api.POST("/payments/webhook", h.Webhook.HandlePaystack)

	admin := api.Group("/admin")
	admin.Use(RequireSession(authClient, log))
	admin.Use(RequireRole(auth.RoleAdmin, profiles, log))
	{
		admin.POST("/products", h.Admin.CreateProduct)
		admin.PUT("/products/:id", h.Admin.UpdateProduct)
		admin.DELETE("/products/:id", h.Admin.DeleteProduct)
		admin.POST("/products/:id/stock", h.Admin.AdjustStock)
		admin.POST("/products/:id/image", h.Admin.UploadImage)
		admin.GET("/orders", h.Admin.ListOrders)
		admin.POST("/orders/:id/ship", h.Admin.ShipOrder)
		admin.GET("/users", h.Admin.ListUsers)
	}

	return r
}
