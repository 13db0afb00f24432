package router

import (
	"net/http"

	"pabrikku-be/internal/customer"
	"pabrikku-be/internal/metrics"
	"pabrikku-be/internal/middleware"
	"pabrikku-be/internal/order"
	"pabrikku-be/internal/product"
	"pabrikku-be/internal/stock"
	"pabrikku-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Orders      order.Service
	Coordinator *order.Coordinator
	Stock       stock.Service
	Products    product.Service
	Customers   customer.Service
	Users       user.Service
}

// Setup registers all HTTP routes.
func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.RequestID(), middleware.Logging())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	r.GET("/debug/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.L().Snapshot())
	})

	orders := &orderHandler{svc: deps.Orders, coord: deps.Coordinator}
	stocks := &stockHandler{svc: deps.Stock}
	products := &productHandler{svc: deps.Products}
	customers := &customerHandler{svc: deps.Customers}
	users := &userHandler{svc: deps.Users}

	r.POST("/api/login", middleware.RateLimitStrict(), users.login)

	api := r.Group("/api", middleware.RequireAuth(), middleware.RateLimitGeneral())
	{
		api.POST("/users", middleware.RequireRole("ADMIN"), users.register)
		api.GET("/users", middleware.RequireRole("ADMIN"), users.list)

		api.POST("/orders", orders.create)
		api.GET("/orders", orders.list)
		api.GET("/orders/:id", orders.detail)
		api.POST("/orders/:id/status", orders.setStatus)
		api.POST("/orders/:id/lines", orders.addLine)
		api.PATCH("/orders/:id/lines/:lineID", orders.updateLine)
		api.DELETE("/orders/:id/lines/:lineID", orders.removeLine)
		api.DELETE("/orders/:id", orders.softDelete)
		api.POST("/orders/:id/restore", orders.restore)
		api.DELETE("/orders/:id/purge", orders.purge)

		api.POST("/stock/batches", stocks.receiveBatch)
		api.GET("/stock", stocks.list)
		api.GET("/stock/low", stocks.listLowStock)
		api.GET("/stock/:id/availability", stocks.availability)
		api.POST("/stock/:id/status", stocks.markStatus)
		api.DELETE("/stock/:id", stocks.delete)

		api.POST("/products", products.create)
		api.GET("/products", products.list)
		api.GET("/products/:id", products.detail)
		api.PATCH("/products/:id", products.update)
		api.POST("/products/:id/archive", products.archive)
		api.POST("/products/:id/unarchive", products.unarchive)

		api.POST("/customers", customers.create)
		api.GET("/customers", customers.list)
		api.GET("/customers/:id", customers.detail)
		api.PATCH("/customers/:id", customers.update)
		api.DELETE("/customers/:id", customers.delete)
	}
}
