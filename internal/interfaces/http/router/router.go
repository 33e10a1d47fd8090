package router

import (
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers collects the API handlers the router wires up
type Handlers struct {
	Product   *handler.ProductHandler
	Client    *handler.ClientHandler
	Inventory *handler.InventoryHandler
	Deal      *handler.DealHandler
	Finance   *handler.FinanceHandler
}

// RegisterRoutes attaches all domain routes to the versioned API group
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	products := api.Group("/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)

	clients := api.Group("/clients")
	clients.POST("", h.Client.Create)
	clients.GET("", h.Client.List)
	clients.GET("/:id", h.Client.GetByID)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	inventory := api.Group("/inventory")
	inventory.POST("/receive", h.Inventory.ReceiveStock)
	inventory.POST("/quote", h.Inventory.QuoteCost)
	inventory.POST("/deduct", h.Inventory.DeductStock)
	inventory.POST("/reserve", h.Inventory.ReserveStock)
	inventory.POST("/release", h.Inventory.ReleaseStock)
	inventory.GET("/batches", h.Inventory.ListBatches)
	inventory.GET("/positions", h.Inventory.ListPositions)
	inventory.GET("/positions/:product_id", h.Inventory.GetPosition)

	deals := api.Group("/deals")
	deals.POST("", h.Deal.Create)
	deals.GET("", h.Deal.List)
	deals.POST("/recalculate", h.Deal.RecalculateAll)
	deals.GET("/:id", h.Deal.GetByID)
	deals.PATCH("/:id", h.Deal.Update)
	deals.DELETE("/:id", h.Deal.Delete)
	deals.PUT("/:id/status", h.Deal.SetStatus)
	deals.POST("/:id/items", h.Deal.AddItems)
	deals.DELETE("/:id/items/:item_id", h.Deal.RemoveItem)
	deals.POST("/:id/recalculate", h.Deal.Recalculate)
	deals.GET("/:id/profit", h.Deal.Profit)

	finance := api.Group("/finance")
	finance.GET("/report", h.Finance.Report)
	finance.GET("/monthly", h.Finance.MonthlyReport)
	finance.POST("/expenses", h.Finance.CreateExpense)
	finance.GET("/expenses", h.Finance.ListExpenses)
	finance.PUT("/expenses/:id", h.Finance.UpdateExpense)
	finance.DELETE("/expenses/:id", h.Finance.DeleteExpense)
	finance.GET("/settings", h.Finance.GetSettings)
	finance.PUT("/settings", h.Finance.UpdateSettings)
}
