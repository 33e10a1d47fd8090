package handler

import (
	dealapp "github.com/crm/backend/internal/application/deal"
	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DealHandler handles deal-related API endpoints
type DealHandler struct {
	BaseHandler
	dealService *dealapp.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *dealapp.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// SetStatusRequest moves a deal to another pipeline stage
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddItemsRequest appends sold lines to an existing deal
type AddItemsRequest struct {
	Items []dealapp.AddItemRequest `json:"items" binding:"required,min=1"`
}

// Create opens a new deal, optionally with initial items.
// POST /deals
func (h *DealHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req dealapp.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.dealService.CreateDeal(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID returns one deal with its items.
// GET /deals/:id
func (h *DealHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	result, err := h.dealService.GetDeal(c.Request.Context(), tenantID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns deals, optionally narrowed to one pipeline stage.
// GET /deals?status=at_work
func (h *DealHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter := toFilter(req)

	var status *deal.DealStatus
	if s := c.Query("status"); s != "" {
		parsed := deal.DealStatus(s)
		if !parsed.IsValid() {
			h.BadRequest(c, "Unknown deal status: "+s)
			return
		}
		status = &parsed
	}

	result, err := h.dealService.ListDeals(c.Request.Context(), tenantID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update changes the mutable header fields of a deal.
// PATCH /deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req dealapp.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.dealService.UpdateDeal(c.Request.Context(), tenantID, dealID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItems appends sold lines to a deal, costing them from inventory.
// POST /deals/:id/items
func (h *DealHandler) AddItems(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.dealService.AddItems(c.Request.Context(), tenantID, dealID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem deletes one line from a deal and returns its stock.
// DELETE /deals/:id/items/:item_id
func (h *DealHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	result, err := h.dealService.RemoveItem(c.Request.Context(), tenantID, dealID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetStatus moves a deal to another pipeline stage.
// PUT /deals/:id/status
func (h *DealHandler) SetStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.dealService.SetStatus(c.Request.Context(), tenantID, dealID, deal.DealStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Recalculate rebuilds one deal's totals from its items.
// POST /deals/:id/recalculate
func (h *DealHandler) Recalculate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	result, err := h.dealService.RecalculateTotals(c.Request.Context(), tenantID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RecalculateAll repairs stored totals across every deal of the tenant.
// POST /deals/recalculate
func (h *DealHandler) RecalculateAll(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	report, err := h.dealService.RecalculateAllTotals(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Profit returns the margin view of one deal.
// GET /deals/:id/profit
func (h *DealHandler) Profit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	result, err := h.dealService.Profit(c.Request.Context(), tenantID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a deal and all of its items.
// DELETE /deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	if err := h.dealService.DeleteDeal(c.Request.Context(), tenantID, dealID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
