package handler

import (
	"strconv"
	"time"

	financeapp "github.com/crm/backend/internal/application/finance"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceHandler handles financial reporting API endpoints
type FinanceHandler struct {
	BaseHandler
	financeService *financeapp.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// UpdateSettingsRequest sets the tenant-wide tax rate
type UpdateSettingsRequest struct {
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// parsePeriod reads optional from/to query bounds
func parsePeriod(c *gin.Context) (financeapp.Period, error) {
	var period financeapp.Period
	if s := c.Query("from"); s != "" {
		t, err := parseDateTime(s)
		if err != nil {
			return period, err
		}
		period.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := parseDateTime(s)
		if err != nil {
			return period, err
		}
		period.To = &t
	}
	return period, nil
}

// parseOverrides reads optional what-if inputs from query parameters. A
// present parameter replaces the recorded figure entirely.
func parseOverrides(c *gin.Context) (financeapp.Overrides, error) {
	var overrides financeapp.Overrides
	fields := []struct {
		name string
		dest **decimal.Decimal
	}{
		{"opex", &overrides.Opex},
		{"fixed_costs", &overrides.FixedCosts},
		{"variable_costs", &overrides.VariableCosts},
		{"taxes_percent", &overrides.TaxesPercent},
		{"revenue", &overrides.Revenue},
		{"cogs", &overrides.COGS},
	}
	for _, f := range fields {
		s := c.Query(f.name)
		if s == "" {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return overrides, err
		}
		*f.dest = &d
	}
	return overrides, nil
}

// Report computes the profitability report over an arbitrary period.
// GET /finance/report?from=&to=&opex=&taxes_percent=...
func (h *FinanceHandler) Report(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, "Invalid period bounds: "+err.Error())
		return
	}

	overrides, err := parseOverrides(c)
	if err != nil {
		h.BadRequest(c, "Invalid override value: "+err.Error())
		return
	}

	report, err := h.financeService.ComputeFinancials(c.Request.Context(), tenantID, period, overrides)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// MonthlyReport computes the profitability report for one calendar month.
// GET /finance/monthly?year=2026&month=8
func (h *FinanceHandler) MonthlyReport(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()

	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			h.BadRequest(c, "Invalid year")
			return
		}
		year = y
	}
	if s := c.Query("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			h.BadRequest(c, "Invalid month")
			return
		}
		month = time.Month(m)
	}

	overrides, err := parseOverrides(c)
	if err != nil {
		h.BadRequest(c, "Invalid override value: "+err.Error())
		return
	}

	report, err := h.financeService.MonthlyFinancials(c.Request.Context(), tenantID, year, month, overrides)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// CreateExpense records a new expense.
// POST /finance/expenses
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req financeapp.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	expense, err := h.financeService.CreateExpense(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, expense)
}

// UpdateExpense rewrites an expense record.
// PUT /finance/expenses/:id
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req financeapp.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	expense, err := h.financeService.UpdateExpense(c.Request.Context(), tenantID, expenseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// ListExpenses returns expense records.
// GET /finance/expenses
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
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

	result, err := h.financeService.ListExpenses(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// DeleteExpense removes an expense record.
// DELETE /finance/expenses/:id
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	if err := h.financeService.DeleteExpense(c.Request.Context(), tenantID, expenseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetSettings returns the tenant's financial settings.
// GET /finance/settings
func (h *FinanceHandler) GetSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	settings, err := h.financeService.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// UpdateSettings sets the tenant's tax rate.
// PUT /finance/settings
func (h *FinanceHandler) UpdateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.financeService.UpdateSettings(c.Request.Context(), tenantID, req.TaxRate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}
