package finance

import (
	"time"

	"github.com/crm/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period bounds a financial query, either side may be open
type Period struct {
	From *time.Time
	To   *time.Time
}

// MonthPeriod returns the inclusive bounds of one calendar month in UTC,
// from the first midnight to the last instant of the final day
func MonthPeriod(year int, month time.Month) Period {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Period{From: &from, To: &to}
}

// Overrides are caller-supplied what-if inputs for the profitability
// calculation. Nil fields fall back to recorded data.
type Overrides struct {
	Opex          *decimal.Decimal `json:"opex"`
	FixedCosts    *decimal.Decimal `json:"fixed_costs"`
	VariableCosts *decimal.Decimal `json:"variable_costs"`
	TaxesPercent  *decimal.Decimal `json:"taxes_percent"`
	Revenue       *decimal.Decimal `json:"revenue"`
	COGS          *decimal.Decimal `json:"cogs"`
}

// RevenueAndCOGS is the aggregate over closed deals in a period
type RevenueAndCOGS struct {
	Revenue decimal.Decimal `json:"revenue"`
	COGS    decimal.Decimal `json:"cogs"`
}

// ExpenseRequest creates or updates an expense record
type ExpenseRequest struct {
	Title    string          `json:"title" binding:"required"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	IsFixed  bool            `json:"is_fixed"`
	Date     time.Time       `json:"date"`
	Comment  string          `json:"comment"`
}

// ExpenseDTO is the API view of an expense
type ExpenseDTO struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Category  string          `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	IsFixed   bool            `json:"is_fixed"`
	Date      string          `json:"date"`
	Comment   string          `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToExpenseDTO converts a domain expense to its API view
func ToExpenseDTO(e *finance.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:        e.ID,
		Title:     e.Title,
		Category:  e.Category,
		Amount:    e.Amount,
		Currency:  string(e.Currency),
		IsFixed:   e.IsFixed,
		Date:      e.Date.Format("2006-01-02"),
		Comment:   e.Comment,
		CreatedAt: e.CreatedAt,
	}
}

// SettingsDTO is the API view of the financial settings
type SettingsDTO struct {
	TaxRate decimal.Decimal `json:"tax_rate"`
}
