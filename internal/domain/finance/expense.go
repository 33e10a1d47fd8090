package finance

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is one recorded operating expense. Fixed expenses feed the
// break-even calculation, variable ones join cost of goods sold on the
// contribution side.
type Expense struct {
	shared.TenantAggregateRoot
	Title    string               `gorm:"size:255;not null"`
	Category string               `gorm:"size:64"`
	Amount   decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency valueobject.Currency `gorm:"size:3;default:'KZT'"`
	IsFixed  bool                 `gorm:"not null;default:false"`
	Date     time.Time            `gorm:"type:date;not null;index"`
	Comment  string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates an expense record
func NewExpense(tenantID uuid.UUID, title string, amount decimal.Decimal, isFixed bool, date time.Time) (*Expense, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Expense title cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Amount:              amount,
		Currency:            valueobject.DefaultCurrency,
		IsFixed:             isFixed,
		Date:                date,
	}, nil
}

// Update replaces the mutable fields of the expense
func (e *Expense) Update(title, category string, amount decimal.Decimal, isFixed bool, date time.Time) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Expense title cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	e.Title = title
	e.Category = category
	e.Amount = amount
	e.IsFixed = isFixed
	e.Date = date
	e.Touch()
	return nil
}

// ExpenseTotals splits recorded expenses into fixed and variable sums
type ExpenseTotals struct {
	Fixed    decimal.Decimal
	Variable decimal.Decimal
}

// Total returns fixed plus variable
func (t ExpenseTotals) Total() decimal.Decimal {
	return t.Fixed.Add(t.Variable)
}

// SumExpenses folds a list of expenses into fixed and variable totals
func SumExpenses(expenses []*Expense) ExpenseTotals {
	totals := ExpenseTotals{Fixed: decimal.Zero, Variable: decimal.Zero}
	for _, e := range expenses {
		if e.IsFixed {
			totals.Fixed = totals.Fixed.Add(e.Amount)
		} else {
			totals.Variable = totals.Variable.Add(e.Amount)
		}
	}
	return totals
}
