package finance

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/domain/finance"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceService aggregates revenue, expenses and settings into the
// profitability report, and manages the expense ledger
type FinanceService struct {
	dealRepo     deal.Repository
	expenseRepo  finance.ExpenseRepository
	settingsRepo finance.SettingsRepository
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(
	dealRepo deal.Repository,
	expenseRepo finance.ExpenseRepository,
	settingsRepo finance.SettingsRepository,
) *FinanceService {
	return &FinanceService{
		dealRepo:     dealRepo,
		expenseRepo:  expenseRepo,
		settingsRepo: settingsRepo,
	}
}

// AggregateRevenueAndCOGS sums total price and total cost over the closed
// deals of the period. Only deals in the final stage count.
func (s *FinanceService) AggregateRevenueAndCOGS(ctx context.Context, tenantID uuid.UUID, period Period) (*RevenueAndCOGS, error) {
	revenue, cogs, err := s.dealRepo.SumClosedTotals(ctx, tenantID, period.From, period.To)
	if err != nil {
		return nil, err
	}
	return &RevenueAndCOGS{Revenue: revenue, COGS: cogs}, nil
}

// ExpenseTotals splits the period's recorded expenses into fixed and
// variable sums
func (s *FinanceService) ExpenseTotals(ctx context.Context, tenantID uuid.UUID, period Period) (finance.ExpenseTotals, error) {
	expenses, err := s.expenseRepo.FindInPeriod(ctx, tenantID, period.From, period.To)
	if err != nil {
		return finance.ExpenseTotals{}, err
	}
	return finance.SumExpenses(expenses), nil
}

// TaxRate returns the tenant's configured profit tax rate, zero when no
// settings row exists
func (s *FinanceService) TaxRate(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return settings.TaxRate, nil
}

// ComputeFinancials builds the full profitability report for a period.
// Overrides replace the corresponding recorded figures; revenue and COGS
// overrides skip the deal aggregation entirely when both are present.
func (s *FinanceService) ComputeFinancials(ctx context.Context, tenantID uuid.UUID, period Period, overrides Overrides) (*finance.FinancialReport, error) {
	var revenue, cogs decimal.Decimal
	if overrides.Revenue != nil && overrides.COGS != nil {
		revenue = *overrides.Revenue
		cogs = *overrides.COGS
	} else {
		agg, err := s.AggregateRevenueAndCOGS(ctx, tenantID, period)
		if err != nil {
			return nil, err
		}
		revenue = agg.Revenue
		cogs = agg.COGS
		if overrides.Revenue != nil {
			revenue = *overrides.Revenue
		}
		if overrides.COGS != nil {
			cogs = *overrides.COGS
		}
	}

	totals, err := s.ExpenseTotals(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	taxRate := decimal.Zero
	if overrides.TaxesPercent != nil {
		taxRate = *overrides.TaxesPercent
	} else {
		taxRate, err = s.TaxRate(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	input := finance.FinancialInput{
		Revenue:        revenue,
		COGS:           cogs,
		Expenses:       totals,
		TaxRate:        taxRate,
		ManualVariable: overrides.VariableCosts,
	}
	if overrides.Opex != nil {
		input.ManualOpex = *overrides.Opex
	}
	if overrides.FixedCosts != nil {
		input.ManualFixed = *overrides.FixedCosts
	}

	report := finance.ComputeFinancials(input)
	return &report, nil
}

// MonthlyFinancials builds the profitability report for one calendar month
func (s *FinanceService) MonthlyFinancials(ctx context.Context, tenantID uuid.UUID, year int, month time.Month, overrides Overrides) (*finance.FinancialReport, error) {
	return s.ComputeFinancials(ctx, tenantID, MonthPeriod(year, month), overrides)
}

// CreateExpense records a new expense
func (s *FinanceService) CreateExpense(ctx context.Context, tenantID uuid.UUID, req ExpenseRequest) (*ExpenseDTO, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	expense, err := finance.NewExpense(tenantID, req.Title, req.Amount, req.IsFixed, date)
	if err != nil {
		return nil, err
	}
	expense.Category = req.Category
	expense.Comment = req.Comment

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	dto := ToExpenseDTO(expense)
	return &dto, nil
}

// UpdateExpense replaces the fields of an existing expense
func (s *FinanceService) UpdateExpense(ctx context.Context, tenantID, expenseID uuid.UUID, req ExpenseRequest) (*ExpenseDTO, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = expense.Date
	}
	if err := expense.Update(req.Title, req.Category, req.Amount, req.IsFixed, date); err != nil {
		return nil, err
	}
	expense.Comment = req.Comment

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	dto := ToExpenseDTO(expense)
	return &dto, nil
}

// ListExpenses lists expenses for a tenant
func (s *FinanceService) ListExpenses(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ExpenseDTO], error) {
	expenses, total, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, ToExpenseDTO(e))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteExpense removes an expense
func (s *FinanceService) DeleteExpense(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, expense.ID)
}

// GetSettings returns the tenant's financial settings, defaults when none
// were saved yet
func (s *FinanceService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*SettingsDTO, error) {
	rate, err := s.TaxRate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &SettingsDTO{TaxRate: rate}, nil
}

// UpdateSettings sets the tenant's profit tax rate, creating the settings
// row on first use
func (s *FinanceService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, taxRate decimal.Decimal) (*SettingsDTO, error) {
	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		settings, err = finance.NewFinancialSettings(tenantID, taxRate)
		if err != nil {
			return nil, err
		}
	} else if err := settings.SetTaxRate(taxRate); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return &SettingsDTO{TaxRate: settings.TaxRate}, nil
}
