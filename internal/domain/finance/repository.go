package finance

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExpenseRepository manages the expense ledger
type ExpenseRepository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindByIDForTenant finds an expense scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)

	// FindAllForTenant lists expenses for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Expense, int64, error)

	// FindInPeriod returns expenses dated within [from, to], either bound
	// may be nil
	FindInPeriod(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]*Expense, error)

	// Save persists an expense
	Save(ctx context.Context, expense *Expense) error

	// Delete removes an expense
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository manages the per-tenant financial settings row
type SettingsRepository interface {
	// FindForTenant returns the settings, shared.ErrNotFound when none exist
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*FinancialSettings, error)

	// Save persists the settings
	Save(ctx context.Context, settings *FinancialSettings) error
}
