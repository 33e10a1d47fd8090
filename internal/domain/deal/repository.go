package deal

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository manages deal aggregates. Loading a deal always loads its items.
type Repository interface {
	// FindByID finds a deal with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)

	// FindByIDForTenant finds a deal scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Deal, error)

	// FindAllForTenant lists deals for a tenant, optionally filtered by stage
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, status *DealStatus, filter shared.Filter) ([]*Deal, int64, error)

	// SumClosedTotals sums total price and total cost over deals in the
	// final stage, optionally bounded by their closing time. Either bound
	// may be nil.
	SumClosedTotals(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (revenue, cogs decimal.Decimal, err error)

	// Save persists the deal and its items
	Save(ctx context.Context, d *Deal) error

	// Delete removes a deal and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteItem removes a single line row
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}
