package inventory

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository manages the inventory receipt ledger
type BatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryBatch, error)

	// FindByProduct returns all batches for a product ordered oldest first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*InventoryBatch, error)

	// FindAvailableByProduct returns batches with remaining stock ordered
	// oldest first
	FindAvailableByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*InventoryBatch, error)

	// FindAvailableByProductForUpdate locks the available batches for the
	// duration of the surrounding transaction
	FindAvailableByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) ([]*InventoryBatch, error)

	// FindAllForTenant lists batches for a tenant with pagination
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*InventoryBatch, int64, error)

	// Save persists a batch
	Save(ctx context.Context, batch *InventoryBatch) error

	// SaveAll persists a set of batches in one call
	SaveAll(ctx context.Context, batches []*InventoryBatch) error

	// Delete removes a batch
	Delete(ctx context.Context, id uuid.UUID) error
}

// PositionRepository manages the cached on-hand positions
type PositionRepository interface {
	// FindByProduct returns the position for a product at a location,
	// shared.ErrNotFound when none exists yet
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, location string) (*InventoryPosition, error)

	// FindAllForTenant lists positions for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*InventoryPosition, int64, error)

	// Save persists a position
	Save(ctx context.Context, position *InventoryPosition) error
}
