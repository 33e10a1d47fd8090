package catalog

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindAllForTenant returns a page of products for a tenant along with
	// the total match count
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product (cascades to its inventory batches and positions)
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForTenant counts the tenant's products
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
