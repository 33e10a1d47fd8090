package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/inventory"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	var batch inventory.InventoryBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct returns all batches for a product in FIFO walk order
func (r *GormBatchRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*inventory.InventoryBatch, error) {
	var batches []*inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("received_date ASC, created_at ASC, id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAvailableByProduct returns batches with remaining stock in FIFO walk order
func (r *GormBatchRepository) FindAvailableByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*inventory.InventoryBatch, error) {
	var batches []*inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND remaining_quantity > 0", tenantID, productID).
		Order("received_date ASC, created_at ASC, id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAvailableByProductForUpdate locks the available batch rows until the
// surrounding transaction finishes, serializing concurrent deductions of the
// same product
func (r *GormBatchRepository) FindAvailableByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) ([]*inventory.InventoryBatch, error) {
	var batches []*inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ? AND remaining_quantity > 0", tenantID, productID).
		Order("received_date ASC, created_at ASC, id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAllForTenant lists batches for a tenant with pagination
func (r *GormBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.InventoryBatch, int64, error) {
	base := r.db.WithContext(ctx).Model(&inventory.InventoryBatch{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var batches []*inventory.InventoryBatch
	if err := applyFilter(base, filter).Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// Save persists a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.InventoryBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveAll persists a set of batches in one call
func (r *GormBatchRepository) SaveAll(ctx context.Context, batches []*inventory.InventoryBatch) error {
	if len(batches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(batches).Error
}

// Delete removes a batch
func (r *GormBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryBatch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
