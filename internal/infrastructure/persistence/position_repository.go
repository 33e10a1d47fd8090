package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/inventory"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPositionRepository implements inventory.PositionRepository using GORM
type GormPositionRepository struct {
	db *gorm.DB
}

// NewGormPositionRepository creates a new GormPositionRepository
func NewGormPositionRepository(db *gorm.DB) *GormPositionRepository {
	return &GormPositionRepository{db: db}
}

// FindByProduct returns the position for a product at a location
func (r *GormPositionRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, location string) (*inventory.InventoryPosition, error) {
	var position inventory.InventoryPosition
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND location = ?", tenantID, productID, location).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindAllForTenant lists positions for a tenant
func (r *GormPositionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.InventoryPosition, int64, error) {
	base := r.db.WithContext(ctx).Model(&inventory.InventoryPosition{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var positions []*inventory.InventoryPosition
	if err := applyFilter(base, filter).Find(&positions).Error; err != nil {
		return nil, 0, err
	}
	return positions, total, nil
}

// Save persists a position
func (r *GormPositionRepository) Save(ctx context.Context, position *inventory.InventoryPosition) error {
	return r.db.WithContext(ctx).Save(position).Error
}

var _ inventory.PositionRepository = (*GormPositionRepository)(nil)
