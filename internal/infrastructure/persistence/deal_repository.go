package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDealRepository implements deal.Repository using GORM. Items load
// eagerly with the deal, ordered by creation so line order is stable.
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

func (r *GormDealRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("deal_items.created_at ASC")
	})
}

// FindByID finds a deal with its items
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Deal, error) {
	var d deal.Deal
	if err := r.withItems(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByIDForTenant finds a deal by ID within a tenant
func (r *GormDealRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*deal.Deal, error) {
	var d deal.Deal
	if err := r.withItems(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAllForTenant lists deals for a tenant, optionally filtered by stage
func (r *GormDealRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, status *deal.DealStatus, filter shared.Filter) ([]*deal.Deal, int64, error) {
	base := r.db.WithContext(ctx).Model(&deal.Deal{}).Where("tenant_id = ?", tenantID)
	if status != nil {
		base = base.Where("status = ?", status.String())
	}
	if filter.Search != "" {
		base = base.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deals []*deal.Deal
	query := applyFilter(base, filter).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("deal_items.created_at ASC")
	})
	if err := query.Find(&deals).Error; err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

// SumClosedTotals sums revenue and cost over final-stage deals, bounded
// inclusively by their closing time, matching the expense date filter
func (r *GormDealRepository) SumClosedTotals(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&deal.Deal{}).
		Where("tenant_id = ? AND status = ?", tenantID, deal.DealStatusFinalAccount.String())
	if from != nil {
		query = query.Where("closed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("closed_at <= ?", *to)
	}

	var row struct {
		Revenue decimal.Decimal
		Cogs    decimal.Decimal
	}
	err := query.
		Select("COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(total_cost), 0) AS cogs").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.Revenue, row.Cogs, nil
}

// Save persists the deal and its items
func (r *GormDealRepository) Save(ctx context.Context, d *deal.Deal) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(d).Error
}

// Delete removes a deal and its items
func (r *GormDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&deal.DealItem{}, "deal_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&deal.Deal{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteItem removes a single line row
func (r *GormDealRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&deal.DealItem{}, "id = ?", itemID).Error
}

var _ deal.Repository = (*GormDealRepository)(nil)
