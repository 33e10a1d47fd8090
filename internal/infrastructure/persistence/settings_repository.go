package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/finance"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements finance.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindForTenant returns the settings row, shared.ErrNotFound when none exist
func (r *GormSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*finance.FinancialSettings, error) {
	var settings finance.FinancialSettings
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save upserts the settings on the tenant unique key
func (r *GormSettingsRepository) Save(ctx context.Context, settings *finance.FinancialSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			UpdateAll: true,
		}).
		Save(settings).Error
}

var _ finance.SettingsRepository = (*GormSettingsRepository)(nil)
