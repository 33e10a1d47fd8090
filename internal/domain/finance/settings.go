package finance

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialSettings holds the per-tenant finance configuration. One row per
// tenant; a missing row means a zero tax rate.
type FinancialSettings struct {
	shared.BaseEntity
	TenantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (FinancialSettings) TableName() string {
	return "financial_settings"
}

// NewFinancialSettings creates settings for a tenant
func NewFinancialSettings(tenantID uuid.UUID, taxRate decimal.Decimal) (*FinancialSettings, error) {
	s := &FinancialSettings{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
	}
	if err := s.SetTaxRate(taxRate); err != nil {
		return nil, err
	}
	return s, nil
}

// SetTaxRate updates the profit tax rate, a percentage in [0, 100]
func (s *FinancialSettings) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	s.TaxRate = rate
	s.Touch()
	return nil
}
