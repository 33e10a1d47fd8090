package catalog

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product in the catalog.
// DefaultCost and DefaultPrice are tenant-configured fallbacks used when
// FIFO costing has no batches to draw from or a line item carries no price.
type Product struct {
	shared.TenantAggregateRoot
	SKU          string               `gorm:"size:64;index:idx_products_tenant_sku,priority:2"`
	Title        string               `gorm:"size:255;not null"`
	Description  string               `gorm:"type:text"`
	Category     string               `gorm:"size:128;index"`
	DefaultCost  *decimal.Decimal     `gorm:"type:decimal(18,2)"`
	DefaultPrice *decimal.Decimal     `gorm:"type:decimal(18,2)"`
	Currency     valueobject.Currency `gorm:"size:3;default:'KZT'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, title string) (*Product, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Currency:            valueobject.DefaultCurrency,
	}, nil
}

// SetDefaultCost sets the fallback unit cost
func (p *Product) SetDefaultCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Default cost cannot be negative")
	}
	p.DefaultCost = &cost
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetDefaultPrice sets the fallback unit price
func (p *Product) SetDefaultPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Default price cannot be negative")
	}
	p.DefaultPrice = &price
	p.Touch()
	p.IncrementVersion()
	return nil
}

// HasDefaultCost returns true if a fallback cost is configured
func (p *Product) HasDefaultCost() bool {
	return p.DefaultCost != nil
}

// HasDefaultPrice returns true if a fallback price is configured
func (p *Product) HasDefaultPrice() bool {
	return p.DefaultPrice != nil
}
