package inventory

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLocation is the warehouse position rows fall into when receipts and
// deductions do not specify one.
const DefaultLocation = "default"

// InventoryPosition is the cached on-hand quantity per product and location.
// It is derived from batch movements and kept in sync transactionally; the
// batch ledger remains the source of truth.
type InventoryPosition struct {
	shared.BaseEntity
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_positions_tenant_product_location,priority:1"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_positions_tenant_product_location,priority:2"`
	Location         string          `gorm:"size:128;not null;default:'default';uniqueIndex:idx_positions_tenant_product_location,priority:3"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryPosition) TableName() string {
	return "inventory_positions"
}

// NewInventoryPosition creates an empty position for a product at a location
func NewInventoryPosition(tenantID, productID uuid.UUID, location string) *InventoryPosition {
	if location == "" {
		location = DefaultLocation
	}
	return &InventoryPosition{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ProductID:  productID,
		Location:   location,
		Quantity:   decimal.Zero,
	}
}

// Adjust applies a signed quantity delta. The position may go negative when
// the ledger and the cache have drifted; callers reconcile separately.
func (p *InventoryPosition) Adjust(delta decimal.Decimal) {
	p.Quantity = p.Quantity.Add(delta)
	p.Touch()
}

// AvailableQuantity returns on-hand minus reserved
func (p *InventoryPosition) AvailableQuantity() decimal.Decimal {
	return p.Quantity.Sub(p.ReservedQuantity)
}

// Reserve sets aside quantity for a pending deal
func (p *InventoryPosition) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if quantity.GreaterThan(p.AvailableQuantity()) {
		return shared.ErrInsufficientInventory
	}
	p.ReservedQuantity = p.ReservedQuantity.Add(quantity)
	p.Touch()
	return nil
}

// Release returns reserved quantity to available stock. Releasing more than
// is reserved clamps to zero.
func (p *InventoryPosition) Release(quantity decimal.Decimal) {
	p.ReservedQuantity = decimal.Max(decimal.Zero, p.ReservedQuantity.Sub(quantity))
	p.Touch()
}
