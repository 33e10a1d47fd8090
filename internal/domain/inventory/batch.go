package inventory

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatch represents one inventory receipt event. A batch is created
// when stock arrives and its remaining quantity decreases monotonically as
// FIFO deduction consumes it. The received date carries no time component;
// it is the primary FIFO ordering key.
type InventoryBatch struct {
	shared.BaseEntity
	TenantID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID            `gorm:"type:uuid;not null;index:idx_inventory_batches_product_date,priority:1"`
	Quantity          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency          valueobject.Currency `gorm:"size:3;default:'KZT'"`
	ReceivedDate      time.Time            `gorm:"type:date;not null;index:idx_inventory_batches_product_date,priority:2"`
	SupplierID        *uuid.UUID           `gorm:"type:uuid"`
	Reference         string               `gorm:"size:255"`
	Location          *string              `gorm:"size:128"`
}

// TableName returns the table name for GORM
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// NewInventoryBatch creates a new receipt batch with remaining = received.
// Quantity and unit cost must both be positive.
func NewInventoryBatch(
	tenantID, productID uuid.UUID,
	quantity, unitCost decimal.Decimal,
	receivedDate time.Time,
	currency valueobject.Currency,
) (*InventoryBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	if unitCost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost must be positive")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	return &InventoryBatch{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		ProductID:         productID,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		UnitCost:          unitCost,
		Currency:          currency,
		ReceivedDate:      truncateToDate(receivedDate),
	}, nil
}

// Deduct reduces the batch remaining quantity and returns the quantity
// actually taken, which may be less than requested when the batch has less.
func (b *InventoryBatch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	take := decimal.Min(b.RemainingQuantity, quantity)
	b.RemainingQuantity = b.RemainingQuantity.Sub(take)
	b.Touch()
	return take
}

// HasStock returns true if the batch has unconsumed quantity
func (b *InventoryBatch) HasStock() bool {
	return b.RemainingQuantity.GreaterThan(decimal.Zero)
}

// IsFullyConsumed returns true when nothing remains in the batch
func (b *InventoryBatch) IsFullyConsumed() bool {
	return b.RemainingQuantity.IsZero()
}

// RemainingValue returns the value of the unconsumed quantity
func (b *InventoryBatch) RemainingValue() decimal.Decimal {
	return b.RemainingQuantity.Mul(b.UnitCost)
}

// truncateToDate strips the time component, keeping the calendar date in UTC
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
