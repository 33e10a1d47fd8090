package inventory

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateType for inventory events
const AggregateType = "InventoryBatch"

// Event types
const (
	EventTypeStockReceived = "inventory.stock_received"
	EventTypeStockDeducted = "inventory.stock_deducted"
)

// StockReceivedEvent is published when a new receipt batch is recorded
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference,omitempty"`
}

// NewStockReceivedEvent creates a stock received event
func NewStockReceivedEvent(batch *InventoryBatch) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeStockReceived, AggregateType, batch.ID, batch.TenantID),
		ProductID: batch.ProductID,
		Quantity:  batch.Quantity,
		UnitCost:  batch.UnitCost,
		Reference: batch.Reference,
	}
}

// StockDeductedEvent is published after a FIFO deduction commits
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	DealID    *uuid.UUID      `json:"deal_id,omitempty"`
}

// NewStockDeductedEvent creates a stock deducted event
func NewStockDeductedEvent(tenantID, productID uuid.UUID, quantity decimal.Decimal, dealID *uuid.UUID) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeStockDeducted, AggregateType, productID, tenantID),
		ProductID: productID,
		Quantity:  quantity,
		DealID:    dealID,
	}
}
