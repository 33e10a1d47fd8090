package inventory

import (
	"time"

	"github.com/crm/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiveStockRequest records a new inventory receipt
type ReceiveStockRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost     decimal.Decimal `json:"unit_cost" binding:"required"`
	ReceivedDate time.Time       `json:"received_date"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
	Reference    string          `json:"reference"`
	Location     *string         `json:"location"`
}

// CostQuote is the answer to a costing query: what would taking this
// quantity cost right now, without touching the stock.
type CostQuote struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	FromDefaultCost   bool            `json:"from_default_cost"`
}

// BatchDTO is the API view of a receipt batch
type BatchDTO struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Currency          string          `json:"currency"`
	ReceivedDate      string          `json:"received_date"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Location          *string         `json:"location,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToBatchDTO converts a domain batch to its API view
func ToBatchDTO(b *inventory.InventoryBatch) BatchDTO {
	return BatchDTO{
		ID:                b.ID,
		ProductID:         b.ProductID,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		UnitCost:          b.UnitCost,
		Currency:          string(b.Currency),
		ReceivedDate:      b.ReceivedDate.Format("2006-01-02"),
		SupplierID:        b.SupplierID,
		Reference:         b.Reference,
		Location:          b.Location,
		CreatedAt:         b.CreatedAt,
	}
}

// PositionDTO is the API view of an on-hand position
type PositionDTO struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Location          string          `json:"location"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

// ToPositionDTO converts a domain position to its API view
func ToPositionDTO(p *inventory.InventoryPosition) PositionDTO {
	return PositionDTO{
		ProductID:         p.ProductID,
		Location:          p.Location,
		Quantity:          p.Quantity,
		ReservedQuantity:  p.ReservedQuantity,
		AvailableQuantity: p.AvailableQuantity(),
	}
}
