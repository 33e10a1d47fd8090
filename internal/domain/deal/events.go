package deal

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateType for deal events
const AggregateType = "Deal"

// Event types
const (
	EventTypeDealCreated       = "deal.created"
	EventTypeDealItemAdded     = "deal.item_added"
	EventTypeDealStatusChanged = "deal.status_changed"
)

// DealCreatedEvent is published when a deal is opened
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	Title    string     `json:"title"`
	ClientID *uuid.UUID `json:"client_id,omitempty"`
}

// NewDealCreatedEvent creates a deal created event
func NewDealCreatedEvent(d *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, AggregateType, d.ID, d.TenantID),
		Title:           d.Title,
		ClientID:        d.ClientID,
	}
}

// DealItemAddedEvent is published when a sold line lands on a deal
type DealItemAddedEvent struct {
	shared.BaseDomainEvent
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// NewDealItemAddedEvent creates a deal item added event
func NewDealItemAddedEvent(d *Deal, item *DealItem) *DealItemAddedEvent {
	return &DealItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealItemAdded, AggregateType, d.ID, d.TenantID),
		ItemID:          item.ID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		UnitCost:        item.UnitCost,
	}
}

// DealStatusChangedEvent is published on every stage move
type DealStatusChangedEvent struct {
	shared.BaseDomainEvent
	From DealStatus `json:"from"`
	To   DealStatus `json:"to"`
}

// NewDealStatusChangedEvent creates a status changed event
func NewDealStatusChangedEvent(d *Deal, previous DealStatus) *DealStatusChangedEvent {
	return &DealStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealStatusChanged, AggregateType, d.ID, d.TenantID),
		From:            previous,
		To:              d.Status,
	}
}
