package deal

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus represents the pipeline stage of a deal
type DealStatus string

const (
	DealStatusNew               DealStatus = "new"
	DealStatusPreparingDocument DealStatus = "preparing_document"
	DealStatusPrepaidAccount    DealStatus = "prepaid_account"
	DealStatusAtWork            DealStatus = "at_work"
	DealStatusFinalAccount      DealStatus = "final_account"
)

// IsValid checks if the status is a known pipeline stage
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusNew, DealStatusPreparingDocument, DealStatusPrepaidAccount,
		DealStatusAtWork, DealStatusFinalAccount:
		return true
	}
	return false
}

// String returns the string representation of DealStatus
func (s DealStatus) String() string {
	return string(s)
}

// IsFinal reports whether the stage closes the deal
func (s DealStatus) IsFinal() bool {
	return s == DealStatusFinalAccount
}

// DealItem is one sold line on a deal. Unit cost is fixed at the moment the
// line is added, from the FIFO walk over the inventory batches available
// then, and never re-derived afterwards.
type DealItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DealID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	ProductSKU string          `gorm:"size:64"`
	Title      string          `gorm:"size:255"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (DealItem) TableName() string {
	return "deal_items"
}

// NewDealItem creates a deal line with totals derived from the unit figures
func NewDealItem(dealID, productID uuid.UUID, sku, title string, quantity, unitPrice, unitCost decimal.Decimal) (*DealItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &DealItem{
		ID:         uuid.New(),
		DealID:     dealID,
		ProductID:  productID,
		ProductSKU: sku,
		Title:      title,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		UnitCost:   unitCost,
		TotalPrice: quantity.Mul(unitPrice),
		TotalCost:  quantity.Mul(unitCost),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Deal is the aggregate root for a sale. TotalPrice, TotalCost and Margin are
// stored sums over the items; Margin equals TotalPrice minus TotalCost after
// every mutation.
type Deal struct {
	shared.TenantAggregateRoot
	Title      string               `gorm:"size:255;not null"`
	ClientID   *uuid.UUID           `gorm:"type:uuid;index"`
	Items      []DealItem           `gorm:"foreignKey:DealID;references:ID"`
	TotalPrice decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCost  decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Margin     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Currency   valueobject.Currency `gorm:"size:3;default:'KZT'"`
	Status     DealStatus           `gorm:"size:32;not null;default:'new'"`
	Comment    string               `gorm:"type:text"`
	ClosedAt   *time.Time

	// Descriptive header fields, all optional
	Source         *string    `gorm:"size:255"`
	SourceDetails  *string    `gorm:"type:text"`
	DealType       *string    `gorm:"size:64"`
	ResponsibleID  *uuid.UUID `gorm:"type:uuid;index"`
	StartDate      *time.Time
	CompletionDate *time.Time
}

// TableName returns the table name for GORM
func (Deal) TableName() string {
	return "deals"
}

// NewDeal creates a deal in the new stage with no items
func NewDeal(tenantID uuid.UUID, title string, clientID *uuid.UUID) (*Deal, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}

	d := &Deal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		ClientID:            clientID,
		Items:               make([]DealItem, 0),
		TotalPrice:          decimal.Zero,
		TotalCost:           decimal.Zero,
		Margin:              decimal.Zero,
		Currency:            valueobject.DefaultCurrency,
		Status:              DealStatusNew,
	}

	d.AddDomainEvent(NewDealCreatedEvent(d))

	return d, nil
}

// AddItem appends a sold line and folds its totals into the deal. The same
// product may appear on several lines; each carries the cost of its own
// moment of sale.
func (d *Deal) AddItem(productID uuid.UUID, sku, title string, quantity, unitPrice, unitCost decimal.Decimal) (*DealItem, error) {
	item, err := NewDealItem(d.ID, productID, sku, title, quantity, unitPrice, unitCost)
	if err != nil {
		return nil, err
	}

	d.Items = append(d.Items, *item)
	d.TotalPrice = d.TotalPrice.Add(item.TotalPrice)
	d.TotalCost = d.TotalCost.Add(item.TotalCost)
	d.Margin = d.TotalPrice.Sub(d.TotalCost)
	d.Touch()

	d.AddDomainEvent(NewDealItemAddedEvent(d, item))

	return item, nil
}

// RemoveItem deletes a line and re-sums the totals from the remaining items,
// so a deal whose stored totals had drifted heals on removal.
func (d *Deal) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range d.Items {
		if item.ID == itemID {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			d.RecalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Deal item not found")
}

// RecalculateTotals re-derives the stored totals from the item lines. It
// reports whether any stored figure actually changed, so batch repair can
// count affected deals. Calling it on a consistent deal changes nothing.
func (d *Deal) RecalculateTotals() bool {
	price := decimal.Zero
	cost := decimal.Zero
	for _, item := range d.Items {
		price = price.Add(item.Quantity.Mul(item.UnitPrice))
		cost = cost.Add(item.Quantity.Mul(item.UnitCost))
	}
	margin := price.Sub(cost)

	changed := !d.TotalPrice.Equal(price) || !d.TotalCost.Equal(cost) || !d.Margin.Equal(margin)
	if changed {
		d.TotalPrice = price
		d.TotalCost = cost
		d.Margin = margin
		d.Touch()
	}
	return changed
}

// SetStatus moves the deal to another pipeline stage. Stages are free form,
// any stage may follow any other. Every move into the final stage stamps
// ClosedAt in UTC, also when the deal already sits there; leaving the final
// stage keeps the stamp, so ClosedAt records the latest closing.
func (d *Deal) SetStatus(status DealStatus) error {
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}

	previous := d.Status
	d.Status = status
	if status.IsFinal() {
		now := time.Now().UTC()
		d.ClosedAt = &now
	}
	d.Touch()

	if status != previous {
		d.AddDomainEvent(NewDealStatusChangedEvent(d, previous))
	}

	return nil
}

// SetManualTotals overrides the stored totals for a deal priced by hand,
// without items backing the figures. The margin is re-derived.
func (d *Deal) SetManualTotals(totalPrice, totalCost *decimal.Decimal) {
	if totalPrice == nil && totalCost == nil {
		return
	}
	if totalPrice != nil {
		d.TotalPrice = *totalPrice
	}
	if totalCost != nil {
		d.TotalCost = *totalCost
	}
	d.Margin = d.TotalPrice.Sub(d.TotalCost)
	d.Touch()
}

// MetadataPatch carries the optional descriptive fields of a deal. Nil
// entries leave the stored value, blank strings clear it.
type MetadataPatch struct {
	Source         *string
	SourceDetails  *string
	DealType       *string
	ResponsibleID  *uuid.UUID
	StartDate      *time.Time
	CompletionDate *time.Time
}

// ApplyMetadata patches the descriptive fields present in the patch
func (d *Deal) ApplyMetadata(patch MetadataPatch) {
	if patch.Source != nil {
		d.Source = normalizeText(*patch.Source)
	}
	if patch.SourceDetails != nil {
		d.SourceDetails = normalizeText(*patch.SourceDetails)
	}
	if patch.DealType != nil {
		d.DealType = normalizeText(*patch.DealType)
	}
	if patch.ResponsibleID != nil {
		if *patch.ResponsibleID == uuid.Nil {
			d.ResponsibleID = nil
		} else {
			d.ResponsibleID = patch.ResponsibleID
		}
	}
	if patch.StartDate != nil {
		d.StartDate = patch.StartDate
	}
	if patch.CompletionDate != nil {
		d.CompletionDate = patch.CompletionDate
	}
	d.Touch()
}

func normalizeText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SetComment updates the free text note on the deal
func (d *Deal) SetComment(comment string) {
	d.Comment = comment
	d.Touch()
}

// Rename changes the deal title
func (d *Deal) Rename(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	d.Title = title
	d.Touch()
	return nil
}

// AssignClient links the deal to a client, nil detaches it
func (d *Deal) AssignClient(clientID *uuid.UUID) {
	d.ClientID = clientID
	d.Touch()
}

// IsConsistent reports whether the stored margin matches price minus cost
func (d *Deal) IsConsistent() bool {
	return d.Margin.Equal(d.TotalPrice.Sub(d.TotalCost))
}
