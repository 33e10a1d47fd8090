package deal

import (
	"time"

	"github.com/crm/backend/internal/domain/deal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDealRequest opens a new deal, optionally with initial items. Manual
// totals seed a deal priced by hand; when items are present their sums
// override the manual figures.
type CreateDealRequest struct {
	Title          string           `json:"title" binding:"required"`
	ClientID       *uuid.UUID       `json:"client_id"`
	Comment        string           `json:"comment"`
	TotalPrice     *decimal.Decimal `json:"total_price"`
	TotalCost      *decimal.Decimal `json:"total_cost"`
	Source         *string          `json:"source"`
	SourceDetails  *string          `json:"source_details"`
	DealType       *string          `json:"deal_type"`
	ResponsibleID  *uuid.UUID       `json:"responsible_id"`
	StartDate      *time.Time       `json:"start_date"`
	CompletionDate *time.Time       `json:"completion_date"`
	Items          []AddItemRequest `json:"items"`
}

// UpdateDealRequest changes the mutable header fields of a deal. Nil fields
// are left untouched. Manual totals replace the stored sums and re-derive
// the margin.
type UpdateDealRequest struct {
	Title          *string          `json:"title"`
	Comment        *string          `json:"comment"`
	ClientID       *uuid.UUID       `json:"client_id"`
	TotalPrice     *decimal.Decimal `json:"total_price"`
	TotalCost      *decimal.Decimal `json:"total_cost"`
	Source         *string          `json:"source"`
	SourceDetails  *string          `json:"source_details"`
	DealType       *string          `json:"deal_type"`
	ResponsibleID  *uuid.UUID       `json:"responsible_id"`
	StartDate      *time.Time       `json:"start_date"`
	CompletionDate *time.Time       `json:"completion_date"`
}

// AddItemRequest is one sold line to put on a deal. Price is optional; a nil
// price falls back to the product default price. UnitCost overrides the
// FIFO costing when supplied; the stock is still deducted.
type AddItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	Price     *decimal.Decimal `json:"price"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// metadataPatch maps the request fields onto a domain metadata patch
func (r CreateDealRequest) metadataPatch() deal.MetadataPatch {
	return deal.MetadataPatch{
		Source:         r.Source,
		SourceDetails:  r.SourceDetails,
		DealType:       r.DealType,
		ResponsibleID:  r.ResponsibleID,
		StartDate:      r.StartDate,
		CompletionDate: r.CompletionDate,
	}
}

func (r UpdateDealRequest) metadataPatch() deal.MetadataPatch {
	return deal.MetadataPatch{
		Source:         r.Source,
		SourceDetails:  r.SourceDetails,
		DealType:       r.DealType,
		ResponsibleID:  r.ResponsibleID,
		StartDate:      r.StartDate,
		CompletionDate: r.CompletionDate,
	}
}

// ItemDTO is the API view of a deal line
type ItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	ProductSKU string          `json:"product_sku,omitempty"`
	Title      string          `json:"title"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// DealDTO is the API view of a deal with its items
type DealDTO struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	ClientID       *uuid.UUID      `json:"client_id,omitempty"`
	Status         string          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Margin         decimal.Decimal `json:"margin"`
	Currency       string          `json:"currency"`
	Comment        string          `json:"comment,omitempty"`
	Source         *string         `json:"source,omitempty"`
	SourceDetails  *string         `json:"source_details,omitempty"`
	DealType       *string         `json:"deal_type,omitempty"`
	ResponsibleID  *uuid.UUID      `json:"responsible_id,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	CompletionDate *time.Time      `json:"completion_date,omitempty"`
	Items          []ItemDTO       `json:"items"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProfitDTO is the margin view of a single deal
type ProfitDTO struct {
	DealID     uuid.UUID       `json:"deal_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Margin     decimal.Decimal `json:"margin"`
	MarginPct  decimal.Decimal `json:"margin_pct"`
}

// RecalculateReport summarizes a batch totals repair
type RecalculateReport struct {
	Checked int `json:"checked"`
	Changed int `json:"changed"`
}

// ToItemDTO converts a domain deal item to its API view
func ToItemDTO(item *deal.DealItem) ItemDTO {
	return ItemDTO{
		ID:         item.ID,
		ProductID:  item.ProductID,
		ProductSKU: item.ProductSKU,
		Title:      item.Title,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		UnitCost:   item.UnitCost,
		TotalPrice: item.TotalPrice,
		TotalCost:  item.TotalCost,
	}
}

// ToDealDTO converts a domain deal to its API view
func ToDealDTO(d *deal.Deal) DealDTO {
	items := make([]ItemDTO, 0, len(d.Items))
	for idx := range d.Items {
		items = append(items, ToItemDTO(&d.Items[idx]))
	}
	return DealDTO{
		ID:             d.ID,
		Title:          d.Title,
		ClientID:       d.ClientID,
		Status:         d.Status.String(),
		TotalPrice:     d.TotalPrice,
		TotalCost:      d.TotalCost,
		Margin:         d.Margin,
		Currency:       string(d.Currency),
		Comment:        d.Comment,
		Source:         d.Source,
		SourceDetails:  d.SourceDetails,
		DealType:       d.DealType,
		ResponsibleID:  d.ResponsibleID,
		StartDate:      d.StartDate,
		CompletionDate: d.CompletionDate,
		Items:          items,
		ClosedAt:       d.ClosedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
