package deal

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/domain/inventory"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DealService handles deal lifecycle operations. Selling items runs costing,
// deduction and deal mutation in one transaction so a failed line leaves no
// partial state behind.
type DealService struct {
	dealRepo       deal.Repository
	clientRepo     partner.ClientRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewDealService creates a new DealService
func NewDealService(
	dealRepo deal.Repository,
	clientRepo partner.ClientRepository,
	txScope TransactionScope,
) *DealService {
	return &DealService{
		dealRepo:   dealRepo,
		clientRepo: clientRepo,
		txScope:    txScope,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDeal opens a new deal. When the request carries initial items they
// are sold in the same transaction, so a failing line aborts the whole
// creation.
func (s *DealService) CreateDeal(ctx context.Context, tenantID uuid.UUID, req CreateDealRequest) (*DealDTO, error) {
	if req.ClientID != nil {
		exists, err := s.clientRepo.ExistsForTenant(ctx, tenantID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.ErrNotFound
		}
	}

	d, err := deal.NewDeal(tenantID, req.Title, req.ClientID)
	if err != nil {
		return nil, err
	}
	if req.Comment != "" {
		d.SetComment(req.Comment)
	}
	d.ApplyMetadata(req.metadataPatch())
	if len(req.Items) == 0 {
		// Manual totals only seed an itemless deal; item sums override them
		d.SetManualTotals(req.TotalPrice, req.TotalCost)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range req.Items {
			if err := s.sellItem(ctx, repos, d, item); err != nil {
				return err
			}
		}
		return repos.DealRepo().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	dto := ToDealDTO(d)
	return &dto, nil
}

// GetDeal returns a deal with its items
func (s *DealService) GetDeal(ctx context.Context, tenantID, dealID uuid.UUID) (*DealDTO, error) {
	d, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}
	dto := ToDealDTO(d)
	return &dto, nil
}

// ListDeals lists deals for a tenant, optionally filtered by pipeline stage
func (s *DealService) ListDeals(ctx context.Context, tenantID uuid.UUID, status *deal.DealStatus, filter shared.Filter) (*shared.Paginated[DealDTO], error) {
	if status != nil && !status.IsValid() {
		return nil, shared.ErrInvalidStatus
	}

	deals, total, err := s.dealRepo.FindAllForTenant(ctx, tenantID, status, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]DealDTO, 0, len(deals))
	for _, d := range deals {
		dtos = append(dtos, ToDealDTO(d))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateDeal changes the deal header fields present in the request
func (s *DealService) UpdateDeal(ctx context.Context, tenantID, dealID uuid.UUID, req UpdateDealRequest) (*DealDTO, error) {
	d, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := d.Rename(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Comment != nil {
		d.SetComment(*req.Comment)
	}
	if req.ClientID != nil {
		exists, err := s.clientRepo.ExistsForTenant(ctx, tenantID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.ErrNotFound
		}
		d.AssignClient(req.ClientID)
	}
	d.ApplyMetadata(req.metadataPatch())
	d.SetManualTotals(req.TotalPrice, req.TotalCost)

	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	dto := ToDealDTO(d)
	return &dto, nil
}

// AddItems sells a list of items into an existing deal. Each line is priced
// from the request or the product default price, costed over the batches
// available at that moment, and deducted from stock. The first failing line
// rolls back every preceding one.
func (s *DealService) AddItems(ctx context.Context, tenantID, dealID uuid.UUID, items []AddItemRequest) (*DealDTO, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No items to add")
	}

	var d *deal.Deal
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		d, err = repos.DealRepo().FindByIDForTenant(ctx, tenantID, dealID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.sellItem(ctx, repos, d, item); err != nil {
				return err
			}
		}
		return repos.DealRepo().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	dto := ToDealDTO(d)
	return &dto, nil
}

// RemoveItem deletes one line. Totals re-sum from the remaining lines; the
// consumed inventory stays consumed.
func (s *DealService) RemoveItem(ctx context.Context, tenantID, dealID, itemID uuid.UUID) (*DealDTO, error) {
	var d *deal.Deal
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		d, err = repos.DealRepo().FindByIDForTenant(ctx, tenantID, dealID)
		if err != nil {
			return err
		}
		if err := d.RemoveItem(itemID); err != nil {
			return err
		}
		if err := repos.DealRepo().DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return repos.DealRepo().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	dto := ToDealDTO(d)
	return &dto, nil
}

// SetStatus moves the deal to another pipeline stage
func (s *DealService) SetStatus(ctx context.Context, tenantID, dealID uuid.UUID, status deal.DealStatus) (*DealDTO, error) {
	d, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	if err := d.SetStatus(status); err != nil {
		return nil, err
	}

	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	dto := ToDealDTO(d)
	return &dto, nil
}

// RecalculateTotals re-derives one deal's stored totals from its items
func (s *DealService) RecalculateTotals(ctx context.Context, tenantID, dealID uuid.UUID) (*DealDTO, error) {
	d, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	if d.RecalculateTotals() {
		if err := s.dealRepo.Save(ctx, d); err != nil {
			return nil, err
		}
	}

	dto := ToDealDTO(d)
	return &dto, nil
}

// RecalculateAllTotals repairs every deal of the tenant and reports how many
// actually changed
func (s *DealService) RecalculateAllTotals(ctx context.Context, tenantID uuid.UUID) (*RecalculateReport, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500

	report := &RecalculateReport{}
	for {
		deals, total, err := s.dealRepo.FindAllForTenant(ctx, tenantID, nil, filter)
		if err != nil {
			return nil, err
		}
		for _, d := range deals {
			report.Checked++
			if d.RecalculateTotals() {
				if err := s.dealRepo.Save(ctx, d); err != nil {
					return nil, err
				}
				report.Changed++
			}
		}
		if int64(filter.Page*filter.PageSize) >= total || len(deals) == 0 {
			break
		}
		filter.Page++
	}
	return report, nil
}

// Profit returns the margin view of one deal
func (s *DealService) Profit(ctx context.Context, tenantID, dealID uuid.UUID) (*ProfitDTO, error) {
	d, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	marginPct := decimal.Zero
	if d.TotalPrice.GreaterThan(decimal.Zero) {
		marginPct = d.Margin.Div(d.TotalPrice).Mul(hundred).Round(2)
	}

	return &ProfitDTO{
		DealID:     d.ID,
		TotalPrice: d.TotalPrice,
		TotalCost:  d.TotalCost,
		Margin:     d.Margin,
		MarginPct:  marginPct,
	}, nil
}

// DeleteDeal removes a deal and its items
func (s *DealService) DeleteDeal(ctx context.Context, tenantID, dealID uuid.UUID) error {
	d, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, dealID)
	if err != nil {
		return err
	}
	return s.dealRepo.Delete(ctx, d.ID)
}

// sellItem runs the five steps of selling one line inside the surrounding
// transaction: resolve the product, resolve the price, cost the quantity
// over the locked batches, deduct the stock, and append the line to the
// deal.
func (s *DealService) sellItem(ctx context.Context, repos TransactionalRepositories, d *deal.Deal, req AddItemRequest) error {
	product, err := repos.ProductRepo().FindByIDForTenant(ctx, d.TenantID, req.ProductID)
	if err != nil {
		return err
	}

	price, err := resolvePrice(product, req.Price)
	if err != nil {
		return err
	}

	batches, err := repos.BatchRepo().FindAvailableByProductForUpdate(ctx, d.TenantID, product.ID)
	if err != nil {
		return err
	}

	unitCost, err := resolveUnitCost(product, batches, req)
	if err != nil {
		return err
	}

	touched := inventory.DeductFIFO(batches, req.Quantity)
	if len(touched) > 0 {
		if err := repos.BatchRepo().SaveAll(ctx, touched); err != nil {
			return err
		}
	}
	if err := s.adjustPosition(ctx, repos.PositionRepo(), d.TenantID, product.ID, req.Quantity.Neg()); err != nil {
		return err
	}

	_, err = d.AddItem(product.ID, product.SKU, product.Title, req.Quantity, price, unitCost)
	return err
}

// resolveUnitCost prices a line. A unit cost given in the request wins over
// the costing entirely. Otherwise the line is costed over the locked batches
// in FIFO order; when the batches cannot cover the quantity and the product
// carries a default cost, the default prices the whole line. The stock that
// does exist is still drained by the caller either way.
func resolveUnitCost(product *catalog.Product, batches []*inventory.InventoryBatch, req AddItemRequest) (decimal.Decimal, error) {
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return decimal.Zero, shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
		}
		return req.UnitCost.Round(2), nil
	}

	result, err := inventory.FIFOCost(batches, req.Quantity, product.DefaultCost)
	if err == nil {
		return result.UnitCost, nil
	}

	var shortage *inventory.InsufficientInventoryError
	if !errors.As(err, &shortage) || product.DefaultCost == nil {
		return decimal.Zero, err
	}
	return product.DefaultCost.Round(2), nil
}

// resolvePrice picks the request price or the product default price
func resolvePrice(product *catalog.Product, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		if override.IsNegative() {
			return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		return *override, nil
	}
	if product.DefaultPrice != nil {
		return *product.DefaultPrice, nil
	}
	return decimal.Zero, shared.ErrMissingPrice
}

func (s *DealService) adjustPosition(ctx context.Context, repo inventory.PositionRepository, tenantID, productID uuid.UUID, delta decimal.Decimal) error {
	position, err := repo.FindByProduct(ctx, tenantID, productID, inventory.DefaultLocation)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		position = inventory.NewInventoryPosition(tenantID, productID, inventory.DefaultLocation)
	}
	position.Adjust(delta)
	return repo.Save(ctx, position)
}

func (s *DealService) publishEvents(ctx context.Context, d *deal.Deal) {
	if s.eventPublisher == nil {
		return
	}
	events := d.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Event delivery is best effort, the transaction has already committed
	_ = s.eventPublisher.Publish(ctx, events...)
	d.ClearDomainEvents()
}
