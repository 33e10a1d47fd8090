package inventory

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/inventory"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService handles stock receipts, costing queries and deductions
type InventoryService struct {
	batchRepo      inventory.BatchRepository
	positionRepo   inventory.PositionRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	batchRepo inventory.BatchRepository,
	positionRepo inventory.PositionRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		batchRepo:    batchRepo,
		positionRepo: positionRepo,
		productRepo:  productRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ReceiveStock records a new receipt batch and moves the cached position up
// by the received quantity, both in one transaction.
func (s *InventoryService) ReceiveStock(ctx context.Context, tenantID uuid.UUID, req ReceiveStockRequest) (*BatchDTO, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	batch, err := inventory.NewInventoryBatch(
		tenantID, product.ID, req.Quantity, req.UnitCost, req.ReceivedDate, product.Currency)
	if err != nil {
		return nil, err
	}
	batch.Reference = req.Reference
	batch.SupplierID = req.SupplierID
	batch.Location = req.Location

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}
		return s.adjustPosition(ctx, repos.PositionRepo(), tenantID, product.ID, locationOrDefault(req.Location), req.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, inventory.NewStockReceivedEvent(batch))

	dto := ToBatchDTO(batch)
	return &dto, nil
}

// QuoteCost computes the FIFO unit cost of selling quantity units right now.
// Nothing is deducted. With no recorded batches the product default cost is
// used; with batches that cannot cover the request the quote fails with
// inventory.InsufficientInventoryError.
func (s *InventoryService) QuoteCost(ctx context.Context, tenantID, productID uuid.UUID, quantity decimal.Decimal) (*CostQuote, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	// Only batches with remaining stock count; a fully drained product
	// quotes at the default cost the same way an unstocked one does.
	batches, err := s.batchRepo.FindAvailableByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	result, err := inventory.FIFOCost(batches, quantity, product.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &CostQuote{
		ProductID:         productID,
		Quantity:          quantity,
		UnitCost:          result.UnitCost,
		TotalCost:         result.TotalCost,
		AvailableQuantity: inventory.AvailableQuantity(batches),
		FromDefaultCost:   len(batches) == 0,
	}, nil
}

// DeductStock consumes quantity from the oldest batches and moves the cached
// position down. The batches are locked for the duration of the transaction
// so concurrent deductions of the same product serialize. Deduction does not
// fail on shortage; it drains what the batches hold and the position absorbs
// the difference.
func (s *InventoryService) DeductStock(ctx context.Context, tenantID, productID uuid.UUID, quantity decimal.Decimal, dealID *uuid.UUID) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batches, err := repos.BatchRepo().FindAvailableByProductForUpdate(ctx, tenantID, productID)
		if err != nil {
			return err
		}

		touched := inventory.DeductFIFO(batches, quantity)
		if len(touched) > 0 {
			if err := repos.BatchRepo().SaveAll(ctx, touched); err != nil {
				return err
			}
		}

		return s.adjustPosition(ctx, repos.PositionRepo(), tenantID, productID, inventory.DefaultLocation, quantity.Neg())
	})
	if err != nil {
		return err
	}

	s.publish(ctx, inventory.NewStockDeductedEvent(tenantID, productID, quantity, dealID))

	return nil
}

// ListBatches lists receipt batches for a tenant
func (s *InventoryService) ListBatches(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[BatchDTO], error) {
	batches, total, err := s.batchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]BatchDTO, 0, len(batches))
	for _, b := range batches {
		dtos = append(dtos, ToBatchDTO(b))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListPositions lists cached on-hand positions for a tenant
func (s *InventoryService) ListPositions(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PositionDTO], error) {
	positions, total, err := s.positionRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]PositionDTO, 0, len(positions))
	for _, p := range positions {
		dtos = append(dtos, ToPositionDTO(p))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetPosition returns the position for a product at the default location. A
// product with no movements yet reads as a zero position.
func (s *InventoryService) GetPosition(ctx context.Context, tenantID, productID uuid.UUID) (*PositionDTO, error) {
	position, err := s.positionRepo.FindByProduct(ctx, tenantID, productID, inventory.DefaultLocation)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			dto := ToPositionDTO(inventory.NewInventoryPosition(tenantID, productID, inventory.DefaultLocation))
			return &dto, nil
		}
		return nil, err
	}
	dto := ToPositionDTO(position)
	return &dto, nil
}

// ReserveStock sets aside on-hand quantity for a pending deal. The check
// against available stock is best effort; reservations are not serialized
// with deductions.
func (s *InventoryService) ReserveStock(ctx context.Context, tenantID, productID uuid.UUID, quantity decimal.Decimal) (*PositionDTO, error) {
	position, err := s.positionRepo.FindByProduct(ctx, tenantID, productID, inventory.DefaultLocation)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInsufficientInventory
		}
		return nil, err
	}
	if err := position.Reserve(quantity); err != nil {
		return nil, err
	}
	if err := s.positionRepo.Save(ctx, position); err != nil {
		return nil, err
	}
	dto := ToPositionDTO(position)
	return &dto, nil
}

// ReleaseStock returns reserved quantity to available stock. Releasing from a
// product with no position is a no-op that reads back as a zero position.
func (s *InventoryService) ReleaseStock(ctx context.Context, tenantID, productID uuid.UUID, quantity decimal.Decimal) (*PositionDTO, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	position, err := s.positionRepo.FindByProduct(ctx, tenantID, productID, inventory.DefaultLocation)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			dto := ToPositionDTO(inventory.NewInventoryPosition(tenantID, productID, inventory.DefaultLocation))
			return &dto, nil
		}
		return nil, err
	}
	position.Release(quantity)
	if err := s.positionRepo.Save(ctx, position); err != nil {
		return nil, err
	}
	dto := ToPositionDTO(position)
	return &dto, nil
}

// adjustPosition applies a signed delta to the position row, creating it on
// first movement
func (s *InventoryService) adjustPosition(ctx context.Context, repo inventory.PositionRepository, tenantID, productID uuid.UUID, location string, delta decimal.Decimal) error {
	position, err := repo.FindByProduct(ctx, tenantID, productID, location)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		position = inventory.NewInventoryPosition(tenantID, productID, location)
	}
	position.Adjust(delta)
	return repo.Save(ctx, position)
}

func (s *InventoryService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	// Event delivery is best effort, the transaction has already committed
	_ = s.eventPublisher.Publish(ctx, event)
}

func locationOrDefault(location *string) string {
	if location == nil || *location == "" {
		return inventory.DefaultLocation
	}
	return *location
}
