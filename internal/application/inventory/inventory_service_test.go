package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/inventory"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatchRepo struct {
	batches map[uuid.UUID]*inventory.InventoryBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]*inventory.InventoryBatch)}
}

func (r *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *fakeBatchRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]*inventory.InventoryBatch, error) {
	var out []*inventory.InventoryBatch
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindAvailableByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*inventory.InventoryBatch, error) {
	all, _ := r.FindByProduct(ctx, tenantID, productID)
	var out []*inventory.InventoryBatch
	for _, b := range all {
		if b.HasStock() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindAvailableByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) ([]*inventory.InventoryBatch, error) {
	return r.FindAvailableByProduct(ctx, tenantID, productID)
}

func (r *fakeBatchRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*inventory.InventoryBatch, int64, error) {
	var out []*inventory.InventoryBatch
	for _, b := range r.batches {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBatchRepo) Save(_ context.Context, batch *inventory.InventoryBatch) error {
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeBatchRepo) SaveAll(ctx context.Context, batches []*inventory.InventoryBatch) error {
	for _, b := range batches {
		r.batches[b.ID] = b
	}
	return nil
}

func (r *fakeBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

type positionKey struct {
	tenantID  uuid.UUID
	productID uuid.UUID
	location  string
}

type fakePositionRepo struct {
	positions map[positionKey]*inventory.InventoryPosition
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[positionKey]*inventory.InventoryPosition)}
}

func (r *fakePositionRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID, location string) (*inventory.InventoryPosition, error) {
	p, ok := r.positions[positionKey{tenantID, productID, location}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakePositionRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*inventory.InventoryPosition, int64, error) {
	var out []*inventory.InventoryPosition
	for _, p := range r.positions {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePositionRepo) Save(_ context.Context, p *inventory.InventoryPosition) error {
	r.positions[positionKey{p.TenantID, p.ProductID, p.Location}] = p
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*catalog.Product, int64, error) {
	var out []*catalog.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type serviceFixture struct {
	service   *InventoryService
	batches   *fakeBatchRepo
	positions *fakePositionRepo
	products  *fakeProductRepo
	tenantID  uuid.UUID
	product   *catalog.Product
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	tenantID := uuid.New()
	products := newFakeProductRepo()
	batches := newFakeBatchRepo()
	positions := newFakePositionRepo()

	product, err := catalog.NewProduct(tenantID, "Paint bucket")
	require.NoError(t, err)
	product.SKU = "SKU-100"
	require.NoError(t, products.Save(context.Background(), product))

	service := NewInventoryService(
		batches, positions, products,
		NewNoOpTransactionScope(batches, positions),
	)

	return &serviceFixture{
		service:   service,
		batches:   batches,
		positions: positions,
		products:  products,
		tenantID:  tenantID,
		product:   product,
	}
}

func (f *serviceFixture) receive(t *testing.T, qty, cost float64, received string) {
	t.Helper()
	date, err := time.Parse("2006-01-02", received)
	require.NoError(t, err)
	_, err = f.service.ReceiveStock(context.Background(), f.tenantID, ReceiveStockRequest{
		ProductID:    f.product.ID,
		Quantity:     decimal.NewFromFloat(qty),
		UnitCost:     decimal.NewFromFloat(cost),
		ReceivedDate: date,
	})
	require.NoError(t, err)
}

func TestInventoryService_ReceiveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.receive(t, 10, 45, "2025-01-15")
	f.receive(t, 5, 56, "2025-02-01")

	position, err := f.service.GetPosition(ctx, f.tenantID, f.product.ID)
	require.NoError(t, err)
	assert.True(t, position.Quantity.Equal(decimal.NewFromInt(15)))

	_, err = f.service.ReceiveStock(ctx, f.tenantID, ReceiveStockRequest{
		ProductID: uuid.New(),
		Quantity:  decimal.NewFromInt(1),
		UnitCost:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInventoryService_QuoteCost(t *testing.T) {
	ctx := context.Background()

	t.Run("walks batches oldest first", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 2, 45, "2025-01-15")
		f.receive(t, 10, 56, "2025-02-01")

		quote, err := f.service.QuoteCost(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(3))

		require.NoError(t, err)
		assert.True(t, quote.UnitCost.Equal(decimal.NewFromFloat(48.67)))
		assert.True(t, quote.AvailableQuantity.Equal(decimal.NewFromInt(12)))
		assert.False(t, quote.FromDefaultCost)
	})

	t.Run("falls back to default cost with no batches", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.product.SetDefaultCost(decimal.NewFromFloat(12.5)))

		quote, err := f.service.QuoteCost(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.True(t, quote.UnitCost.Equal(decimal.NewFromFloat(12.5)))
		assert.True(t, quote.FromDefaultCost)
	})

	t.Run("drained product quotes at default cost like an unstocked one", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.product.SetDefaultCost(decimal.NewFromInt(50)))
		f.receive(t, 5, 45, "2025-01-15")
		require.NoError(t, f.service.DeductStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(5), nil))

		quote, err := f.service.QuoteCost(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(3))

		require.NoError(t, err)
		assert.True(t, quote.UnitCost.Equal(decimal.NewFromInt(50)))
		assert.True(t, quote.FromDefaultCost)
	})

	t.Run("shortage surfaces requested and available", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 5, 45, "2025-01-15")

		_, err := f.service.QuoteCost(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(8))

		var insufficientErr *inventory.InsufficientInventoryError
		require.ErrorAs(t, err, &insufficientErr)
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(5)))
	})

	t.Run("quote does not deduct", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 5, 45, "2025-01-15")

		_, err := f.service.QuoteCost(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(3))
		require.NoError(t, err)

		quote, err := f.service.QuoteCost(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, quote.AvailableQuantity.Equal(decimal.NewFromInt(5)))
	})
}

func TestInventoryService_DeductStock(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes oldest batches and lowers the position", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 2, 45, "2025-01-15")
		f.receive(t, 10, 56, "2025-02-01")

		require.NoError(t, f.service.DeductStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(3), nil))

		batches, err := f.batches.FindByProduct(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, inventory.AvailableQuantity(batches).Equal(decimal.NewFromInt(9)))

		position, err := f.service.GetPosition(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, position.Quantity.Equal(decimal.NewFromInt(9)))
	})

	t.Run("shortage drains batches and drives the position negative", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 2, 45, "2025-01-15")

		require.NoError(t, f.service.DeductStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(5), nil))

		batches, err := f.batches.FindByProduct(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, inventory.AvailableQuantity(batches).IsZero())

		position, err := f.service.GetPosition(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, position.Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.DeductStock(ctx, f.tenantID, f.product.ID, decimal.Zero, nil)
		assert.Error(t, err)
	})
}

func TestInventoryService_ReserveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves against on-hand stock", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 10, 50, "2025-01-15")

		position, err := f.service.ReserveStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, position.ReservedQuantity.Equal(decimal.NewFromInt(4)))
		assert.True(t, position.AvailableQuantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects reservation beyond available", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 3, 50, "2025-01-15")

		_, err := f.service.ReserveStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, shared.ErrInsufficientInventory)
	})

	t.Run("rejects reservation with no position", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.ReserveStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrInsufficientInventory)
	})
}

func TestInventoryService_ReleaseStock(t *testing.T) {
	ctx := context.Background()

	t.Run("releases part of a reservation", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 10, 50, "2025-01-15")
		_, err := f.service.ReserveStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(6))
		require.NoError(t, err)

		position, err := f.service.ReleaseStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.True(t, position.ReservedQuantity.Equal(decimal.NewFromInt(4)))
	})

	t.Run("over-release clamps to zero", func(t *testing.T) {
		f := newFixture(t)
		f.receive(t, 10, 50, "2025-01-15")
		_, err := f.service.ReserveStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(3))
		require.NoError(t, err)

		position, err := f.service.ReleaseStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(99))
		require.NoError(t, err)
		assert.True(t, position.ReservedQuantity.IsZero())
	})

	t.Run("release with no position reads back as zero", func(t *testing.T) {
		f := newFixture(t)
		position, err := f.service.ReleaseStock(ctx, f.tenantID, f.product.ID, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, position.ReservedQuantity.IsZero())
		assert.True(t, position.Quantity.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.ReleaseStock(ctx, f.tenantID, f.product.ID, decimal.Zero)
		assert.Error(t, err)
	})
}

var _ inventory.BatchRepository = (*fakeBatchRepo)(nil)
var _ inventory.PositionRepository = (*fakePositionRepo)(nil)
var _ catalog.ProductRepository = (*fakeProductRepo)(nil)
