package deal

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/domain/inventory"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDealRepo struct {
	deals map[uuid.UUID]*deal.Deal
	saves int
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: make(map[uuid.UUID]*deal.Deal)}
}

func (r *fakeDealRepo) FindByID(_ context.Context, id uuid.UUID) (*deal.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return d, nil
}

func (r *fakeDealRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*deal.Deal, error) {
	d, ok := r.deals[id]
	if !ok || d.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return d, nil
}

func (r *fakeDealRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, status *deal.DealStatus, _ shared.Filter) ([]*deal.Deal, int64, error) {
	var out []*deal.Deal
	for _, d := range r.deals {
		if d.TenantID != tenantID {
			continue
		}
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDealRepo) SumClosedTotals(_ context.Context, tenantID uuid.UUID, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	revenue := decimal.Zero
	cogs := decimal.Zero
	for _, d := range r.deals {
		if d.TenantID != tenantID || d.Status != deal.DealStatusFinalAccount || d.ClosedAt == nil {
			continue
		}
		if from != nil && d.ClosedAt.Before(*from) {
			continue
		}
		if to != nil && d.ClosedAt.After(*to) {
			continue
		}
		revenue = revenue.Add(d.TotalPrice)
		cogs = cogs.Add(d.TotalCost)
	}
	return revenue, cogs, nil
}

func (r *fakeDealRepo) Save(_ context.Context, d *deal.Deal) error {
	r.deals[d.ID] = d
	r.saves++
	return nil
}

func (r *fakeDealRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.deals, id)
	return nil
}

func (r *fakeDealRepo) DeleteItem(_ context.Context, _ uuid.UUID) error {
	return nil
}

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

func (r *fakeBatchRepo) Save(_ context.Context, b *inventory.InventoryBatch) error {
	r.batches[b.ID] = b
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

type fakeClientRepo struct {
	clients map[uuid.UUID]*partner.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*partner.Client)}
}

func (r *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeClientRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeClientRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*partner.Client, int64, error) {
	var out []*partner.Client
	for _, c := range r.clients {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeClientRepo) ExistsForTenant(_ context.Context, tenantID, id uuid.UUID) (bool, error) {
	c, ok := r.clients[id]
	return ok && c.TenantID == tenantID, nil
}

func (r *fakeClientRepo) Save(_ context.Context, c *partner.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

type dealFixture struct {
	service   *DealService
	deals     *fakeDealRepo
	batches   *fakeBatchRepo
	positions *fakePositionRepo
	products  *fakeProductRepo
	clients   *fakeClientRepo
	tenantID  uuid.UUID
	product   *catalog.Product
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()
	tenantID := uuid.New()
	deals := newFakeDealRepo()
	batches := newFakeBatchRepo()
	positions := newFakePositionRepo()
	products := newFakeProductRepo()
	clients := newFakeClientRepo()

	product, err := catalog.NewProduct(tenantID, "Paint bucket")
	require.NoError(t, err)
	product.SKU = "SKU-100"
	require.NoError(t, products.Save(context.Background(), product))

	service := NewDealService(
		deals, clients,
		NewNoOpTransactionScope(deals, batches, positions, products),
	)

	return &dealFixture{
		service:   service,
		deals:     deals,
		batches:   batches,
		positions: positions,
		products:  products,
		clients:   clients,
		tenantID:  tenantID,
		product:   product,
	}
}

func (f *dealFixture) stock(t *testing.T, qty, cost float64, received string) {
	t.Helper()
	date, err := time.Parse("2006-01-02", received)
	require.NoError(t, err)
	b, err := inventory.NewInventoryBatch(
		f.tenantID, f.product.ID,
		decimal.NewFromFloat(qty), decimal.NewFromFloat(cost),
		date, valueobject.KZT,
	)
	require.NoError(t, err)
	require.NoError(t, f.batches.Save(context.Background(), b))
}

func (f *dealFixture) createEmptyDeal(t *testing.T) *DealDTO {
	t.Helper()
	dto, err := f.service.CreateDeal(context.Background(), f.tenantID, CreateDealRequest{Title: "Renovation"})
	require.NoError(t, err)
	return dto
}

func TestDealService_CreateDeal(t *testing.T) {
	ctx := context.Background()

	t.Run("empty deal", func(t *testing.T) {
		f := newDealFixture(t)

		dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{Title: "Renovation"})

		require.NoError(t, err)
		assert.Equal(t, "new", dto.Status)
		assert.True(t, dto.TotalPrice.IsZero())
	})

	t.Run("with initial items sells stock and fixes cost", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 2, 45, "2025-01-15")
		f.stock(t, 10, 56, "2025-02-01")
		price := decimal.NewFromInt(100)

		dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
			Title: "Renovation",
			Items: []AddItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(3), Price: &price},
			},
		})

		require.NoError(t, err)
		require.Len(t, dto.Items, 1)
		assert.True(t, dto.Items[0].UnitCost.Equal(decimal.NewFromFloat(48.67)))
		assert.True(t, dto.TotalPrice.Equal(decimal.NewFromInt(300)))
		assert.True(t, dto.TotalCost.Equal(decimal.NewFromFloat(146.01)))
		assert.True(t, dto.Margin.Equal(decimal.NewFromFloat(153.99)))

		remaining, err := f.batches.FindByProduct(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, inventory.AvailableQuantity(remaining).Equal(decimal.NewFromInt(9)))
	})

	t.Run("unknown client rejected", func(t *testing.T) {
		f := newDealFixture(t)
		clientID := uuid.New()

		_, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{Title: "X", ClientID: &clientID})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("manual totals seed an itemless deal", func(t *testing.T) {
		f := newDealFixture(t)
		totalPrice := decimal.NewFromInt(1000)
		totalCost := decimal.NewFromInt(600)

		dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
			Title:      "Consulting",
			TotalPrice: &totalPrice,
			TotalCost:  &totalCost,
		})

		require.NoError(t, err)
		assert.True(t, dto.TotalPrice.Equal(decimal.NewFromInt(1000)))
		assert.True(t, dto.TotalCost.Equal(decimal.NewFromInt(600)))
		assert.True(t, dto.Margin.Equal(decimal.NewFromInt(400)))
	})

	t.Run("item sums override manual totals", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 10, 40, "2025-01-01")
		totalPrice := decimal.NewFromInt(9999)
		totalCost := decimal.NewFromInt(9999)
		price := decimal.NewFromInt(100)

		dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
			Title:      "Renovation",
			TotalPrice: &totalPrice,
			TotalCost:  &totalCost,
			Items: []AddItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2), Price: &price},
			},
		})

		require.NoError(t, err)
		assert.True(t, dto.TotalPrice.Equal(decimal.NewFromInt(200)))
		assert.True(t, dto.TotalCost.Equal(decimal.NewFromInt(80)))
	})

	t.Run("descriptive fields stored", func(t *testing.T) {
		f := newDealFixture(t)
		source := "  referral  "
		dealType := "service"
		responsible := uuid.New()

		dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
			Title:         "Renovation",
			Source:        &source,
			DealType:      &dealType,
			ResponsibleID: &responsible,
		})

		require.NoError(t, err)
		require.NotNil(t, dto.Source)
		assert.Equal(t, "referral", *dto.Source)
		require.NotNil(t, dto.DealType)
		assert.Equal(t, "service", *dto.DealType)
		require.NotNil(t, dto.ResponsibleID)
		assert.Equal(t, responsible, *dto.ResponsibleID)
	})
}

func TestDealService_UpdateDeal(t *testing.T) {
	ctx := context.Background()

	t.Run("manual totals replace stored sums", func(t *testing.T) {
		f := newDealFixture(t)
		d := f.createEmptyDeal(t)
		totalPrice := decimal.NewFromInt(500)
		totalCost := decimal.NewFromInt(320)

		dto, err := f.service.UpdateDeal(ctx, f.tenantID, d.ID, UpdateDealRequest{
			TotalPrice: &totalPrice,
			TotalCost:  &totalCost,
		})

		require.NoError(t, err)
		assert.True(t, dto.TotalPrice.Equal(decimal.NewFromInt(500)))
		assert.True(t, dto.TotalCost.Equal(decimal.NewFromInt(320)))
		assert.True(t, dto.Margin.Equal(decimal.NewFromInt(180)))
	})

	t.Run("one-sided total keeps the other figure", func(t *testing.T) {
		f := newDealFixture(t)
		d := f.createEmptyDeal(t)
		totalPrice := decimal.NewFromInt(500)
		_, err := f.service.UpdateDeal(ctx, f.tenantID, d.ID, UpdateDealRequest{TotalPrice: &totalPrice})
		require.NoError(t, err)

		totalCost := decimal.NewFromInt(100)
		dto, err := f.service.UpdateDeal(ctx, f.tenantID, d.ID, UpdateDealRequest{TotalCost: &totalCost})

		require.NoError(t, err)
		assert.True(t, dto.TotalPrice.Equal(decimal.NewFromInt(500)))
		assert.True(t, dto.TotalCost.Equal(decimal.NewFromInt(100)))
		assert.True(t, dto.Margin.Equal(decimal.NewFromInt(400)))
	})

	t.Run("blank source clears the field", func(t *testing.T) {
		f := newDealFixture(t)
		source := "cold call"
		d, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{Title: "X", Source: &source})
		require.NoError(t, err)
		require.NotNil(t, d.Source)

		blank := "   "
		dto, err := f.service.UpdateDeal(ctx, f.tenantID, d.ID, UpdateDealRequest{Source: &blank})

		require.NoError(t, err)
		assert.Nil(t, dto.Source)
	})
}

func TestDealService_AddItems(t *testing.T) {
	ctx := context.Background()

	t.Run("default price fallback", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 10, 40, "2025-01-01")
		require.NoError(t, f.product.SetDefaultPrice(decimal.NewFromInt(75)))
		d := f.createEmptyDeal(t)

		dto, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2)},
		})

		require.NoError(t, err)
		assert.True(t, dto.Items[0].UnitPrice.Equal(decimal.NewFromInt(75)))
		assert.True(t, dto.Margin.Equal(decimal.NewFromInt(70)))
	})

	t.Run("no price anywhere fails", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 10, 40, "2025-01-01")
		d := f.createEmptyDeal(t)

		_, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2)},
		})

		assert.ErrorIs(t, err, shared.ErrMissingPrice)
	})

	t.Run("insufficient stock fails the line", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 2, 40, "2025-01-01")
		price := decimal.NewFromInt(100)
		d := f.createEmptyDeal(t)

		_, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(5), Price: &price},
		})

		var insufficientErr *inventory.InsufficientInventoryError
		require.ErrorAs(t, err, &insufficientErr)
		assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromInt(5)))
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(2)))
	})

	t.Run("default cost prices a line the batches cannot cover", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 5, 40, "2025-01-01")
		require.NoError(t, f.product.SetDefaultCost(decimal.NewFromInt(50)))
		price := decimal.NewFromInt(100)
		d := f.createEmptyDeal(t)

		dto, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10), Price: &price},
		})

		require.NoError(t, err)
		assert.True(t, dto.Items[0].UnitCost.Equal(decimal.NewFromInt(50)))
		assert.True(t, dto.TotalCost.Equal(decimal.NewFromInt(500)))

		// The five units that did exist are drained all the same
		remaining, err := f.batches.FindByProduct(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, inventory.AvailableQuantity(remaining).IsZero())
	})

	t.Run("given unit cost skips costing but not deduction", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 10, 40, "2025-01-01")
		price := decimal.NewFromInt(100)
		unitCost := decimal.NewFromFloat(33.3)
		d := f.createEmptyDeal(t)

		dto, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(4), Price: &price, UnitCost: &unitCost},
		})

		require.NoError(t, err)
		assert.True(t, dto.Items[0].UnitCost.Equal(decimal.NewFromFloat(33.3)))

		remaining, err := f.batches.FindByProduct(ctx, f.tenantID, f.product.ID)
		require.NoError(t, err)
		assert.True(t, inventory.AvailableQuantity(remaining).Equal(decimal.NewFromInt(6)))
	})

	t.Run("negative unit cost rejected", func(t *testing.T) {
		f := newDealFixture(t)
		f.stock(t, 10, 40, "2025-01-01")
		price := decimal.NewFromInt(100)
		unitCost := decimal.NewFromInt(-1)
		d := f.createEmptyDeal(t)

		_, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1), Price: &price, UnitCost: &unitCost},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COST", domainErr.Code)
	})

	t.Run("no batches uses product default cost", func(t *testing.T) {
		f := newDealFixture(t)
		require.NoError(t, f.product.SetDefaultCost(decimal.NewFromFloat(12.5)))
		price := decimal.NewFromInt(100)
		d := f.createEmptyDeal(t)

		dto, err := f.service.AddItems(ctx, f.tenantID, d.ID, []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2), Price: &price},
		})

		require.NoError(t, err)
		assert.True(t, dto.Items[0].UnitCost.Equal(decimal.NewFromFloat(12.5)))
	})

	t.Run("empty request rejected", func(t *testing.T) {
		f := newDealFixture(t)
		d := f.createEmptyDeal(t)

		_, err := f.service.AddItems(ctx, f.tenantID, d.ID, nil)

		assert.Error(t, err)
	})
}

func TestDealService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)
	f.stock(t, 10, 40, "2025-01-01")
	price := decimal.NewFromInt(100)

	dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
		Title: "Renovation",
		Items: []AddItemRequest{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2), Price: &price},
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(3), Price: &price},
		},
	})
	require.NoError(t, err)

	updated, err := f.service.RemoveItem(ctx, f.tenantID, dto.ID, dto.Items[0].ID)

	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.True(t, updated.Margin.Equal(updated.TotalPrice.Sub(updated.TotalCost)))
}

func TestDealService_SetStatus(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)
	d := f.createEmptyDeal(t)

	dto, err := f.service.SetStatus(ctx, f.tenantID, d.ID, deal.DealStatusFinalAccount)

	require.NoError(t, err)
	assert.Equal(t, "final_account", dto.Status)
	assert.NotNil(t, dto.ClosedAt)

	_, err = f.service.SetStatus(ctx, f.tenantID, d.ID, deal.DealStatus("bogus"))
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestDealService_RecalculateAllTotals(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)
	f.stock(t, 100, 40, "2025-01-01")
	price := decimal.NewFromInt(100)

	_, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
		Title: "Healthy",
		Items: []AddItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2), Price: &price}},
	})
	require.NoError(t, err)

	drifted, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
		Title: "Drifted",
		Items: []AddItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(3), Price: &price}},
	})
	require.NoError(t, err)
	f.deals.deals[drifted.ID].TotalCost = decimal.NewFromInt(1)

	report, err := f.service.RecalculateAllTotals(ctx, f.tenantID)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Changed)

	repaired, err := f.service.GetDeal(ctx, f.tenantID, drifted.ID)
	require.NoError(t, err)
	assert.True(t, repaired.TotalCost.Equal(decimal.NewFromInt(120)))
}

func TestDealService_Profit(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)
	f.stock(t, 10, 40, "2025-01-01")
	price := decimal.NewFromInt(100)

	dto, err := f.service.CreateDeal(ctx, f.tenantID, CreateDealRequest{
		Title: "Renovation",
		Items: []AddItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(2), Price: &price}},
	})
	require.NoError(t, err)

	profit, err := f.service.Profit(ctx, f.tenantID, dto.ID)

	require.NoError(t, err)
	assert.True(t, profit.Margin.Equal(decimal.NewFromInt(120)))
	assert.True(t, profit.MarginPct.Equal(decimal.NewFromInt(60)))
}

func TestDealService_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newDealFixture(t)
	d := f.createEmptyDeal(t)

	_, err := f.service.GetDeal(ctx, uuid.New(), d.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

var _ deal.Repository = (*fakeDealRepo)(nil)
var _ inventory.BatchRepository = (*fakeBatchRepo)(nil)
var _ inventory.PositionRepository = (*fakePositionRepo)(nil)
var _ catalog.ProductRepository = (*fakeProductRepo)(nil)
var _ partner.ClientRepository = (*fakeClientRepo)(nil)
