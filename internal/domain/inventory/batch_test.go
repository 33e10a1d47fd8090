package inventory

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryBatch(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	received := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		product  uuid.UUID
		quantity decimal.Decimal
		unitCost decimal.Decimal
		wantErr  bool
	}{
		{
			name:     "valid batch",
			product:  productID,
			quantity: decimal.NewFromInt(10),
			unitCost: decimal.NewFromFloat(45.50),
		},
		{
			name:     "empty product",
			product:  uuid.Nil,
			quantity: decimal.NewFromInt(10),
			unitCost: decimal.NewFromInt(45),
			wantErr:  true,
		},
		{
			name:     "zero quantity",
			product:  productID,
			quantity: decimal.Zero,
			unitCost: decimal.NewFromInt(45),
			wantErr:  true,
		},
		{
			name:     "negative quantity",
			product:  productID,
			quantity: decimal.NewFromInt(-1),
			unitCost: decimal.NewFromInt(45),
			wantErr:  true,
		},
		{
			name:     "zero cost",
			product:  productID,
			quantity: decimal.NewFromInt(10),
			unitCost: decimal.Zero,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := NewInventoryBatch(tenantID, tt.product, tt.quantity, tt.unitCost, received, valueobject.KZT)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenantID, batch.TenantID)
			assert.True(t, batch.RemainingQuantity.Equal(tt.quantity))
			assert.True(t, batch.HasStock())
		})
	}
}

func TestNewInventoryBatch_TruncatesReceivedDate(t *testing.T) {
	received := time.Date(2025, 3, 10, 14, 30, 45, 0, time.UTC)

	batch, err := NewInventoryBatch(
		uuid.New(), uuid.New(),
		decimal.NewFromInt(1), decimal.NewFromInt(10),
		received, valueobject.KZT,
	)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), batch.ReceivedDate)
}

func TestInventoryBatch_Deduct(t *testing.T) {
	newBatch := func(t *testing.T) *InventoryBatch {
		b, err := NewInventoryBatch(
			uuid.New(), uuid.New(),
			decimal.NewFromInt(10), decimal.NewFromInt(45),
			time.Now(), valueobject.KZT,
		)
		require.NoError(t, err)
		return b
	}

	t.Run("partial deduction", func(t *testing.T) {
		b := newBatch(t)

		took := b.Deduct(decimal.NewFromInt(3))

		assert.True(t, took.Equal(decimal.NewFromInt(3)))
		assert.True(t, b.RemainingQuantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("deduction capped at remaining", func(t *testing.T) {
		b := newBatch(t)

		took := b.Deduct(decimal.NewFromInt(15))

		assert.True(t, took.Equal(decimal.NewFromInt(10)))
		assert.True(t, b.IsFullyConsumed())
		assert.False(t, b.HasStock())
	})
}

func TestInventoryPosition(t *testing.T) {
	t.Run("adjust can go negative", func(t *testing.T) {
		p := NewInventoryPosition(uuid.New(), uuid.New(), "")

		p.Adjust(decimal.NewFromInt(5))
		p.Adjust(decimal.NewFromInt(-8))

		assert.Equal(t, DefaultLocation, p.Location)
		assert.True(t, p.Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("reserve and release", func(t *testing.T) {
		p := NewInventoryPosition(uuid.New(), uuid.New(), "main")
		p.Adjust(decimal.NewFromInt(10))

		require.NoError(t, p.Reserve(decimal.NewFromInt(4)))
		assert.True(t, p.AvailableQuantity().Equal(decimal.NewFromInt(6)))

		err := p.Reserve(decimal.NewFromInt(7))
		require.Error(t, err)

		p.Release(decimal.NewFromInt(100))
		assert.True(t, p.ReservedQuantity.IsZero())
	})
}
