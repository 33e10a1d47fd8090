package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crm/backend/internal/domain/deal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDealRepository(t *testing.T) (*GormDealRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDealRepository(gormDB), mock, mockDB
}

func TestGormDealRepository_SumClosedTotals(t *testing.T) {
	t.Run("sums final stage deals without bounds", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"revenue", "cogs"}).
			AddRow(decimal.NewFromFloat(400.00), decimal.NewFromFloat(186.01))

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\), 0\) AS revenue, COALESCE\(SUM\(total_cost\), 0\) AS cogs FROM "deals" WHERE tenant_id = \$1 AND status = \$2`).
			WithArgs(tenantID, "final_account").
			WillReturnRows(rows)

		revenue, cogs, err := repo.SumClosedTotals(context.Background(), tenantID, nil, nil)

		assert.NoError(t, err)
		assert.True(t, revenue.Equal(decimal.NewFromFloat(400.00)))
		assert.True(t, cogs.Equal(decimal.NewFromFloat(186.01)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies closing time bounds", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"revenue", "cogs"}).
			AddRow(decimal.Zero, decimal.Zero)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\), 0\) AS revenue, COALESCE\(SUM\(total_cost\), 0\) AS cogs FROM "deals" WHERE \(tenant_id = \$1 AND status = \$2\) AND closed_at >= \$3 AND closed_at <= \$4`).
			WithArgs(tenantID, "final_account", from, to).
			WillReturnRows(rows)

		revenue, cogs, err := repo.SumClosedTotals(context.Background(), tenantID, &from, &to)

		assert.NoError(t, err)
		assert.True(t, revenue.IsZero())
		assert.True(t, cogs.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_Delete(t *testing.T) {
	t.Run("removes the deal and its items together", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "deal_items" WHERE deal_id = \$1`).
			WithArgs(dealID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "deals" WHERE id = \$1`).
			WithArgs(dealID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), dealID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements deal repository interface", func(t *testing.T) {
		repo, _, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		var _ deal.Repository = repo
	})
}
