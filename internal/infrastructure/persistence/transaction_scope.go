package persistence

import (
	"context"

	appdeal "github.com/crm/backend/internal/application/deal"
	appinventory "github.com/crm/backend/internal/application/inventory"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory transaction scope
// over a GORM transaction. Repositories handed to the callback are bound to
// the transaction, so batch and position writes commit or roll back together.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) BatchRepo() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *gormInventoryRepositories) PositionRepo() inventory.PositionRepository {
	return NewGormPositionRepository(r.tx)
}

// GormDealTransactionScope implements the deal transaction scope over a GORM
// transaction. Selling a deal item writes the deal, the batches and the
// positions as one unit.
type GormDealTransactionScope struct {
	db *gorm.DB
}

// NewGormDealTransactionScope creates a new GormDealTransactionScope
func NewGormDealTransactionScope(db *gorm.DB) *GormDealTransactionScope {
	return &GormDealTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormDealTransactionScope) Execute(ctx context.Context, fn func(repos appdeal.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormDealRepositories{tx: tx})
	})
}

type gormDealRepositories struct {
	tx *gorm.DB
}

func (r *gormDealRepositories) DealRepo() deal.Repository {
	return NewGormDealRepository(r.tx)
}

func (r *gormDealRepositories) BatchRepo() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *gormDealRepositories) PositionRepo() inventory.PositionRepository {
	return NewGormPositionRepository(r.tx)
}

func (r *gormDealRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormInventoryRepositories)(nil)
var _ appdeal.TransactionScope = (*GormDealTransactionScope)(nil)
var _ appdeal.TransactionalRepositories = (*gormDealRepositories)(nil)
