package deal

import (
	"context"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/deal"
	"github.com/crm/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a deal
// mutation touches. Adding items to a deal writes the deal, the inventory
// batches and the cached positions; all of it commits or rolls back as one.
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current
// transaction
type TransactionalRepositories interface {
	// DealRepo returns the deal repository scoped to the current transaction
	DealRepo() deal.Repository
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() inventory.BatchRepository
	// PositionRepo returns the position repository scoped to the current transaction
	PositionRepo() inventory.PositionRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	dealRepo     deal.Repository
	batchRepo    inventory.BatchRepository
	positionRepo inventory.PositionRepository
	productRepo  catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	dealRepo deal.Repository,
	batchRepo inventory.BatchRepository,
	positionRepo inventory.PositionRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		dealRepo:     dealRepo,
		batchRepo:    batchRepo,
		positionRepo: positionRepo,
		productRepo:  productRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DealRepo returns the deal repository
func (s *NoOpTransactionScope) DealRepo() deal.Repository { return s.dealRepo }

// BatchRepo returns the batch repository
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository { return s.batchRepo }

// PositionRepo returns the position repository
func (s *NoOpTransactionScope) PositionRepo() inventory.PositionRepository { return s.positionRepo }

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
