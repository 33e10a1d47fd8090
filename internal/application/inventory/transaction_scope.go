package inventory

import (
	"context"

	"github.com/crm/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// All repository operations inside Execute share one database transaction
// and commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the inventory repositories bound to the
// current transaction. The batch ledger and the cached positions must change
// together, which is why deduction and receipt always run under this scope.
type TransactionalRepositories interface {
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() inventory.BatchRepository
	// PositionRepo returns the position repository scoped to the current transaction
	PositionRepo() inventory.PositionRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests where the fakes have no transactional behavior to share.
type NoOpTransactionScope struct {
	batchRepo    inventory.BatchRepository
	positionRepo inventory.PositionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	batchRepo inventory.BatchRepository,
	positionRepo inventory.PositionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:    batchRepo,
		positionRepo: positionRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository {
	return s.batchRepo
}

// PositionRepo returns the position repository
func (s *NoOpTransactionScope) PositionRepo() inventory.PositionRepository {
	return s.positionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
