package domain

import "context"

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mock_domain github.com/pr-poehali-dev/bank-brill-design/src/internal/domain AccountRepository,LedgerStore,TransactionManager,TransactionRecorder,TransactionRepository,Tx

// Tx is one atomic unit of work. Exactly one of Commit or Rollback ends it;
// calling Rollback after Commit is a no-op.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type TransactionManager interface {
	Begin(ctx context.Context) (Tx, error)
}
