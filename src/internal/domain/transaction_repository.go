package domain

import "context"

type TransactionRecorder interface {
	Append(ctx context.Context, tx Tx, record TransactionRecord) (TransactionRecord, error)
}

type TransactionRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]TransactionRecord, error)
}
