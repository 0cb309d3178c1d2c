package domain

import "context"

type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
}

// LedgerStore is the only writer of account balances. Debit and Credit lock
// the account row for the rest of tx, so operations on one account serialize.
type LedgerStore interface {
	Debit(ctx context.Context, tx Tx, accountID string, amount Money) (Money, error)
	Credit(ctx context.Context, tx Tx, accountID string, amount Money) (Money, error)
}
