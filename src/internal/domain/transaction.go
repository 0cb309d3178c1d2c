package domain

import "time"

type TransactionKind string

const (
	TransactionKindTransfer TransactionKind = "transfer"
	TransactionKindDeposit  TransactionKind = "deposit"
)

type TransactionStatus string

const (
	TransactionStatusCompleted         TransactionStatus = "completed"
	TransactionStatusInsufficientFunds TransactionStatus = "insufficient_funds"
)

// TransactionRecord is append-only. Stores expose no update or delete for it;
// corrections are new offsetting records.
type TransactionRecord struct {
	ID                    int64
	AccountID             string
	Kind                  TransactionKind
	Amount                Money
	Description           string
	DestinationCardNumber string
	Status                TransactionStatus
	CreatedAt             time.Time
}
