package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/logger"
)

// TransactionRepository appends and lists transaction records. There is no
// update or delete; the table also rejects them with a trigger.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, tx domain.Tx, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	logger.Info("transaction repository append", logger.Fields{
		"accountId": record.AccountID,
		"kind":      record.Kind,
		"status":    record.Status,
	})

	stx, err := sqlTx(tx)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	const query = `
INSERT INTO transactions (
	account_id,
	kind,
	amount,
	description,
	card_number,
	status
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	var cardNumber sql.NullString
	if record.DestinationCardNumber != "" {
		cardNumber = sql.NullString{String: record.DestinationCardNumber, Valid: true}
	}

	if err := stx.QueryRowContext(
		ctx,
		query,
		record.AccountID,
		record.Kind,
		record.Amount,
		record.Description,
		cardNumber,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		logger.Error("transaction repository append failed", err, logger.Fields{
			"accountId":       record.AccountID,
			"foreignKeyError": isForeignKeyViolation(err),
		})
		return domain.TransactionRecord{}, fmt.Errorf("append transaction: %w", err)
	}

	logger.Info("transaction repository append success", logger.Fields{
		"transactionId": record.ID,
		"accountId":     record.AccountID,
	})

	return record, nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.TransactionRecord, error) {
	if uuid.Validate(accountID) != nil {
		return []domain.TransactionRecord{}, nil
	}

	const query = `
SELECT id, account_id, kind, amount, description, card_number, status, created_at
FROM transactions
WHERE account_id = $1
ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("transaction repository list failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		var (
			record     domain.TransactionRecord
			cardNumber sql.NullString
		)
		if err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&record.Kind,
			&record.Amount,
			&record.Description,
			&cardNumber,
			&record.Status,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		record.DestinationCardNumber = cardNumber.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return records, nil
}
