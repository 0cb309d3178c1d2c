package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId": account.ID,
	})

	const query = `
INSERT INTO accounts (
	id,
	email,
	full_name,
	password_hash,
	balance
) VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.FullName,
		account.PasswordHash,
		account.Balance,
	).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository email already registered", logger.Fields{
				"accountId": account.ID,
			})
			return domain.Account{}, domain.ErrEmailTaken
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId": account.ID,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	if uuid.Validate(id) != nil {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	const query = `
SELECT id, email, full_name, password_hash, balance, created_at, updated_at
FROM accounts
WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `
SELECT id, email, full_name, password_hash, balance, created_at, updated_at
FROM accounts
WHERE LOWER(email) = LOWER($1)`

	return r.getOne(ctx, query, email)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg string) (domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.FullName,
		&account.PasswordHash,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository get failed", err, nil)
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

// Debit locks the account row until tx ends, checks the balance and writes
// the reduced balance.
func (r *AccountRepository) Debit(ctx context.Context, tx domain.Tx, accountID string, amount domain.Money) (domain.Money, error) {
	logger.Info("account repository debit", logger.Fields{
		"accountId": accountID,
		"amount":    amount.String(),
	})

	stx, err := sqlTx(tx)
	if err != nil {
		return domain.Money{}, err
	}

	current, err := lockBalance(ctx, stx, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	if current.LessThan(amount) {
		logger.Info("account repository debit insufficient funds", logger.Fields{
			"accountId": accountID,
		})
		return domain.Money{}, domain.ErrInsufficientFunds
	}

	next := current.Sub(amount)
	if err := writeBalance(ctx, stx, accountID, next); err != nil {
		logger.Error("account repository debit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Money{}, fmt.Errorf("debit account: %w", err)
	}

	logger.Info("account repository debit success", logger.Fields{
		"accountId":  accountID,
		"newBalance": next.String(),
	})
	return next, nil
}

func (r *AccountRepository) Credit(ctx context.Context, tx domain.Tx, accountID string, amount domain.Money) (domain.Money, error) {
	logger.Info("account repository credit", logger.Fields{
		"accountId": accountID,
		"amount":    amount.String(),
	})

	stx, err := sqlTx(tx)
	if err != nil {
		return domain.Money{}, err
	}

	current, err := lockBalance(ctx, stx, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	next, err := current.Add(amount)
	if err != nil {
		logger.Info("account repository credit over balance limit", logger.Fields{
			"accountId": accountID,
		})
		return domain.Money{}, domain.ErrBalanceLimit
	}
	if err := writeBalance(ctx, stx, accountID, next); err != nil {
		logger.Error("account repository credit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Money{}, fmt.Errorf("credit account: %w", err)
	}

	logger.Info("account repository credit success", logger.Fields{
		"accountId":  accountID,
		"newBalance": next.String(),
	})
	return next, nil
}

func lockBalance(ctx context.Context, tx *sql.Tx, accountID string) (domain.Money, error) {
	if uuid.Validate(accountID) != nil {
		return domain.Money{}, domain.ErrAccountNotFound
	}

	const query = `
SELECT balance
FROM accounts
WHERE id = $1
FOR UPDATE`

	var balance domain.Money
	if err := tx.QueryRowContext(ctx, query, accountID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": accountID,
			})
			return domain.Money{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository lock balance failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Money{}, fmt.Errorf("lock account balance: %w", err)
	}

	return balance, nil
}

func writeBalance(ctx context.Context, tx *sql.Tx, accountID string, balance domain.Money) error {
	const query = `
UPDATE accounts
SET balance = $2::numeric,
    updated_at = NOW()
WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, accountID, balance)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance rows affected: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("update balance: expected 1 row, got %d", rows)
	}
	return nil
}
