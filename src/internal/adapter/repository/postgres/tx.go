package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
)

type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a READ COMMITTED transaction bound to ctx. Serialization of
// balance changes comes from the row lock taken in Debit and Credit; if ctx
// ends before Commit the driver rolls the transaction back.
func (m *TxManager) Begin(ctx context.Context) (domain.Tx, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin postgres transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit(context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit postgres transaction: %w", err)
	}
	return nil
}

func (t *Tx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback postgres transaction: %w", err)
	}
	return nil
}

func sqlTx(tx domain.Tx) (*sql.Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, fmt.Errorf("postgres: foreign transaction %T", tx)
	}
	return t.tx, nil
}
