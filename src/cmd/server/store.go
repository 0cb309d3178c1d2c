package main

import (
	"context"
	"fmt"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/controller"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/repository/memory"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/repository/postgres"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/config"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/logger"
)

type storeSet struct {
	txManager domain.TransactionManager
	accounts  domain.AccountRepository
	ledger    domain.LedgerStore
	recorder  domain.TransactionRecorder
	history   domain.TransactionRepository
	health    controller.Pinger
	close     func()
}

func openStore(ctx context.Context, cfg config.Config) (storeSet, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart", nil)
		store := memory.NewStore()
		return storeSet{
			txManager: store,
			accounts:  store,
			ledger:    store,
			recorder:  store,
			history:   store,
			health:    store,
			close:     func() {},
		}, nil

	case config.StoreDriverPostgres:
		if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN); err != nil {
			return storeSet{}, fmt.Errorf("run migrations: %w", err)
		}

		db, err := postgres.Open(ctx, cfg.DatabaseDSN, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdleTime: cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		})
		if err != nil {
			return storeSet{}, err
		}

		accounts := postgres.NewAccountRepository(db)
		records := postgres.NewTransactionRepository(db)
		return storeSet{
			txManager: postgres.NewTxManager(db),
			accounts:  accounts,
			ledger:    accounts,
			recorder:  records,
			history:   records,
			health:    postgres.NewHealthChecker(db),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("close postgres pool failed", err, nil)
				}
			},
		}, nil

	default:
		return storeSet{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
