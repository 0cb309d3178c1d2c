package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/controller"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/middleware"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/router"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/config"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/logger"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited with error", err, nil)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	transferService := services.NewTransferService(
		store.txManager,
		store.ledger,
		store.recorder,
		services.NewDestinationClassifier(cfg.HomePrefixes),
		cfg.RecordRejected,
	)
	accountService := services.NewAccountService(
		store.accounts,
		store.history,
		store.txManager,
		store.ledger,
		store.recorder,
		0,
	)

	var authMiddleware func(http.Handler) http.Handler
	if cfg.ChannelID != "" {
		authMiddleware = middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)
	}

	handler := router.New(
		controller.NewTransferController(transferService),
		controller.NewAccountController(accountService),
		controller.NewHealthController(store.health),
		router.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AuthMiddleware: authMiddleware,
		},
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", logger.Fields{
			"addr":  cfg.HTTPAddr,
			"store": cfg.StoreDriver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("http server shutting down", logger.Fields{"timeout": cfg.ShutdownTimeout.String()})

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
