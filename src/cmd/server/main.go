package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/banking-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/banking-ledger/src/internal/config"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	accountTable := memory.NewAccountTable()
	if err := seedAccounts(accountTable, cfg.SeedAccounts); err != nil {
		log.Fatalf("seed accounts: %v", err)
	}

	ledgerService := services.NewLedgerService(accountTable, cfg.MaxWithdrawal)

	mux := router.New(
		controller.NewAccountController(ledgerService),
		controller.NewTransferController(ledgerService),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ledger server listening", logger.Fields{
			"addr":          cfg.ListenAddr,
			"maxWithdrawal": cfg.MaxWithdrawal,
			"seedAccounts":  len(cfg.SeedAccounts),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func seedAccounts(table *memory.AccountTable, seeds []config.SeedAccount) error {
	ctx := context.Background()
	for _, seed := range seeds {
		if err := table.Create(ctx, seed.AccountID); err != nil {
			return err
		}
		if seed.Balance.IsPositive() {
			if _, err := table.TryAdjust(ctx, seed.AccountID, seed.Balance, nil); err != nil {
				return err
			}
		}
		if seed.Frozen {
			if _, err := table.SetFrozen(ctx, seed.AccountID, true); err != nil {
				return err
			}
		}
	}
	return nil
}
