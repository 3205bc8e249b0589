package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DaniellaNwagu/credit-risk/internal/config"
	"github.com/DaniellaNwagu/credit-risk/internal/db"
	borrowerdomain "github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
	loandomain "github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
	"github.com/DaniellaNwagu/credit-risk/internal/http/handlers"
	"github.com/DaniellaNwagu/credit-risk/internal/observability"
	memoryrepo "github.com/DaniellaNwagu/credit-risk/internal/repository/memory"
	postgresrepo "github.com/DaniellaNwagu/credit-risk/internal/repository/postgres"
	"github.com/DaniellaNwagu/credit-risk/internal/server"
	"github.com/DaniellaNwagu/credit-risk/internal/ws"
)

type stores struct {
	pinger    handlers.Pinger
	borrowers interface {
		borrowerdomain.Repository
		loandomain.BorrowerLookup
	}
	loans interface {
		loandomain.Repository
		borrowerdomain.LoanCounter
	}
	outbox interface {
		loandomain.OutboxRepository
		ws.FeedRepository
	}
	tx    loandomain.Transactor
	close func()
}

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", "err", err, "store", cfg.StoreDriver)
		os.Exit(1)
	}
	defer st.close()

	metrics := observability.NewMetrics()
	borrowerService := borrowerdomain.NewService(st.borrowers, st.loans)
	loanService := loandomain.NewService(st.borrowers, st.loans, st.outbox, metrics).WithLogger(logger)
	if st.tx != nil {
		loanService = loanService.WithTransactor(st.tx)
	}

	hub := ws.NewHub()
	notifier := ws.NewNotifier(st.outbox, hub, cfg.WSPollInterval).WithLogger(logger)

	r := server.NewRouter(cfg, logger, server.Dependencies{
		Pinger:          st.pinger,
		Metrics:         metrics,
		BorrowerHandler: handlers.NewBorrowerHandler(borrowerService),
		LoanHandler:     handlers.NewLoanHandler(loanService),
		WSHandler:       ws.NewHandler(hub),
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := notifier.Run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("ws notifier stopped", "err", err)
		}
	}()

	go func() {
		logger.Info("api server starting", "addr", cfg.Addr(), "store", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("api server stopped")
}

func openStores(cfg config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.UseMemoryStore() {
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			borrowers: memoryrepo.NewBorrowerRepository(),
			loans:     memoryrepo.NewLoanRepository(),
			outbox:    memoryrepo.NewOutboxRepository(),
			close:     func() {},
		}, nil
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			return nil, err
		}
		logger.Info("migrations applied", "source", cfg.MigrationsDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		pinger:    pool,
		borrowers: postgresrepo.NewBorrowerRepository(pool),
		loans:     postgresrepo.NewLoanRepository(pool),
		outbox:    postgresrepo.NewOutboxRepository(pool),
		tx:        postgresrepo.NewTransactor(pool),
		close:     pool.Close,
	}, nil
}
