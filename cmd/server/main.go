package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"retailpos/m/internal/api"
	"retailpos/m/internal/catalog"
	"retailpos/m/internal/config"
	"retailpos/m/internal/database"
	"retailpos/m/internal/events"
	"retailpos/m/internal/ledger"
	"retailpos/m/internal/migrations"
	"retailpos/m/internal/observability"
	"retailpos/m/internal/payment"
	"retailpos/m/internal/pkg/clock"
	"retailpos/m/internal/receipt"
	"retailpos/m/internal/saga"
	"retailpos/m/internal/seed"
	"retailpos/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg)
	if err != nil {
		logger.Error("tracing disabled", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracing shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	products := store.NewCatalogRepo(db)
	if _, err := seed.LoadCatalog(ctx, products, cfg.CatalogCSV, logger); err != nil {
		logger.Error("catalog seed failed", zap.Error(err))
	}

	var publisher events.Publisher = events.Nop()
	if len(cfg.KafkaBrokers) > 0 {
		kafka := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafka.Close()
		publisher = kafka
	}

	clk := clock.New()
	sales := store.NewSaleRepo(db)
	inventory := store.NewInventoryRepo(db)
	projector := receipt.NewProjector(sales, store.NewDirectoryRepo(db), products)
	inventoryLedger := ledger.New(inventory, clk, logger, ledger.WithOversell(cfg.AllowOversell))
	saleSaga := saga.New(sales, inventoryLedger, payment.NewRecorder(store.NewPaymentRepo(db), clk), projector, clk, logger,
		saga.WithPublisher(publisher))

	handler := api.New(cfg.Secret, api.Deps{
		Users:     store.NewUserRepo(db),
		Sales:     saleSaga,
		Receipts:  projector,
		Sellable:  catalog.NewMerge(inventory, products),
		Inventory: inventoryLedger,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
	}

	go func() {
		logger.Info("retail POS server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
