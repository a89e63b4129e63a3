package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alderworks/workshop/internal/catalog"
	"github.com/alderworks/workshop/internal/clock"
	"github.com/alderworks/workshop/internal/job"
	"github.com/alderworks/workshop/internal/ledger"
	"github.com/alderworks/workshop/internal/logger"
	"github.com/alderworks/workshop/internal/roster"
	"github.com/alderworks/workshop/internal/router"
	"github.com/alderworks/workshop/internal/shop"
	"github.com/alderworks/workshop/internal/storage"
	memstorage "github.com/alderworks/workshop/internal/storage/memory"
	pgstorage "github.com/alderworks/workshop/internal/storage/postgres"
	"github.com/alderworks/workshop/internal/types/item"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	cfg, err := NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store storage.Storage
	if cfg.DatabaseConnection != "" {
		pg, err := pgstorage.NewPostgresStorage(cfg.DatabaseConnection)
		if err != nil {
			log.Fatalf("Failed to initialize Postgres storage: %v", err)
		}
		store = pg
	} else {
		store = memstorage.NewMemoryStorage()
	}
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close storage: %v", err)
		}
	}()

	ledgerSvc := ledger.NewService(store)
	ledgerHandler := ledger.NewHandler(ledgerSvc)

	products := item.DefaultProducts()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := catalog.NewGenerator(catalog.DefaultConfig(), products, rng)
	if cfg.TutorialMode {
		gen.PinProduct(products[0])
	}

	rewardCfg := job.RewardConfig{
		PayPerUnit:          cfg.PayPerUnit,
		BaseXPPerOrder:      cfg.BaseXPPerOrder,
		FailurePenaltyMoney: int64(cfg.FailurePenaltyMoney),
		FailurePenaltyXP:    int64(cfg.FailurePenaltyXP),
	}

	clk := clock.RealClock{}
	mgr := job.NewManager(gen, rewardCfg, ledgerSvc, clk, cfg.CustomerSlots)

	keeper := roster.NewKeeper()
	mgr.SetRosterSink(keeper)
	mgr.Subscribe(func() {
		logger.Log.Debug("board changed")
	})
	mgr.Start()

	jobHandler := job.NewHandler(mgr, clk)
	rosterHandler := roster.NewHandler(keeper)

	shopSvc := shop.NewService(shop.DefaultItems(), ledgerSvc, store)
	shopHandler := shop.NewHandler(shopSvc)

	r := router.NewRouter(jobHandler, ledgerHandler, shopHandler, rosterHandler)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		job.SweepLoop(ctx, mgr, cfg.SweepInterval)
	}()

	go func() {
		logger.Log.Info("starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("server stopped gracefully")
	return nil
}
