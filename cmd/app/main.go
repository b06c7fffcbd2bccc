package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulseroom/pulseroom/internal/bootstrap"
	"github.com/pulseroom/pulseroom/internal/catalog"
	"github.com/pulseroom/pulseroom/internal/combo"
	"github.com/pulseroom/pulseroom/internal/config"
	"github.com/pulseroom/pulseroom/internal/database"
	"github.com/pulseroom/pulseroom/internal/gift"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/outcome"
	"github.com/pulseroom/pulseroom/internal/server"
	"github.com/pulseroom/pulseroom/internal/slots"
	"github.com/pulseroom/pulseroom/internal/wheel"
	"github.com/pulseroom/pulseroom/internal/worker"
)

const (
	ledgerWorkerCount   = 4
	ledgerQueueSize     = 256
	shutdownGracePeriod = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("pulseroom failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx := context.Background()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdleTime, cfg.DBMaxLifetime)
	if err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	if err := bootstrap.SyncGiftCatalog(ctx, repos.Catalog, cfg.GiftCatalogPath); err != nil {
		return err
	}

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	writePool := worker.NewPool(ledgerWorkerCount, ledgerQueueSize)
	writePool.Start()

	ledgerService := ledger.NewService(repos.Wallet, writePool, ledger.DefaultConfig())
	catalogService := catalog.NewService(repos.Catalog)
	selector := outcome.NewSelector(nil)

	giftService := gift.NewService(
		ledgerService,
		catalogService,
		repos.Leaderboard,
		repos.RoomState,
		repos.Roster,
		repos.GiftLog,
		publisher,
		selector,
		cfg.Games,
	)

	comboTracker := combo.NewTracker(giftService, publisher, combo.DefaultIdleWindow)
	giftService.SetComboTracker(comboTracker)

	wheelService := wheel.NewService(ledgerService, publisher, selector, cfg.Games, wheel.DefaultDurations())
	slotsService := slots.NewService(ledgerService, publisher, selector, cfg.Games, slots.DefaultRevealDelay)

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		cfg.TrustedProxies,
		dbPool,
		ledgerService,
		giftService,
		catalogService,
		comboTracker,
		wheelService,
		slotsService,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ComboTracker:       comboTracker,
		WheelService:       wheelService,
		ResilientPublisher: publisher,
		WorkerPool:         writePool,
		DBPool:             dbPool,
	})

	return nil
}
