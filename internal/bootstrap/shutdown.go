package bootstrap

import (
	"context"
	"log/slog"

	"github.com/pulseroom/pulseroom/internal/combo"
	"github.com/pulseroom/pulseroom/internal/database"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/server"
	"github.com/pulseroom/pulseroom/internal/wheel"
	"github.com/pulseroom/pulseroom/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	ComboTracker       *combo.Tracker
	WheelService       wheel.Service
	ResilientPublisher *event.ResilientPublisher
	WorkerPool         *worker.Pool
	DBPool             database.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Timer-driven services (cancel pending combo and wheel timers)
// 3. Event publisher (flush pending retries and dead letters)
// 4. Worker pool (finish queued ledger writes)
// 5. Database pool
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.ComboTracker != nil {
		if err := components.ComboTracker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgComboShutdownFailed, "error", err)
		}
	}

	if components.WheelService != nil {
		if err := components.WheelService.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWheelShutdownFailed, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Drain(ctx); err != nil {
		slog.Error(LogMsgPublisherDrainFailed, "error", err)
	}

	// Queued async credits flush before the pool releases its workers.
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
