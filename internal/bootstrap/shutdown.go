package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/scheduler"
	"github.com/osse101/Crucible_Go/internal/server"
	"github.com/osse101/Crucible_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and workers (finish the sweep in flight)
// 3. Event publisher (flush pending events)
// 4. Storage
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownWorkers)
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if components.ResilientPublisher != nil {
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Storage != nil {
		components.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
