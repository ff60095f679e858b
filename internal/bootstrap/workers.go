package bootstrap

import (
	"log/slog"

	"github.com/osse101/Crucible_Go/internal/config"
	"github.com/osse101/Crucible_Go/internal/scheduler"
	"github.com/osse101/Crucible_Go/internal/worker"
)

// StartWorkers starts the worker pool and schedules the manufacturing sweeper on it
func StartWorkers(cfg *config.Config, completer worker.Completer) (*worker.Pool, *scheduler.Scheduler) {
	pool := worker.NewPool(WorkerPoolSize, WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(SweepJobName, cfg.JobSweepInterval, worker.NewSweepJob(completer, 0))

	slog.Info(LogMsgWorkersStarted, "workers", WorkerPoolSize, "sweep_interval", cfg.JobSweepInterval)
	return pool, sched
}
