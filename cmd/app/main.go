package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/Crucible_Go/internal/bootstrap"
	"github.com/osse101/Crucible_Go/internal/config"
	"github.com/osse101/Crucible_Go/internal/handler"
	"github.com/osse101/Crucible_Go/internal/manufacturing"
	"github.com/osse101/Crucible_Go/internal/material"
	"github.com/osse101/Crucible_Go/internal/purification"
	"github.com/osse101/Crucible_Go/internal/refining"
	"github.com/osse101/Crucible_Go/internal/server"
	"github.com/osse101/Crucible_Go/internal/utils"
)

const shutdownTimeout = 10 * time.Second

// @title Crucible Material Pipeline API
// @version 1.0
// @description Material extraction, refining, purification and manufacturing.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	envWarnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		log.Fatalf("Environment check failed: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logFile.Close()

	for _, w := range envWarnings {
		slog.Warn("Environment warning", "detail", w)
	}

	ctx := context.Background()

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	cat, err := bootstrap.LoadCatalog(ctx, cfg)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}
	if err := bootstrap.RegisterEventHandlers(eventBus); err != nil {
		slog.Error("Failed to register event handlers", "error", err)
		os.Exit(1)
	}

	handler.InitValidator()

	rnd := utils.NewSeededSource(cfg.RNGSeed)
	store := storage.Store

	materialSvc := material.NewService(store, cat, rnd)
	refiningSvc := refining.NewService(store, refining.NewEngine(rnd), publisher, cfg.RefiningCycleDuration)
	purificationSvc := purification.NewService(store, purification.NewEngine(rnd), publisher)
	manufacturingSvc := manufacturing.NewService(store, cat, bootstrap.CaptainBonuses(cat), publisher)

	workerPool, sched := bootstrap.StartWorkers(cfg, manufacturingSvc)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		ServiceName:    cfg.ServiceName,
	}, server.Services{
		Store:         store,
		Materials:     materialSvc,
		Refining:      refiningSvc,
		Purification:  purificationSvc,
		Manufacturing: manufacturingSvc,
		Catalog:       cat,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         workerPool,
		ResilientPublisher: publisher,
		Storage:            storage,
	})
}
