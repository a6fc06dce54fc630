package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := cmd.NewLogger(configs.LogLevel)

	var db *gorm.DB
	if configs.HasDatabase() {
		if db, err = cmd.OpenDatabase(configs); err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
	} else {
		logger.Warn("DB_HOST is not set, carrier roster endpoints are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cmd.NewCompositionRoot(configs, db, metrics.NewRecorder(prometheus.DefaultRegisterer), logger)

	jobManager, err := app.CreateJobManager(ctx)
	if err != nil {
		log.Fatalf("Error creating jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, &app, configs, logger)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) {
	batchHandler, err := app.CreateRunBatchCommandHandler(ctx)
	if err != nil {
		log.Fatalf("Error creating batch handler: %v", err)
	}

	handlers := httpin.Handlers{
		AssignJobs: app.CreateAssignJobsCommandHandler(),
		RunBatch:   batchHandler,
	}
	if app.HasRoster() {
		dispatchHandler, dispatchErr := app.CreateDispatchJobsCommandHandler()
		if dispatchErr != nil {
			log.Fatalf("Error creating dispatch handler: %v", dispatchErr)
		}
		createCarrierHandler := app.CreateCreateCarrierCommandHandler()

		handlers.DispatchJobs = dispatchHandler
		handlers.CreateCarrier = &createCarrierHandler
		handlers.GetAllCarriers = app.CreateGetAllCarriersQueryHandler()
	}

	server := httpin.NewServer(handlers, httpin.Config{
		MaxHours:  configs.MaxHours,
		JWTSecret: []byte(configs.JWTSecret),
		Logger:    logger,
	})

	e := echo.New()
	e.HideBanner = true
	if err = server.Register(ctx, e); err != nil {
		log.Fatalf("Error registering routes: %v", err)
	}

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			e.Logger.Fatal(startErr)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
