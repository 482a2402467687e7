package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch-service/internal/auth"
	"dispatch-service/internal/config"
	"dispatch-service/internal/db"
	httphandler "dispatch-service/internal/http"
	"dispatch-service/internal/http/middleware"
	"dispatch-service/internal/logger"
	"dispatch-service/internal/poller"
	"dispatch-service/internal/repository"
	"dispatch-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	dispatchRepo := repository.NewDispatchRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	invoiceRepo := repository.NewInvoiceRepository(database)
	referenceRepo := repository.NewReferenceRepository(database)
	kitRepo := repository.NewKitRepository(database)

	dispatchService := service.NewDispatchService(dispatchRepo, assignmentRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, dispatchRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, dispatchRepo)
	searchService := service.NewSearchService(dispatchRepo, assignmentRepo, invoiceRepo, appLogger)
	kitService := service.NewKitService(kitRepo)
	lookupService := service.NewLookupService(referenceRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(
		dispatchService,
		assignmentService,
		invoiceService,
		searchService,
		kitService,
		lookupService,
		appLogger,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	autoClear := poller.NewAutoClear(assignmentRepo, dispatchRepo, cfg.Poller.Interval, appLogger)
	go autoClear.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		appLogger.Info().Str("addr", addr).Msg("starting dispatch service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("failed to start server")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server shutdown")
	}
	appLogger.Info().Msg("dispatch service stopped")
}
