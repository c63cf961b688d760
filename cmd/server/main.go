package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/config"
	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/repository"
	"github.com/mamadbah2/riceledger/internal/repository/memory"
	"github.com/mamadbah2/riceledger/internal/repository/mongodb"
	"github.com/mamadbah2/riceledger/internal/repository/sheets"
	"github.com/mamadbah2/riceledger/internal/scheduler"
	"github.com/mamadbah2/riceledger/internal/server/handlers"
	"github.com/mamadbah2/riceledger/internal/server/router"
	recordssvc "github.com/mamadbah2/riceledger/internal/service/records"
	reportingsvc "github.com/mamadbah2/riceledger/internal/service/reporting"
	salessvc "github.com/mamadbah2/riceledger/internal/service/sales"
	stocksvc "github.com/mamadbah2/riceledger/internal/service/stock"
	whatsappclient "github.com/mamadbah2/riceledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/riceledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	decimal.MarshalJSONWithoutQuotes = true

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	var m *metrics.Metrics
	if cfg.Server.MetricsEnabled {
		m = metrics.New()
	}

	ledger := stocksvc.NewLedger(store, baseLogger.Named("svc.stock"), stocksvc.WithMetrics(m))
	processor := salessvc.NewProcessor(store, ledger, baseLogger.Named("svc.sales"), salessvc.WithMetrics(m))
	reportingSvc := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"),
		reportingsvc.WithLocation(loc),
		reportingsvc.WithMetrics(m))
	recordsSvc := recordssvc.NewService(store, baseLogger.Named("svc.records"))

	engine := router.New(router.Handlers{
		Stock:     handlers.NewStockHandler(ledger, baseLogger.Named("handlers.stock")),
		Sales:     handlers.NewSalesHandler(processor, loc, baseLogger.Named("handlers.sales")),
		Records:   handlers.NewRecordsHandler(recordsSvc, loc, baseLogger.Named("handlers.records")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
	}, m, baseLogger.Named("router"))

	var schedOpts []scheduler.Option
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		schedOpts = append(schedOpts, scheduler.WithSheet(sheetsRepo))
	} else {
		baseLogger.Warn("google sheets not configured, snapshot export disabled")
	}
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(whatsappclient.Config{
			BaseURL:       cfg.WhatsApp.BaseURL,
			APIVersion:    cfg.WhatsApp.APIVersion,
			AccessToken:   cfg.WhatsApp.AccessToken,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		})
		schedOpts = append(schedOpts, scheduler.WithMessenger(whatsClient, cfg.WhatsApp.ReportRecipient))
	} else {
		baseLogger.Warn("whatsapp not configured, report delivery disabled")
	}

	sched := scheduler.NewScheduler(cfg.Reporting, loc, reportingSvc, store, baseLogger.Named("scheduler"), schedOpts...)
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler(engine),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	repo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
