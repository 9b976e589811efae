package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cantine/internal/config"
	"github.com/mamadbah2/cantine/internal/entry"
	sheetsrepo "github.com/mamadbah2/cantine/internal/repository/sheets"
	"github.com/mamadbah2/cantine/internal/scheduler"
	"github.com/mamadbah2/cantine/internal/server/handlers"
	"github.com/mamadbah2/cantine/internal/server/router"
	reportingsvc "github.com/mamadbah2/cantine/internal/service/reporting"
	"github.com/mamadbah2/cantine/pkg/clients/mealapi"
	"github.com/mamadbah2/cantine/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	apiClient := mealapi.NewClient(cfg.Remote)

	var sheetsRepo sheetsrepo.Repository
	if cfg.Sheets.CredentialsPath != "" {
		sheetsRepo, err = sheetsrepo.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets credentials missing, weekly export disabled")
	}

	form := entry.NewForm(apiClient, baseLogger.Named("entry.form"))
	reportingSvc := reportingsvc.NewService(apiClient, sheetsRepo, cfg.Sheets.ExportRange, baseLogger.Named("svc.reporting"))

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	if user, err := apiClient.CurrentUser(startupCtx); err != nil {
		baseLogger.Warn("could not resolve remote identity", zap.Error(err))
	} else {
		baseLogger.Info("remote identity resolved", zap.String("user_id", user.ID), zap.String("email", user.Email))
	}
	if err := form.LoadHospitals(startupCtx); err != nil {
		// The page shows the fetch-failure banner; the refresh cron retries.
		baseLogger.Warn("initial hospital load failed", zap.Error(err))
	}
	cancelStartup()

	entryHandler := handlers.NewEntryHandler(form, baseLogger.Named("handlers.entry"))
	engine := router.New(entryHandler, "web/templates/*.html", baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, form, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
