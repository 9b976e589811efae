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
	"github.com/mamadbah2/cantine/internal/domain/models"
	"github.com/mamadbah2/cantine/internal/remote"
	"github.com/mamadbah2/cantine/internal/repository/mongodb"
	"github.com/mamadbah2/cantine/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	identity := models.User{
		ID:        "svc-remote",
		Email:     "kitchen@cantine.local",
		FirstName: "Kitchen",
		LastName:  "Service",
		Role:      "data_entry",
		Active:    true,
	}

	handler := remote.NewHandler(mongoRepo, identity, baseLogger.Named("remote.handlers"))
	engine := remote.NewRouter(handler, baseLogger.Named("remote.router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.RemotePort,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("remote service starting", zap.String("port", cfg.Server.RemotePort))
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
