package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medvend/portal/config"
	"github.com/medvend/portal/internal/auth"
	"github.com/medvend/portal/internal/bootstrap"
	"github.com/medvend/portal/internal/logger"
)

const serviceName = "medvend-portal"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		appLog.WithError(err).Fatal("failed to initialize Firebase")
	}

	provider, err := auth.NewFirebaseProvider(ctx, app, cfg.Firebase.WebAPIKey, cfg.Session.TTL)
	if err != nil {
		appLog.WithError(err).Fatal("failed to initialize auth provider")
	}

	docs, err := bootstrap.OpenStore(ctx, cfg, app)
	if err != nil {
		appLog.WithError(err).Fatal("failed to open document store")
	}
	defer docs.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		appLog.WithError(err).Fatal("failed to connect to redis")
	}
	defer rdb.Close()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		Log:         appLog,
		Provider:    provider,
		Store:       docs,
		Redis:       rdb,
	})
	if err != nil {
		appLog.WithError(err).Fatal("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.WithField("port", cfg.Server.Port).WithField("store", cfg.Store.Backend).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Fatal("ListenAndServe")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("server forced to shutdown")
	}
}
