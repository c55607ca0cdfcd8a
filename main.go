package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"hunt/api-gateway/config"
	"hunt/api-gateway/handlers"
	"hunt/api-gateway/internal/grpchealth"
	"hunt/api-gateway/repository"
	"hunt/api-gateway/router"
	"hunt/api-gateway/services"
)

// @title Hunt Job Tracker API
// @version 1.0
// @description Tracks job applications: create, list, merge-update and delete.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	repo, closeStore, err := openRepository(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize store")
	}
	defer closeStore()

	var health handlers.HealthChecker
	if p, ok := repo.(repository.Pinger); ok {
		health = p
	}

	svc := services.NewApplicationService(repo, log, cfg.RequestTimeout)
	app := router.New(handlers.NewApplicationHandler(svc, health, log), log, router.Options{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
	})

	var grpcHealth *grpchealth.Server
	if cfg.GRPCHealthAddr != "" {
		grpcHealth = grpchealth.NewServer(log)
		go func() {
			if err := grpcHealth.ListenAndServe(cfg.GRPCHealthAddr); err != nil {
				log.WithError(err).Error("gRPC health server failed")
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("Starting job tracker API")
		serverErr <- app.Listen(":" + cfg.Port)
	}()
	if grpcHealth != nil {
		grpcHealth.SetServing()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down")
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("HTTP server stopped")
		}
	}

	if grpcHealth != nil {
		grpcHealth.Stop()
	}
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Server exited")
}

// openRepository picks the store backend named by STORE_DRIVER. The returned func releases it.
func openRepository(cfg *config.Config, log *logrus.Logger) (repository.Repository, func(), error) {
	if cfg.StoreDriver == config.DriverSupabase {
		client, err := config.NewSupabaseClient(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSupabaseRepository(client, log), func() {}, nil
	}

	db, err := config.OpenDatabase(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	repo := repository.NewGormRepository(db, log)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	return repo, closeDB, nil
}
