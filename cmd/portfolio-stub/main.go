package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/stubapi"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "portfolio-stub"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "portfolio-stub",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	db, err := stubapi.OpenStore(cfg.Stub.DBPath)
	if err != nil {
		logg.Error(context.Background(), "failed to open store", err)
		os.Exit(1)
	}

	if err := stubapi.SeedAdmin(db, cfg.Stub, cfg.Password); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	server, err := stubapi.NewServer(stubapi.Params{
		DB:       db,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Stub:     cfg.Stub,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stub server", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Stub.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"db":   cfg.Stub.DBPath,
	})
	logg.Info(ctx, "starting stub api server")

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "stub api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
