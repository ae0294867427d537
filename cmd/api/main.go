package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-tracker/internal/app"
	"expense-tracker/internal/config"
	"expense-tracker/internal/database"
)

// @title Expense Tracker API
// @version 1.0
// @description Personal finance tracker with holiday spending insights
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}

	application := app.New(cfg, db)

	go func() {
		slog.Info("Starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := application.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server stopped unexpectedly: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Echo.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
