package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-trade-server/internal/app/api"
	orderpostgres "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-trade-server/internal/platform/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge orders")
	}

	cutoff := time.Now().UTC().Add(-cfg.OrderRetention)
	removed, err := orderpostgres.NewRepository(db).PurgeTerminalBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge orders: %v", err)
	}
	logger.Info("order purge completed", slog.Int64("removed", removed), slog.Time("cutoff", cutoff))
}
