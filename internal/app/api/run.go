package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ordershttp "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/http"
	ordersmemory "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-trade-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"

	"github.com/Apurer/go-gin-trade-server/internal/clients/grpc/identity"
	"github.com/Apurer/go-gin-trade-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-trade-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-trade-server/internal/platform/postgres"
)

const serviceName = "trade-api"

// Run boots the order HTTP API with observability, storage, and the auth client
// wired. It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildOrderRepository(ctx, cfg, logger)
	defer cleanupRepo()

	authClient, err := identity.Dial(identity.Config{
		Address:     cfg.AuthAddress,
		Timeout:     cfg.AuthTimeout,
		MaxFailures: cfg.AuthMaxFailures,
		OpenTimeout: cfg.AuthBreakerTimeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build auth client: %w", err)
	}
	defer authClient.Close()

	orderService := ordersobs.New(
		ordersapp.NewService(repo, authClient),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	responder := ordershttp.NewResponder()
	responder.Logger = logger
	router := NewRouter(serviceName, ordershttp.NewOrderAPI(orderService, responder))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("trade API listening", slog.String("addr", server.Addr), slog.String("auth", cfg.AuthAddress))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("trade API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down trade API")
		return server.Shutdown(shutdownCtx)
	}
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return ordersmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate order schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return ordersmemory.NewRepository(), func() {}
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), cleanup
}
