package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-trade-server/internal/shared/requestid"
)

// VerifyTokenMethod is the full gRPC method name of the auth service check.
const VerifyTokenMethod = "/auth.AuthService/VerifyToken"

var _ ports.IdentityAuthority = (*Client)(nil)

// Config describes how to reach the auth service.
type Config struct {
	Address string
	// Timeout bounds a single VerifyToken call.
	Timeout time.Duration
	// MaxFailures consecutive failures open the breaker for OpenTimeout.
	MaxFailures uint32
	OpenTimeout time.Duration
	Logger      *slog.Logger
}

// Client verifies access tokens against the remote auth service.
type Client struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[ports.Verification]
	logger  *slog.Logger
}

// Dial opens a plaintext connection to cfg.Address. Extra dial options are
// appended after the defaults.
func Dial(cfg Config, opts ...grpc.DialOption) (*Client, error) {
	address := strings.TrimSpace(cfg.Address)
	if address == "" {
		return nil, errors.New("auth service address is required")
	}
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(requestid.UnaryClientInterceptor()),
	}, opts...)
	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial auth service: %w", err)
	}
	client := New(conn, cfg)
	client.closer = conn.Close
	return client, nil
}

// New builds a client over an existing connection. The caller owns conn.
func New(conn grpc.ClientConnInterface, cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	breaker := gobreaker.NewCircuitBreaker[ports.Verification](gobreaker.Settings{
		Name:    "authService",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return &Client{
		conn:    conn,
		closer:  func() error { return nil },
		timeout: cfg.Timeout,
		breaker: breaker,
		logger:  logger,
	}
}

// VerifyToken asks the auth service whether token is valid and whom it
// belongs to. Transport failures and an open breaker are returned as errors;
// a rejected token is a successful call with Valid false.
func (c *Client) VerifyToken(ctx context.Context, token string) (ports.Verification, error) {
	if c == nil || c.conn == nil {
		return ports.Verification{}, errors.New("auth client not configured")
	}
	result, err := c.breaker.Execute(func() (ports.Verification, error) {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		callCtx = metadata.AppendToOutgoingContext(callCtx, "authorization", "Bearer "+token)

		var resp tokenResponse
		if err := c.conn.Invoke(callCtx, VerifyTokenMethod, &tokenRequest{Token: token}, &resp, grpc.ForceCodec(wireCodec{})); err != nil {
			c.logger.ErrorContext(ctx, "VerifyToken failed", slog.String("error", err.Error()))
			return ports.Verification{}, err
		}
		return ports.Verification{Valid: resp.IsValid, UserID: resp.UserID}, nil
	})
	if err != nil {
		return ports.Verification{}, fmt.Errorf("circuit breaker: %w", err)
	}
	return result, nil
}

// Close releases the connection when the client opened it.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}
