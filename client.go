// Package client assembles the inventory client for host applications: a
// durable session store, the authenticated request pipeline with its typed
// gateways, authorization-gated services, and a periodic backend liveness
// monitor. Hosts construct one Client per backend and inject their own
// notifier to surface messages in their UI.
package client

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/ports"
	"github.com/inventorypro/client-go/internal/core/service"
	"github.com/inventorypro/client-go/internal/infrastructure/backend"
	"github.com/inventorypro/client-go/internal/infrastructure/config"
	"github.com/inventorypro/client-go/internal/infrastructure/state"
	"github.com/inventorypro/client-go/pkg/logger"
)

// Option overrides one of the client's default dependencies.
type Option func(*settings)

type settings struct {
	notifier   ports.Notifier
	httpClient *http.Client
	stateStore ports.StateStore
	logOutput  io.Writer
	logPretty  bool
}

// WithNotifier routes user-facing notifications to the host's UI instead of
// the structured log.
func WithNotifier(n ports.Notifier) Option {
	return func(s *settings) { s.notifier = n }
}

// WithHTTPClient overrides the underlying HTTP transport.
func WithHTTPClient(h *http.Client) Option {
	return func(s *settings) { s.httpClient = h }
}

// WithStateStore overrides where the session record is persisted.
func WithStateStore(store ports.StateStore) Option {
	return func(s *settings) { s.stateStore = store }
}

// WithLogOutput redirects log output, e.g. to a file or test buffer.
func WithLogOutput(w io.Writer) Option {
	return func(s *settings) { s.logOutput = w }
}

// WithPrettyLogs switches log output from JSON to coloured console lines.
func WithPrettyLogs() Option {
	return func(s *settings) { s.logPretty = true }
}

// Client is the assembled inventory client. The exported fields are the
// surfaces host applications program against.
type Client struct {
	Sessions  ports.SessionStore
	Auth      ports.AuthService
	Products  ports.ProductService
	Inventory ports.InventoryService
	Reports   ports.ReportGateway
	Health    *backend.HealthMonitor

	log zerolog.Logger
}

// New wires a Client from cfg. It rehydrates any persisted session, so the
// returned client is already authenticated when a previous run left valid
// credentials behind. Call Sessions.Current().Authenticated() to find out.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: s.logPretty,
		Output: s.logOutput,
	})

	store := s.stateStore
	if store == nil {
		if cfg.State.RedisAddr != "" {
			rdb, err := state.Connect(ctx, state.RedisConfig{
				Addr: cfg.State.RedisAddr,
				DB:   cfg.State.RedisDB,
			})
			if err != nil {
				return nil, err
			}
			store = state.NewRedisStore(rdb, cfg.State.Namespace, log)
		} else {
			store = state.NewFileStore(cfg.State.FilePath, log)
		}
	}

	sessions := service.NewSessionStore(store, log)
	if err := sessions.Rehydrate(ctx); err != nil {
		return nil, err
	}

	notifier := s.notifier
	if notifier == nil {
		notifier = backend.NewLogNotifier(log)
	}

	pipeline := backend.NewClient(backend.Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.HTTPTimeout,
		HTTPClient: s.httpClient,
	}, sessions, notifier, log)

	authGW := backend.NewAuthGateway(pipeline)
	productGW := backend.NewProductGateway(pipeline)
	inventoryGW := backend.NewInventoryGateway(pipeline)

	return &Client{
		Sessions:  sessions,
		Auth:      service.NewAuthService(sessions, authGW, log),
		Products:  service.NewProductService(sessions, productGW, log),
		Inventory: service.NewInventoryService(sessions, productGW, inventoryGW, log),
		Reports:   backend.NewReportGateway(pipeline),
		Health:    backend.NewHealthMonitor(cfg.BaseURL, cfg.Health.Interval, cfg.Health.Timeout, log),
		log:       log,
	}, nil
}

// StartHealthMonitor launches the periodic liveness probe. It stops when ctx
// is cancelled.
func (c *Client) StartHealthMonitor(ctx context.Context) {
	c.Health.Start(ctx)
}
