package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/config"
	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/handler"
	"github.com/anicoll/smartthings-integration/internal/pkg/logic"
	"github.com/anicoll/smartthings-integration/internal/pkg/metrics"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
	"github.com/anicoll/smartthings-integration/internal/pkg/webhook"
	"github.com/anicoll/smartthings-integration/pkg/api"
)

const shutdownTimeout = 5 * time.Second

type bridgeService interface {
	SendCommand(ctx context.Context, req logic.SendCommandRequest) (entity.Result, error)
	ExecuteScene(ctx context.Context, sceneID string) error
	RefreshDevices(ctx context.Context) error
	Entities() []logic.EntityView
	Entity(uniqueID string) (logic.EntityView, error)
	Dispatch(ctx context.Context, uniqueID string, action entity.Action) (entity.Result, error)
	Image(ctx context.Context, uniqueID string) ([]byte, error)
	History(ctx context.Context, uniqueID string, from, to *time.Time) (model.EntityStates, error)
}

type server struct {
	cfg     *config.ServerConfig
	bridge  bridgeService
	webhook http.Handler
	logger  *zap.Logger
}

// New builds the HTTP surface. hooks may be nil when webhooks are disabled.
func New(cfg *config.ServerConfig, bridge bridgeService, hooks http.Handler) *server {
	return &server{cfg: cfg, bridge: bridge, webhook: hooks, logger: zap.L()}
}

func (s *server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	if s.webhook != nil {
		// the manager answers 404 itself for unknown hook ids
		r.Post(webhook.BasePath+"/*", s.webhook.ServeHTTP)
	}

	if s.cfg.AuthEnabled() {
		r.Post("/api/auth/token", handler.IssueToken(s.cfg.APIKeyHash, s.cfg.JWTSecret, time.Now))
	}

	r.Get("/api/openapi.json", handler.Spec)

	r.Group(func(r chi.Router) {
		if s.cfg.AuthEnabled() {
			r.Use(handler.Authenticate(s.cfg.JWTSecret))
		}
		api.HandlerWithOptions(handler.New(s.bridge, s.cfg.CommandTimeout), api.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: handler.ParamError,
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *server) Run(ctx context.Context) error {
	srv := &http.Server{
		Handler:      s.Router(),
		Addr:         s.cfg.Address,
		WriteTimeout: s.cfg.WriteTimeout,
		ReadTimeout:  s.cfg.ReadTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Address))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
