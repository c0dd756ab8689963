// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrewmicrosoft/allergy-alert/internal/common/config"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/database"
	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
	"github.com/andrewmicrosoft/allergy-alert/internal/history"
	"github.com/andrewmicrosoft/allergy-alert/internal/intake"
	"github.com/andrewmicrosoft/allergy-alert/internal/lookup"
)

// Server hosts the HTTP API for profile intake, safety lookups and
// lookup history.
type Server struct {
	intake   *intake.Service
	lookup   *lookup.Service
	history  *history.Store
	redis    *database.RedisClient
	postgres *database.PostgresClient
	logger   logger.Logger
	errors   *commonerrors.ErrorHandler
	httpSrv  *http.Server
}

// Deps collects everything the server needs. All fields are required
// except History, which disables the history endpoint when nil.
type Deps struct {
	Intake   *intake.Service
	Lookup   *lookup.Service
	History  *history.Store
	Redis    *database.RedisClient
	Postgres *database.PostgresClient
	Logger   logger.Logger
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	log := deps.Logger.WithFields(map[string]interface{}{"component": "server"})

	s := &Server{
		intake:   deps.Intake,
		lookup:   deps.Lookup,
		history:  deps.History,
		redis:    deps.Redis,
		postgres: deps.Postgres,
		logger:   log,
		errors:   commonerrors.NewErrorHandler(log),
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.requestLogging(s.routes()),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("PUT /api/v1/profile", s.handleSubmitProfile)
	mux.HandleFunc("GET /api/v1/profile", s.handleGetProfile)
	mux.HandleFunc("DELETE /api/v1/profile", s.handleClearProfile)
	mux.HandleFunc("POST /api/v1/lookup", s.handleLookup)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"address": s.httpSrv.Addr,
	})
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down", nil)
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.requestLogging(s.routes())
}
