// Package api exposes the analytics engine and intent router over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/intent"
)

// Analytics is the engine surface served by the API.
type Analytics interface {
	intent.Analytics
	Classify(ctx context.Context, userID string) (*analytics.ClassificationResult, error)
	Summary(ctx context.Context, userID string) (*analytics.Summary, error)
}

var _ Analytics = (*analytics.Engine)(nil)

// Config holds server settings.
type Config struct {
	Addr            string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default server settings.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine  Analytics
	router  *intent.Router
	auth    *Authenticator
	logger  *slog.Logger
	handler http.Handler
	tls     *tls.Config
	config  Config
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = common.ComponentLogger(logger, "api")
	}
}

// WithConfig replaces the default settings.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithTLS serves HTTPS using cfg.
func WithTLS(cfg *tls.Config) Option {
	return func(s *Server) {
		s.tls = cfg
	}
}

// NewServer creates a server for engine guarded by auth.
func NewServer(engine Analytics, auth *Authenticator, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		router: intent.NewRouter(engine),
		auth:   auth,
		logger: common.ComponentLogger(nil, "api"),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(s.logRequests, s.auth.Middleware)

	finance := protected.PathPrefix("/finance").Subrouter()
	finance.HandleFunc("/burn-rate", s.metric(s.engine.BurnRate)).Methods(http.MethodGet)
	finance.HandleFunc("/savings-rate", s.metric(s.engine.SavingsRate)).Methods(http.MethodGet)
	finance.HandleFunc("/runway", s.metric(s.engine.Runway)).Methods(http.MethodGet)
	finance.HandleFunc("/classification", s.handleClassification).Methods(http.MethodGet)
	finance.HandleFunc("/payment-priority", s.handlePaymentPriority).Methods(http.MethodGet)
	finance.HandleFunc("/anomalies", s.handleAnomalies).Methods(http.MethodGet)
	finance.HandleFunc("/risk-score", s.handleRiskScore).Methods(http.MethodGet)
	finance.HandleFunc("/cashflow-forecast", s.handleForecast).Methods(http.MethodGet)
	finance.HandleFunc("/simulate-purchase", s.handleSimulatePurchase).Methods(http.MethodPost)
	finance.HandleFunc("/simulate-income", s.handleSimulateIncome).Methods(http.MethodPost)
	finance.HandleFunc("/simulate-expense", s.handleSimulateExpense).Methods(http.MethodPost)

	protected.HandleFunc("/advisory", s.handleAdvisory).Methods(http.MethodGet)
	protected.HandleFunc("/intent", s.handleIntent).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			UserHeader,
		},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		TLSConfig:         s.tls,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.config.Addr, "auth", !s.auth.Disabled(), "tls", s.tls != nil)
		if s.tls != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
