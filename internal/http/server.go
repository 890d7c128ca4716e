// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/keyrotator/internal/config"
	customerHTTP "github.com/allisson/keyrotator/internal/customer/http"
	envelopeHTTP "github.com/allisson/keyrotator/internal/envelope/http"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetHTTP "github.com/allisson/keyrotator/internal/keyset/http"
	"github.com/allisson/keyrotator/internal/metrics"
)

// KeyStoreChecker reports whether the key directory can be read.
type KeyStoreChecker interface {
	List(stage keysetDomain.Stage) ([]keysetDomain.FileEntry, error)
}

// Server represents the HTTP server
type Server struct {
	db       *sql.DB
	keyStore KeyStoreChecker
	server   *http.Server
	router   *gin.Engine
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	keyStore KeyStoreChecker,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:       db,
		keyStore: keyStore,
		logger:   logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and every API route.
func (s *Server) SetupRouter(
	cfg *config.Config,
	keySetHandler *keysetHTTP.KeySetHandler,
	envelopeHandler *envelopeHTTP.EnvelopeHandler,
	customerHandler *customerHTTP.CustomerHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	keySets := v1.Group("/keysets")
	{
		keySets.POST("", keySetHandler.GenerateHandler)
		keySets.GET("", keySetHandler.ListHandler)
		keySets.POST("/rotate", keySetHandler.RotateHandler)
		keySets.GET("/active", keySetHandler.ActiveHandler)
	}

	envelopes := v1.Group("/envelopes")
	{
		envelopes.POST("/encrypt", envelopeHandler.EncryptHandler)
		envelopes.POST("/decrypt", envelopeHandler.DecryptHandler)
		envelopes.POST("/identifier", envelopeHandler.IdentifierHandler)
	}

	customers := v1.Group("/customers")
	{
		customers.POST("", customerHandler.CreateHandler)
		customers.GET("", customerHandler.ListHandler)
		customers.POST("/reencrypt", customerHandler.ReEncryptHandler)
		customers.GET("/:id", customerHandler.GetHandler)
		customers.PUT("/:id", customerHandler.UpdateHandler)
		customers.DELETE("/:id", customerHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler checks the database and the active key directory.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{"database": "ok", "key_store": "ok"}
	ready := true

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		ready = false
	}

	if s.keyStore == nil {
		components["key_store"] = "error"
		ready = false
	} else if _, err := s.keyStore.List(keysetDomain.StageActive); err != nil {
		s.logger.Warn("key store not ready", slog.Any("error", err))
		components["key_store"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
