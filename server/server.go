// Package server exposes the voice and chat webhook adapters. Handlers
// convert inbound events into (history, context), call the orchestrator,
// and render the reply back to the channel. They never surface an error
// to the caller: the orchestrator guarantees a reply.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/engine/intelligence"
	"github.com/telassist/telassist/engine/session"
	"github.com/telassist/telassist/engine/store"
	"github.com/telassist/telassist/pkg/logger"
)

// Config holds HTTP server settings.
type Config struct {
	Host string
	Port int
	// MaxHistory bounds per-caller conversation memory.
	MaxHistory int
}

// CustomerLookup resolves a caller identifier to a customer snapshot.
type CustomerLookup interface {
	LookupByPhone(ctx context.Context, phone string) (*core.CustomerContext, error)
}

// InteractionLogger records a turn after it completes. Best-effort.
type InteractionLogger interface {
	Log(ctx context.Context, in store.Interaction) error
}

// Dependencies wires the handlers to the engine.
type Dependencies struct {
	Orchestrator *intelligence.Orchestrator
	Customers    CustomerLookup
	Sessions     session.Store
	Interactions InteractionLogger // nil disables logging
	Log          logger.Logger
}

// Server is the HTTP front for both channels.
type Server struct {
	cfg    Config
	deps   Dependencies
	router *gin.Engine
	http   *http.Server
}

// New builds the server and its routes.
func New(cfg Config, deps Dependencies) *Server {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 20
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{cfg: cfg, deps: deps, router: router}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/webhook", s.handleChatMessage)

	voice := s.router.Group("/voice")
	{
		voice.POST("/incoming", s.handleVoiceIncoming)
		voice.POST("/process", s.handleVoiceProcess)
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.deps.Log.Info("server listening", "addr", s.http.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
