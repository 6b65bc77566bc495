// Package server exposes the admin console HTTP API: persona CRUD and
// validation, bot lifecycle, MeetingBaaS webhooks, and transcript access.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/config"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
	"github.com/daikw/meetbot/internal/transcript"
	"github.com/daikw/meetbot/internal/webhook"
)

// Server wires the console API handlers to their backing services.
type Server struct {
	cfg         *config.Config
	personas    *store.Store
	baas        *baas.Client
	registry    *registry.Registry
	transcripts *transcript.Store
	dispatcher  *webhook.Dispatcher
	engine      *gin.Engine
}

// New creates a Server with all routes registered.
func New(cfg *config.Config, personas *store.Store, baasClient *baas.Client, reg *registry.Registry, transcripts *transcript.Store) *Server {
	s := &Server{
		cfg:         cfg,
		personas:    personas,
		baas:        baasClient,
		registry:    reg,
		transcripts: transcripts,
		dispatcher:  webhook.NewDispatcher(reg, transcripts),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	engine.GET("/health", s.health)

	engine.GET("/personas", s.listPersonas)
	engine.POST("/personas", s.createPersona)
	engine.POST("/personas/validate", s.validatePersona)
	engine.GET("/personas/:key", s.getPersona)
	engine.PUT("/personas/:key", s.updatePersona)
	engine.DELETE("/personas/:key", s.deletePersona)

	engine.GET("/bots", s.listBots)
	engine.POST("/bots", s.launchBot)
	engine.DELETE("/bots/:id", s.leaveBot)

	engine.POST("/webhooks/meetingbaas", s.handleWebhook)

	engine.GET("/transcripts", s.listTranscripts)
	engine.GET("/transcripts/:meeting_id", s.getTranscript)

	s.engine = engine
	return s
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.cfg.Port).Msg("Starting admin console API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("Shutting down admin console API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
