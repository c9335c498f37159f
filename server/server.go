// Package server exposes the orchestrator over HTTP and websockets.
//
//	@title			Hospital System Nexus API
//	@version		1.0
//	@description	Routes hospital staff requests to simulated sub-agents through Gemini function calling.
//	@BasePath		/api/v1
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	nexus "github.com/Desarso/nexus"
	_ "github.com/Desarso/nexus/docs"
	"github.com/Desarso/nexus/sessions"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

type Server struct {
	app      *nexus.App
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func New(app *nexus.App) *Server {
	return &Server{
		app:    app,
		logger: app.Logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(app.Config.AllowedOrigins),
		},
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	origins := s.app.Config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAny(origins),
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", s.health)
	router.GET("/swagger/doc.json", serveDoc)

	api := router.Group("/api/v1")
	{
		api.POST("/conversations", s.createConversation)
		api.GET("/conversations", s.listConversations)

		api.POST("/chat/:conversationID", s.chat)
		api.DELETE("/chat/:conversationID", s.reset)
		api.GET("/chat/history/:conversationID", s.history)
		api.GET("/chat/traces/:conversationID", s.traces)

		api.GET("/quick-actions", s.quickActions)
	}

	router.GET("/ws/chat/:conversationID", s.websocketChat)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.app.Config.ServerPort),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// health godoc
//
//	@Summary	Health check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/health [get]
func (s *Server) health(c *gin.Context) {
	status := gin.H{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"sessions": s.app.Sessions.Len(),
	}
	if s.app.Store != nil {
		if err := s.app.Store.Ping(); err != nil {
			status["status"] = "degraded"
			status["store"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}
	c.JSON(http.StatusOK, status)
}

func serveDoc(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

// turnContext detaches a turn from the caller's cancellation. A started turn
// runs to completion or failure even when the client goes away; only the
// configured turn timeout bounds it.
func (s *Server) turnContext(parent context.Context) (context.Context, context.CancelFunc) {
	parent = context.WithoutCancel(parent)
	if s.app.Config.TurnTimeout > 0 {
		return context.WithTimeout(parent, s.app.Config.TurnTimeout)
	}
	return context.WithCancel(parent)
}

// turnStatus maps a SendTurn error to an HTTP status.
func turnStatus(err error) int {
	var agentErr *sessions.AgentError
	switch {
	case errors.Is(err, sessions.ErrTurnInFlight), errors.Is(err, sessions.ErrConversationReset):
		return http.StatusConflict
	case errors.As(err, &agentErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}
