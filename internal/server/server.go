// Package server implements the territory arena server: a gin router with a
// WebSocket hub relaying player actions to live sessions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"territory-arena/internal/config"
	"territory-arena/internal/database"
	"territory-arena/internal/session"
)

// Version is reported in the welcome message.
const Version = "0.1.0"

// Server is the arena server.
type Server struct {
	db       *database.DB
	sessions *session.Registry
	hub      *Hub
	router   *gin.Engine
	upgrader websocket.Upgrader
	cfg      Config
	server   *http.Server
}

// Config holds server configuration.
type Config struct {
	Addr   string
	DBPath string
	Game   config.GameConfig
}

// New opens the database and builds the router. Call Start to serve.
func New(cfg Config) (*Server, error) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Server{
		db:       db,
		sessions: session.NewRegistry(cfg.Game.Seed, cfg.Game.ControllerOptions()...),
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.hub = NewHub(s)
	s.router = s.setupRouter()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id", s.handleGetSession)
	api.GET("/sessions/:id/arena", s.handleGetArena)
	api.GET("/sessions/:id/actions", s.handleGetActions)
	return r
}

// Start runs the hub and blocks serving HTTP until Stop.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().
		Str("addr", s.cfg.Addr).
		Str("db", s.cfg.DBPath).
		Int("rows", s.cfg.Game.Rows).
		Int("cols", s.cfg.Game.Cols).
		Bool("adjacent_only", s.cfg.Game.RequireAdjacent).
		Msg("territory arena server listening")

	go s.hub.Run()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts down HTTP, the hub and the database.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.hub.Stop()
	return s.db.Close()
}

// handleWebSocket upgrades the request and starts the client pumps.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// accessLog logs one line per HTTP request.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		log.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
