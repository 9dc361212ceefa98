// Package web provides the optional calibration dashboard: a JSON API for
// reading and adjusting the thresholds plus live websocket feeds.
package web

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-hsvtune/internal/log"
	"github.com/teslashibe/go-hsvtune/pkg/hub"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
)

// Session describes the calibration run being served
type Session interface {
	ID() string
	Status() string
	Tracker() *tracking.Tracker
}

// PositionEvent is broadcast on /ws/positions for every centroid change
type PositionEvent struct {
	Session string `json:"session"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Found   bool   `json:"found"`
	Time    string `json:"time"`
}

var _ tracking.StateUpdater = (*Server)(nil)

// Server is the web dashboard server
type Server struct {
	app     *fiber.App
	port    string
	logger  *slog.Logger
	started time.Time

	store   *tracking.Store
	session Session

	// Latest encoded frames for snapshots
	rawJPEG  []byte
	maskJPEG []byte
	framesMu sync.RWMutex

	// Hubs for websocket broadcast
	positionHub *hub.Hub
	maskHub     *hub.Hub
}

// NewServer creates a dashboard for the session publishing into store
func NewServer(port string, store *tracking.Store, session Session) *Server {
	s := &Server{
		port:        port,
		logger:      log.With("component", "web", "session", session.ID()),
		started:     time.Now(),
		store:       store,
		session:     session,
		positionHub: hub.New("positions"),
		maskHub:     hub.New("mask"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "hsvtune",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/range", s.handleGetRange)
	api.Put("/range", s.handlePutRange)
	api.Post("/click", s.handleClick)
	api.Get("/snapshot/:kind", s.handleSnapshot)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/positions", websocket.New(s.handlePositionsWS))
	app.Get("/ws/mask", websocket.New(s.handleMaskWS))

	s.app = app
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the hubs and blocks serving HTTP
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "url", "http://localhost:"+s.port)

	go s.positionHub.Run()
	go s.maskHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("dashboard stopped", "error", err)
		}
	}()
}

// Shutdown closes the websocket hubs and stops the listener
func (s *Server) Shutdown() error {
	s.positionHub.Stop()
	s.maskHub.Stop()
	return s.app.Shutdown()
}

// UpdatePosition broadcasts a centroid change
func (s *Server) UpdatePosition(pos tracking.Position) {
	if err := s.positionHub.BroadcastEvent(s.positionEvent(pos)); err != nil {
		s.logger.Warn("position not broadcast", "error", err)
	}
}

func (s *Server) positionEvent(pos tracking.Position) PositionEvent {
	return PositionEvent{
		Session: s.session.ID(),
		X:       pos.Point.X,
		Y:       pos.Point.Y,
		Found:   pos.Found,
		Time:    time.Now().Format(time.RFC3339Nano),
	}
}

// UpdateFrames stores the latest encoded frames and streams the mask
func (s *Server) UpdateFrames(raw, mask []byte) {
	s.framesMu.Lock()
	s.rawJPEG = raw
	s.maskJPEG = mask
	s.framesMu.Unlock()

	if err := s.maskHub.BroadcastFrame(mask); err != nil {
		s.logger.Debug("mask frame skipped", "error", err)
	}
}
