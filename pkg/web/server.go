// Package web provides the real-time dashboard for facewire: face
// count, frame rate, gaze attention state and calibration progress,
// served over REST and websocket.
package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/visageio/go-facewire/internal/log"
	"github.com/visageio/go-facewire/pkg/gaze"
	"github.com/visageio/go-facewire/pkg/hub"
	"github.com/visageio/go-facewire/pkg/render"
)

// Status is the aggregate dashboard state. The render and gaze
// domains each own their half; this is assembled fresh per request.
type Status struct {
	State         string      `json:"state"`
	FaceCount     int         `json:"face_count"`
	FPS           int         `json:"fps"`
	StatusMessage string      `json:"status_message"`
	GazeAvailable bool        `json:"gaze_available"`
	GazeOffScreen bool        `json:"gaze_off_screen"`
	GazePoint     *gaze.Point `json:"gaze_point"`

	CalibrationActive   bool                    `json:"calibration_active"`
	CalibrationComplete bool                    `json:"calibration_complete"`
	CalibrationQuota    int                     `json:"calibration_quota"`
	CalibrationPoints   []gaze.CalibrationPoint `json:"calibration_points"`
}

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	port string

	// Observable sources (read-only from here)
	snapshot   func() render.Observables
	monitor    *gaze.Monitor
	calibrator *gaze.Calibrator

	// GazeConnected reports whether the predictor stream is live.
	GazeConnected func() bool

	// Hub for websocket broadcast
	statusHub *hub.Hub
}

// NewServer creates a dashboard server over the given observable
// sources. The server never mutates render or gaze state except
// through the calibrator's own operations.
func NewServer(port string, snapshot func() render.Observables, monitor *gaze.Monitor, calibrator *gaze.Calibrator) *Server {
	s := &Server{
		port:       port,
		snapshot:   snapshot,
		monitor:    monitor,
		calibrator: calibrator,
		statusHub:  hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Facewire Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/calibration", s.handleCalibration)
	api.Post("/calibration/start", s.handleCalibrationStart)
	api.Post("/calibration/stop", s.handleCalibrationStop)
	api.Post("/calibration/points/:index/click", s.handleCalibrationClick)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start starts the web server.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	go s.statusHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "error", err)
		}
	}()
}

// PushStatus broadcasts a fresh status snapshot to websocket clients.
// Called by the render loop after each frame.
func (s *Server) PushStatus() {
	s.statusHub.BroadcastJSON(s.buildStatus())
}

// buildStatus assembles the aggregate snapshot from both domains.
func (s *Server) buildStatus() Status {
	obs := s.snapshot()
	gazeState := s.monitor.StateAt(time.Now())

	available := false
	if s.GazeConnected != nil {
		available = s.GazeConnected()
	}

	return Status{
		State:         obs.State,
		FaceCount:     obs.FaceCount,
		FPS:           obs.FPS,
		StatusMessage: obs.Status,
		GazeAvailable: available,
		GazeOffScreen: gazeState.OffScreen,
		GazePoint:     gazeState.LastPoint,

		CalibrationActive:   s.calibrator.Active(),
		CalibrationComplete: s.calibrator.Complete(),
		CalibrationQuota:    s.calibrator.Quota(),
		CalibrationPoints:   s.calibrator.Progress(),
	}
}

// handleStatusWS streams status snapshots to a dashboard client.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Send current status before joining the broadcast set
	c.WriteJSON(s.buildStatus())

	client := hub.NewClient(s.statusHub, c)
	client.Run() // Blocks until connection closes
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
