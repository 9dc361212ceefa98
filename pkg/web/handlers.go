package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-hsvtune/pkg/hsv"
	"github.com/teslashibe/go-hsvtune/pkg/hub"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
)

// StatusResponse is returned by GET /api/status
type StatusResponse struct {
	Session      string            `json:"session"`
	State        string            `json:"state"`
	Params       tracking.Params   `json:"params"`
	BlurRadius   int               `json:"blur_radius"`
	Position     tracking.Position `json:"position"`
	LastSeen     tracking.Position `json:"last_seen"`     // Most recent frame the tracker observed
	LastReported tracking.Position `json:"last_reported"` // Last centroid printed, origin until the first
	Reported     int               `json:"reported"`
	Frames       uint64            `json:"frames"`
	Clients      map[string]int    `json:"clients"`
	Uptime       string            `json:"uptime"`
}

// RangeBody is the payload of GET and PUT /api/range. Blur is optional on
// PUT; the current slider position is kept when it is omitted.
type RangeBody struct {
	Min  hsv.Color `json:"min"`
	Max  hsv.Color `json:"max"`
	Blur *int      `json:"blur,omitempty"`
}

// ClickBody is the payload of POST /api/click
type ClickBody struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// Snapshot kinds
const (
	SnapshotRaw  = "raw"
	SnapshotMask = "mask"
)

// handleStatus returns the calibration state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	snap := s.store.Snapshot()
	tracker := s.session.Tracker()
	return c.JSON(StatusResponse{
		Session:      s.session.ID(),
		State:        s.session.Status(),
		Params:       snap.Params,
		BlurRadius:   snap.Radius,
		Position:     snap.Position,
		LastSeen:     tracker.Last(),
		LastReported: tracking.Position{Point: tracker.Previous(), Found: tracker.Reported() > 0},
		Reported:     tracker.Reported(),
		Frames:       snap.Frames,
		Clients: map[string]int{
			"positions": s.positionHub.ClientCount(),
			"mask":      s.maskHub.ClientCount(),
		},
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// handleGetRange returns the thresholds of the last processed frame
func (s *Server) handleGetRange(c *fiber.Ctx) error {
	p := s.store.GetParams()
	blur := p.Blur
	return c.JSON(RangeBody{Min: p.Range.Min, Max: p.Range.Max, Blur: &blur})
}

// handlePutRange queues new thresholds for the loop
func (s *Server) handlePutRange(c *fiber.Ctx) error {
	var req RangeBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid range body: " + err.Error(),
		})
	}

	p := s.store.GetParams()
	p.Range = hsv.ClampRange(hsv.Range{Min: req.Min, Max: req.Max})
	if req.Blur != nil {
		p.Blur = tracking.SanitizeBlur(*req.Blur)
	}

	if !s.store.RequestParams(p) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "request queue full",
		})
	}

	s.logger.Info("range requested", "range", p.Range.String(), "blur", p.Blur)
	blur := p.Blur
	return c.Status(fiber.StatusAccepted).JSON(RangeBody{Min: p.Range.Min, Max: p.Range.Max, Blur: &blur})
}

// handleClick queues a click-sample at a raw frame pixel
func (s *Server) handleClick(c *fiber.Ctx) error {
	var req ClickBody
	if err := c.BodyParser(&req); err != nil || req.X == nil || req.Y == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body must be {\"x\": int, \"y\": int}",
		})
	}
	if *req.X < 0 || *req.Y < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "coordinates must not be negative",
		})
	}

	if !s.store.RequestClick(*req.X, *req.Y) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "request queue full",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"x": *req.X,
		"y": *req.Y,
	})
}

// handleSnapshot returns the latest raw or mask JPEG
func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	s.framesMu.RLock()
	var data []byte
	switch kind := c.Params("kind"); kind {
	case SnapshotRaw:
		data = s.rawJPEG
	case SnapshotMask:
		data = s.maskJPEG
	default:
		s.framesMu.RUnlock()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown snapshot kind: " + kind,
		})
	}
	s.framesMu.RUnlock()

	if len(data) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no frame streamed yet",
		})
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

// handlePositionsWS streams centroid changes, starting with the latest one
func (s *Server) handlePositionsWS(c *websocket.Conn) {
	// No pump is running yet, so this write can't race
	if err := c.WriteJSON(s.positionEvent(s.store.Snapshot().Position)); err != nil {
		return
	}
	s.serve(s.positionHub, c)
}

// handleMaskWS streams binary JPEG mask frames
func (s *Server) handleMaskWS(c *websocket.Conn) {
	s.serve(s.maskHub, c)
}

func (s *Server) serve(h *hub.Hub, c *websocket.Conn) {
	client := hub.NewClient(h, c)
	if client == nil {
		return
	}
	client.Run()
}
