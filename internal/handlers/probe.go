package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	backend Pinger
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(backend Pinger) *ProbeHandler {
	return &ProbeHandler{backend: backend}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the history storage backend is reachable.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.backend.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "storage unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
