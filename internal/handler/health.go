package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is what readiness needs from the record store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// counter is optionally implemented by stores that can report their size cheaply.
type counter interface {
	Len() int
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store   Pinger
	started time.Time
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, started: time.Now()}
}

// Liveness answers as long as the process can serve HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Readiness pings the record store and reports how many users it holds.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	body := gin.H{"status": "ready"}
	if n, ok := h.store.(counter); ok {
		body["users"] = n.Len()
	}
	c.JSON(http.StatusOK, body)
}
