package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const dbProbeTimeout = time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
}

type HealthHandler struct {
	service string
	version string
	store   Pinger
}

// NewHealthHandler reports liveness plus the state of store, which may be nil
// when submissions are kept in memory.
func NewHealthHandler(service, version string, store Pinger) *HealthHandler {
	return &HealthHandler{service: service, version: version, store: store}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

// HealthCheck always answers 200; a down database shows up in the db field
// only, so the process is not restarted over a database outage.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.service,
		Version:   h.version,
		DB:        h.probe(c.Request.Context()),
	})
}

func (h *HealthHandler) probe(ctx context.Context) string {
	if h.store == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, dbProbeTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
