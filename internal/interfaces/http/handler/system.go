package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopsync/backend/internal/infrastructure/persistence"
)

// SystemHandler exposes liveness
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a system handler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Healthz reports liveness and database reachability. Registered on
// the engine root, outside the versioned API group.
func (h *SystemHandler) Healthz(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
