package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podsync/backend/internal/infrastructure/persistence"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

// HealthHandler reports service liveness and dependency health
type HealthHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports the service status and database reachability
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbStatus,
	})
}

// HealthRoutes creates the route group for the health endpoint
func HealthRoutes(handler *HealthHandler) *router.DomainGroup {
	group := router.NewDomainGroup("health", "")

	group.GET("/health", handler.Check)

	return group
}
