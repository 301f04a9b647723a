package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
	Logger    logrus.FieldLogger
}

func NewDashboardHandler(dashboard *services.DashboardService, logger logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Logger: logger}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HealthCheck is GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
