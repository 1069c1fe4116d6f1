package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"
	"github.com/NinaPoglic/boar-telemetry-go/pkg/response"
)

// StatsHandler handles HTTP requests for rest statistics
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetEntityDurations handles GET /api/v1/stats/durations
func (h *StatsHandler) GetEntityDurations(c *gin.Context) {
	stats, err := h.service.GetEntityDurations()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get duration statistics", err)
		return
	}

	response.Success(c, stats)
}

// GetHourOfDayCounts handles GET /api/v1/stats/hours
func (h *StatsHandler) GetHourOfDayCounts(c *gin.Context) {
	stats, err := h.service.GetHourOfDayCounts()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get hourly statistics", err)
		return
	}

	response.Success(c, stats)
}

// GetHabitatStats handles GET /api/v1/stats/habitats
func (h *StatsHandler) GetHabitatStats(c *gin.Context) {
	stats, err := h.service.GetHabitatStats()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get habitat statistics", err)
		return
	}

	response.Success(c, stats)
}
