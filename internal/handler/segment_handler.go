package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"
	"github.com/NinaPoglic/boar-telemetry-go/pkg/response"
)

// SegmentHandler handles HTTP requests for rest segments
type SegmentHandler struct {
	service *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(service *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{service: service}
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.RestSegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	segments, total, err := h.service.GetSegments(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get rest segments", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, models.RestSegmentsResponse{
		Data:       segments,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

// GetSegmentByID handles GET /api/v1/segments/:id
func (h *SegmentHandler) GetSegmentByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid segment ID", err)
		return
	}

	segment, err := h.service.GetSegmentByID(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get rest segment", err)
		return
	}

	if segment == nil {
		response.Error(c, http.StatusNotFound, "Rest segment not found", nil)
		return
	}

	response.Success(c, segment)
}
