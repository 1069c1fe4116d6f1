package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/NinaPoglic/boar-telemetry-go/internal/ingest"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"
	"github.com/NinaPoglic/boar-telemetry-go/pkg/response"
)

// FixHandler handles HTTP requests for GPS fixes
type FixHandler struct {
	service *service.FixService
	loader  *ingest.Loader
}

// NewFixHandler creates a new fix handler
func NewFixHandler(service *service.FixService, loader *ingest.Loader) *FixHandler {
	return &FixHandler{service: service, loader: loader}
}

// GetFixes handles GET /api/v1/fixes
func (h *FixHandler) GetFixes(c *gin.Context) {
	var filter models.FixFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	fixes, total, err := h.service.GetFixes(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get fixes", err)
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

	response.Success(c, models.FixesResponse{
		Data:       fixes,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

// ImportFixes handles POST /api/admin/fixes/import. The body is a fix CSV;
// when the server carries a habitat index, imported fixes are annotated with
// the habitat class at their position.
func (h *FixHandler) ImportFixes(c *gin.Context) {
	fixes, err := h.loader.Load(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid fix CSV", err)
		return
	}

	inserted, err := h.service.ImportFixes(fixes)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to import fixes", err)
		return
	}

	response.Success(c, gin.H{
		"received": len(fixes),
		"inserted": inserted,
	})
}

// GetEntities handles GET /api/v1/entities
func (h *FixHandler) GetEntities(c *gin.Context) {
	entities, err := h.service.GetEntities()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get entities", err)
		return
	}

	response.Success(c, entities)
}
