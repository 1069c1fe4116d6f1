package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"
	"github.com/NinaPoglic/boar-telemetry-go/pkg/response"
)

// ProfileHandler handles HTTP requests for threshold profiles
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.service.GetProfiles()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get threshold profiles", err)
		return
	}

	response.Success(c, profiles)
}

// CreateProfileRequest represents the request body for creating a profile
type CreateProfileRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Params      models.DetectionParams `json:"params" binding:"required"`
}

// CreateProfile handles POST /api/admin/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "admin"
	}

	profile, err := h.service.CreateProfile(req.Name, req.Description, req.Params, createdBy)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to create profile", err)
		return
	}

	response.Success(c, profile)
}
