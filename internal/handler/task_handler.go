package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"
	"github.com/NinaPoglic/boar-telemetry-go/pkg/response"
)

// TaskHandler handles HTTP requests for analysis tasks
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskRequest represents the request body for creating an analysis task
type CreateTaskRequest struct {
	SkillName string                 `json:"skillName" binding:"required"`
	TaskType  string                 `json:"taskType" binding:"required"` // INCREMENTAL or FULL_RECOMPUTE
	ProfileID int64                  `json:"profileId"`
	Params    map[string]interface{} `json:"params"`
}

// CreateTask handles POST /api/admin/analysis/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "admin"
	}

	task, err := h.service.CreateTask(req.SkillName, req.TaskType, req.ProfileID, req.Params, createdBy)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to create task", err)
		return
	}

	response.Success(c, task)
}

// GetTask handles GET /api/admin/analysis/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID", err)
		return
	}

	task, err := h.service.GetTask(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get task", err)
		return
	}

	if task == nil {
		response.Error(c, http.StatusNotFound, "Task not found", nil)
		return
	}

	response.Success(c, task)
}

// GetTasks handles GET /api/admin/analysis/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	tasks, err := h.service.GetTasks(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	response.Success(c, tasks)
}
