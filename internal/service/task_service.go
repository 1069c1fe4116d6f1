package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/NinaPoglic/boar-telemetry-go/internal/analysis"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
)

// TaskService handles analysis task business logic
type TaskService struct {
	repo *repository.TaskRepository
	db   *sql.DB
}

// NewTaskService creates a new task service
func NewTaskService(repo *repository.TaskRepository, db *sql.DB) *TaskService {
	return &TaskService{repo: repo, db: db}
}

// CreateTask creates a new analysis task and runs its analyzer in the
// background. The returned task is in pending state; poll GetTask for
// progress.
func (s *TaskService) CreateTask(skillName, taskType string, profileID int64, params map[string]interface{}, createdBy string) (*models.AnalysisTask, error) {
	if !analysis.IsKnownSkill(skillName) {
		return nil, fmt.Errorf("unknown skill name: %s", skillName)
	}
	if taskType != models.TaskTypeIncremental && taskType != models.TaskTypeFullRecompute {
		return nil, fmt.Errorf("invalid task type: %s", taskType)
	}

	paramsJSON := ""
	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize params: %w", err)
		}
		paramsJSON = string(paramsBytes)
	}

	task := &models.AnalysisTask{
		SkillName:          skillName,
		TaskType:           taskType,
		Status:             models.TaskStatusPending,
		ParamsJSON:         paramsJSON,
		ThresholdProfileID: profileID,
		CreatedBy:          createdBy,
	}
	if err := s.repo.CreateTask(task); err != nil {
		return nil, err
	}

	go s.runTask(task.ID, skillName, taskType)

	return task, nil
}

// RunTask executes a task's analyzer synchronously. Used by the CLI; the API
// path runs the same thing in a goroutine.
func (s *TaskService) RunTask(ctx context.Context, taskID int64, skillName, taskType string) error {
	analyzer := analysis.GetAnalyzer(skillName, s.db)
	if analyzer == nil {
		return fmt.Errorf("no analyzer registered for skill %s", skillName)
	}

	mode := "full"
	if taskType == models.TaskTypeIncremental {
		mode = "incremental"
	}

	if err := analyzer.Analyze(ctx, taskID, mode); err != nil {
		if markErr := s.markFailed(taskID, err); markErr != nil {
			log.Printf("[TaskService] Failed to mark task %d as failed: %v", taskID, markErr)
		}
		return err
	}

	return nil
}

// runTask is the background variant of RunTask
func (s *TaskService) runTask(taskID int64, skillName, taskType string) {
	if err := s.RunTask(context.Background(), taskID, skillName, taskType); err != nil {
		log.Printf("[TaskService] Task %d (%s) failed: %v", taskID, skillName, err)
	}
}

// markFailed records a task failure
func (s *TaskService) markFailed(taskID int64, cause error) error {
	_, err := s.db.Exec(`
		UPDATE analysis_tasks
		SET status = 'failed', error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, cause.Error(), taskID)
	return err
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(id int64) (*models.AnalysisTask, error) {
	return s.repo.GetTaskByID(id)
}

// GetTasks lists recent tasks
func (s *TaskService) GetTasks(limit int) ([]models.AnalysisTask, error) {
	return s.repo.GetTasks(limit)
}
