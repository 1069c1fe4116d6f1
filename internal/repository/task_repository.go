package repository

import (
	"database/sql"
	"fmt"

	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
)

// TaskRepository handles database operations for analysis tasks
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a new task and returns it with its ID set
func (r *TaskRepository) CreateTask(task *models.AnalysisTask) error {
	query := `
		INSERT INTO analysis_tasks (
			skill_name, task_type, status, params_json,
			threshold_profile_id, created_by
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.Exec(query,
		task.SkillName, task.TaskType, task.Status, task.ParamsJSON,
		task.ThresholdProfileID, task.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task id: %w", err)
	}
	task.ID = id

	return nil
}

// GetTaskByID retrieves a task by ID
func (r *TaskRepository) GetTaskByID(id int64) (*models.AnalysisTask, error) {
	query := `
		SELECT id, skill_name, task_type, status, progress_percent,
			params_json, threshold_profile_id,
			total_items, processed_items, failed_items,
			result_summary, error_message, created_by,
			created_at, started_at, completed_at
		FROM analysis_tasks
		WHERE id = ?
	`

	var task models.AnalysisTask
	var startedAt, completedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&task.ID, &task.SkillName, &task.TaskType, &task.Status, &task.ProgressPercent,
		&task.ParamsJSON, &task.ThresholdProfileID,
		&task.TotalItems, &task.ProcessedItems, &task.FailedItems,
		&task.ResultSummary, &task.ErrorMessage, &task.CreatedBy,
		&task.CreatedAt, &startedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis task %d: %w", id, err)
	}

	if startedAt.Valid {
		task.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return &task, nil
}

// GetTasks lists tasks newest first
func (r *TaskRepository) GetTasks(limit int) ([]models.AnalysisTask, error) {
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, skill_name, task_type, status, progress_percent,
			params_json, threshold_profile_id,
			total_items, processed_items, failed_items,
			result_summary, error_message, created_by,
			created_at, started_at, completed_at
		FROM analysis_tasks
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.AnalysisTask
	for rows.Next() {
		var task models.AnalysisTask
		var startedAt, completedAt sql.NullTime

		if err := rows.Scan(
			&task.ID, &task.SkillName, &task.TaskType, &task.Status, &task.ProgressPercent,
			&task.ParamsJSON, &task.ThresholdProfileID,
			&task.TotalItems, &task.ProcessedItems, &task.FailedItems,
			&task.ResultSummary, &task.ErrorMessage, &task.CreatedBy,
			&task.CreatedAt, &startedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis task: %w", err)
		}

		if startedAt.Valid {
			task.StartedAt = &startedAt.Time
		}
		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}
