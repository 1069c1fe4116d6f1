package models

import "time"

// AnalysisTask represents one run of an analysis skill over the telemetry
type AnalysisTask struct {
	ID int64 `json:"id" db:"id"`

	// Task identification
	SkillName string `json:"skillName" db:"skill_name"` // Which skill to run
	TaskType  string `json:"taskType" db:"task_type"`   // INCREMENTAL, FULL_RECOMPUTE

	// Status
	Status          string  `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent float64 `json:"progressPercent" db:"progress_percent"`

	// Input parameters
	ParamsJSON         string `json:"paramsJson,omitempty" db:"params_json"`
	ThresholdProfileID int64  `json:"thresholdProfileId,omitempty" db:"threshold_profile_id"`

	// Execution info
	TotalItems     int64 `json:"totalItems,omitempty" db:"total_items"`
	ProcessedItems int64 `json:"processedItems" db:"processed_items"`
	FailedItems    int64 `json:"failedItems" db:"failed_items"`

	// Results
	ResultSummary string `json:"resultSummary,omitempty" db:"result_summary"` // JSON summary
	ErrorMessage  string `json:"errorMessage,omitempty" db:"error_message"`

	// Metadata
	CreatedBy   string     `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	StartedAt   *time.Time `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// TaskType constants
const (
	TaskTypeIncremental   = "INCREMENTAL"
	TaskTypeFullRecompute = "FULL_RECOMPUTE"
)

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)
