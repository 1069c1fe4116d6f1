// Package resting implements the rest-detection analysis skill: it runs the
// segmentation extractor over every tracked animal's fixes and stores the
// retained stationary segments.
package resting

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/NinaPoglic/boar-telemetry-go/internal/analysis"
	"github.com/NinaPoglic/boar-telemetry-go/internal/database"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
	"github.com/NinaPoglic/boar-telemetry-go/internal/segmentation"
)

// AlgoVersion tags segments written by this analyzer
const AlgoVersion = "v1"

// SkillName identifies this analyzer in the registry
const SkillName = "rest_detection"

// RestDetectionAnalyzer detects resting segments per entity
type RestDetectionAnalyzer struct {
	*analysis.BaseAnalyzer
	fixes    *repository.FixRepository
	segments *repository.SegmentRepository
	profiles *repository.ProfileRepository
	tasks    *repository.TaskRepository
}

// NewRestDetectionAnalyzer creates a new rest detection analyzer
func NewRestDetectionAnalyzer(db *sql.DB) analysis.Analyzer {
	return &RestDetectionAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(db, SkillName),
		fixes:        repository.NewFixRepository(db),
		segments:     repository.NewSegmentRepository(db),
		profiles:     repository.NewProfileRepository(db),
		tasks:        repository.NewTaskRepository(db),
	}
}

// Analyze runs rest detection for all entities. Entities are independent;
// one entity's bad data fails that entity only and is counted, the rest are
// still processed.
func (a *RestDetectionAnalyzer) Analyze(ctx context.Context, taskID int64, mode string) error {
	log.Printf("[RestDetectionAnalyzer] Starting analysis (task_id=%d, mode=%s)", taskID, mode)

	if err := a.MarkTaskAsRunning(taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	profile, params, err := a.resolveParams(taskID)
	if err != nil {
		return err
	}
	log.Printf("[RestDetectionAnalyzer] Using profile %q (window=%d, threshold=%gm, minDuration=%s, policy=%s)",
		profile.Name, params.WindowSize, params.Threshold, params.MinDuration, params.Policy)

	entityIDs, err := a.fixes.GetEntityIDs()
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}

	log.Printf("[RestDetectionAnalyzer] Processing %d entities", len(entityIDs))

	if err := a.UpdateTaskProgress(taskID, int64(len(entityIDs)), 0, 0); err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}

	var processed, failed, totalSegments int64
	for _, entityID := range entityIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		count, err := a.detectEntity(entityID, profile.ID, params)
		if err != nil {
			log.Printf("[RestDetectionAnalyzer] Entity %s failed: %v", entityID, err)
			failed++
		} else {
			totalSegments += count
		}
		processed++

		if err := a.UpdateTaskProgress(taskID, int64(len(entityIDs)), processed, failed); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
	}

	summary := map[string]interface{}{
		"entities":      len(entityIDs),
		"failed":        failed,
		"rest_segments": totalSegments,
		"profile":       profile.Name,
	}
	summaryJSON, _ := json.Marshal(summary)

	if err := a.MarkTaskAsCompleted(taskID, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[RestDetectionAnalyzer] Analysis completed: %d entities, %d rest segments, %d failed",
		len(entityIDs), totalSegments, failed)
	return nil
}

// detectEntity runs the extractor for one entity and replaces its stored segments
func (a *RestDetectionAnalyzer) detectEntity(entityID string, profileID int64, params segmentation.Params) (int64, error) {
	fixes, err := a.fixes.GetEntityFixes(entityID)
	if err != nil {
		return 0, err
	}

	extracted, err := segmentation.Extract(fixes, params)
	if err != nil {
		return 0, err
	}

	rows := make([]models.RestSegment, len(extracted))
	for i, seg := range extracted {
		rows[i] = models.RestSegment{
			EntityID:        seg.EntityID,
			StartTime:       seg.StartTime.Unix(),
			EndTime:         seg.EndTime.Unix(),
			DurationSeconds: int64(seg.Duration / time.Second),
			AnchorX:         seg.AnchorX,
			AnchorY:         seg.AnchorY,
			AnchorHabitat:   seg.AnchorHabitat,
			FixCount:        seg.FixCount,
			ProfileID:       profileID,
			AlgoVersion:     AlgoVersion,
		}
	}

	err = database.Transaction(a.DB, func(tx *sql.Tx) error {
		return a.segments.ReplaceEntitySegments(tx, entityID, rows)
	})
	if err != nil {
		return 0, err
	}

	return int64(len(rows)), nil
}

// resolveParams loads the threshold profile referenced by the task, falling
// back to the default profile
func (a *RestDetectionAnalyzer) resolveParams(taskID int64) (*models.ThresholdProfile, segmentation.Params, error) {
	task, err := a.tasks.GetTaskByID(taskID)
	if err != nil {
		return nil, segmentation.Params{}, err
	}
	if task == nil {
		return nil, segmentation.Params{}, fmt.Errorf("analysis task %d not found", taskID)
	}

	var profile *models.ThresholdProfile
	if task.ThresholdProfileID > 0 {
		profile, err = a.profiles.GetProfileByID(task.ThresholdProfileID)
	} else {
		profile, err = a.profiles.GetDefaultProfile()
	}
	if err != nil {
		return nil, segmentation.Params{}, err
	}
	if profile == nil {
		return nil, segmentation.Params{}, fmt.Errorf("no threshold profile available for task %d", taskID)
	}

	raw, err := profile.Params()
	if err != nil {
		return nil, segmentation.Params{}, fmt.Errorf("invalid params in profile %q: %w", profile.Name, err)
	}

	params := segmentation.Params{
		WindowSize:  raw.WindowSize,
		Threshold:   raw.ThresholdMeters,
		MinDuration: time.Duration(raw.MinDurationSeconds) * time.Second,
		Policy:      segmentation.MissingWindowPolicy(raw.MissingWindowPolicy),
	}
	if err := params.Validate(); err != nil {
		return nil, segmentation.Params{}, fmt.Errorf("profile %q: %w", profile.Name, err)
	}

	return profile, params, nil
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer(SkillName, NewRestDetectionAnalyzer)
}
