// Package reststats aggregates stored rest segments into summary statistics:
// duration distributions per animal, bout counts by hour of day, and resting
// by habitat class.
package reststats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/NinaPoglic/boar-telemetry-go/internal/analysis"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
)

// SkillName identifies this analyzer in the registry
const SkillName = "rest_statistics"

// RestStatsAnalyzer aggregates rest segments into the rest_statistics table
type RestStatsAnalyzer struct {
	*analysis.BaseAnalyzer
	segments *repository.SegmentRepository
}

// NewRestStatsAnalyzer creates a new rest statistics analyzer
func NewRestStatsAnalyzer(db *sql.DB) analysis.Analyzer {
	return &RestStatsAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(db, SkillName),
		segments:     repository.NewSegmentRepository(db),
	}
}

// Analyze recomputes all rest statistics from the stored segments
func (a *RestStatsAnalyzer) Analyze(ctx context.Context, taskID int64, mode string) error {
	log.Printf("[RestStatsAnalyzer] Starting analysis (task_id=%d, mode=%s)", taskID, mode)

	if err := a.MarkTaskAsRunning(taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	// Statistics are cheap to rebuild; both modes recompute from scratch.
	segments, err := a.segments.GetAllSegments()
	if err != nil {
		return fmt.Errorf("failed to load rest segments: %w", err)
	}

	log.Printf("[RestStatsAnalyzer] Aggregating %d rest segments", len(segments))

	if err := a.UpdateTaskProgress(taskID, int64(len(segments)), 0, 0); err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}

	durationsByEntity := make(map[string][]float64)
	countsByHour := make(map[int]int64)
	durationsByHabitat := make(map[string][]float64)

	for _, seg := range segments {
		durationsByEntity[seg.EntityID] = append(durationsByEntity[seg.EntityID], float64(seg.DurationSeconds))
		hour := time.Unix(seg.StartTime, 0).UTC().Hour()
		countsByHour[hour]++
		durationsByHabitat[seg.AnchorHabitat] = append(durationsByHabitat[seg.AnchorHabitat], float64(seg.DurationSeconds))
	}

	// Clearing and rewriting share one transaction, so a failed run keeps
	// the previous statistics visible.
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rest_statistics"); err != nil {
		return fmt.Errorf("failed to clear rest statistics: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rest_statistics (
			stat_type, stat_key, segment_count, total_seconds,
			mean_seconds, median_seconds, q1_seconds, q3_seconds, max_seconds,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for entityID, durations := range durationsByEntity {
		s := summarize(durations)
		if _, err := stmt.ExecContext(ctx, models.StatTypeEntityDuration, entityID,
			s.count, s.total, s.mean, s.median, s.q1, s.q3, s.max); err != nil {
			return fmt.Errorf("failed to insert entity statistic: %w", err)
		}
	}

	for hour, count := range countsByHour {
		if _, err := stmt.ExecContext(ctx, models.StatTypeHourOfDay, strconv.Itoa(hour),
			count, 0, 0, 0, 0, 0, 0); err != nil {
			return fmt.Errorf("failed to insert hour statistic: %w", err)
		}
	}

	for habitat, durations := range durationsByHabitat {
		s := summarize(durations)
		if _, err := stmt.ExecContext(ctx, models.StatTypeHabitat, habitat,
			s.count, s.total, s.mean, s.median, s.q1, s.q3, s.max); err != nil {
			return fmt.Errorf("failed to insert habitat statistic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := a.UpdateTaskProgress(taskID, int64(len(segments)), int64(len(segments)), 0); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	summary := map[string]interface{}{
		"segments": len(segments),
		"entities": len(durationsByEntity),
		"habitats": len(durationsByHabitat),
	}
	summaryJSON, _ := json.Marshal(summary)

	if err := a.MarkTaskAsCompleted(taskID, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[RestStatsAnalyzer] Analysis completed: %d segments aggregated", len(segments))
	return nil
}

// durationSummary holds the duration distribution of one statistics bucket
type durationSummary struct {
	count  int64
	total  int64
	mean   float64
	median float64
	q1     float64
	q3     float64
	max    int64
}

// summarize computes the distribution summary of a set of durations in seconds
func summarize(durations []float64) durationSummary {
	if len(durations) == 0 {
		return durationSummary{}
	}

	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	sort.Float64s(sorted)

	var total float64
	for _, d := range sorted {
		total += d
	}

	return durationSummary{
		count:  int64(len(sorted)),
		total:  int64(total),
		mean:   stat.Mean(sorted, nil),
		median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		max:    int64(sorted[len(sorted)-1]),
	}
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer(SkillName, NewRestStatsAnalyzer)
}
