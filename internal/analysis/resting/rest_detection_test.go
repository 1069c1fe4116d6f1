package resting

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NinaPoglic/boar-telemetry-go/internal/database"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// hourlyFixes generates hourly fixes starting at a fixed epoch; positions[i]
// becomes the x coordinate of fix i.
func hourlyFixes(entityID string, habitat string, positions []float64) []models.Fix {
	base := int64(1678752000) // 2023-03-14T00:00:00Z
	fixes := make([]models.Fix, len(positions))
	for i, x := range positions {
		fixes[i] = models.Fix{
			EntityID:  entityID,
			Timestamp: base + int64(i)*3600,
			X:         x,
			Y:         0,
			Habitat:   habitat,
		}
	}
	return fixes
}

func insertFixes(t *testing.T, db *sql.DB, fixes []models.Fix) {
	t.Helper()
	_, err := repository.NewFixRepository(db).InsertFixes(fixes)
	require.NoError(t, err)
}

func newDetectionTask(t *testing.T, db *sql.DB, profileID int64) *models.AnalysisTask {
	t.Helper()

	task := &models.AnalysisTask{
		SkillName:          SkillName,
		TaskType:           models.TaskTypeFullRecompute,
		Status:             models.TaskStatusPending,
		ThresholdProfileID: profileID,
	}
	require.NoError(t, repository.NewTaskRepository(db).CreateTask(task))
	return task
}

func TestAnalyzeDetectsRestingEntity(t *testing.T) {
	db := newTestDB(t)

	// One animal parked for 30 hours, one moving 1 km every hour, one with
	// too few fixes for the default 12-fix window.
	insertFixes(t, db, hourlyFixes("rester", "forest", make([]float64, 30)))

	moving := make([]float64, 30)
	for i := range moving {
		moving[i] = float64(i) * 1000
	}
	insertFixes(t, db, hourlyFixes("mover", "", moving))
	insertFixes(t, db, hourlyFixes("sparse", "", make([]float64, 5)))

	task := newDetectionTask(t, db, 0)
	err := NewRestDetectionAnalyzer(db).Analyze(context.Background(), task.ID, "full")
	require.NoError(t, err)

	segments, _, err := repository.NewSegmentRepository(db).GetSegments(models.RestSegmentFilter{})
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.Equal(t, "rester", seg.EntityID)
	assert.Equal(t, int64(1678752000), seg.StartTime)
	// With a 12-fix window over 30 fixes, the first 19 fixes classify.
	assert.Equal(t, int64(1678752000+18*3600), seg.EndTime)
	assert.Equal(t, int64(18*3600), seg.DurationSeconds)
	assert.Equal(t, 19, seg.FixCount)
	assert.Equal(t, 0.0, seg.AnchorX)
	assert.Equal(t, "forest", seg.AnchorHabitat)
	assert.Equal(t, AlgoVersion, seg.AlgoVersion)

	defaultProfile, err := repository.NewProfileRepository(db).GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, defaultProfile.ID, seg.ProfileID)

	got, err := repository.NewTaskRepository(db).GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, 100.0, got.ProgressPercent)
	assert.Equal(t, int64(3), got.TotalItems)
	assert.Equal(t, int64(3), got.ProcessedItems)
	assert.Equal(t, int64(0), got.FailedItems)
	assert.Contains(t, got.ResultSummary, `"rest_segments":1`)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)
}

func TestAnalyzeUsesTaskProfile(t *testing.T) {
	db := newTestDB(t)

	// 1 km hourly steps: moving under the default 10 m threshold, resting
	// under a deliberately loose 5 km threshold.
	moving := make([]float64, 30)
	for i := range moving {
		moving[i] = float64(i) * 1000
	}
	insertFixes(t, db, hourlyFixes("mover", "", moving))

	loose := &models.ThresholdProfile{
		Name:       "loose",
		ParamsJSON: `{"windowSize":12,"thresholdMeters":5000,"minDurationSeconds":7200}`,
	}
	require.NoError(t, repository.NewProfileRepository(db).CreateProfile(loose))

	task := newDetectionTask(t, db, loose.ID)
	err := NewRestDetectionAnalyzer(db).Analyze(context.Background(), task.ID, "full")
	require.NoError(t, err)

	segments, _, err := repository.NewSegmentRepository(db).GetSegments(models.RestSegmentFilter{})
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "mover", segments[0].EntityID)
	assert.Equal(t, loose.ID, segments[0].ProfileID)
}

func TestAnalyzeRerunReplacesSegments(t *testing.T) {
	db := newTestDB(t)
	insertFixes(t, db, hourlyFixes("rester", "forest", make([]float64, 30)))

	repo := repository.NewSegmentRepository(db)

	for run := 0; run < 2; run++ {
		task := newDetectionTask(t, db, 0)
		err := NewRestDetectionAnalyzer(db).Analyze(context.Background(), task.ID, "full")
		require.NoError(t, err)
	}

	count, err := repo.CountSegments()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAnalyzeNoFixes(t *testing.T) {
	db := newTestDB(t)

	task := newDetectionTask(t, db, 0)
	err := NewRestDetectionAnalyzer(db).Analyze(context.Background(), task.ID, "full")
	require.NoError(t, err)

	got, err := repository.NewTaskRepository(db).GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, int64(0), got.TotalItems)
}

func TestAnalyzeInvalidProfileFails(t *testing.T) {
	db := newTestDB(t)
	insertFixes(t, db, hourlyFixes("rester", "", make([]float64, 30)))

	bad := &models.ThresholdProfile{
		Name:       "bad",
		ParamsJSON: `{"windowSize":0,"thresholdMeters":10,"minDurationSeconds":7200}`,
	}
	require.NoError(t, repository.NewProfileRepository(db).CreateProfile(bad))

	task := newDetectionTask(t, db, bad.ID)
	err := NewRestDetectionAnalyzer(db).Analyze(context.Background(), task.ID, "full")
	assert.Error(t, err)
}

func TestAnalyzeMissingTask(t *testing.T) {
	db := newTestDB(t)
	err := NewRestDetectionAnalyzer(db).Analyze(context.Background(), 99999, "full")
	assert.Error(t, err)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	db := newTestDB(t)
	insertFixes(t, db, hourlyFixes("rester", "", make([]float64, 30)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := newDetectionTask(t, db, 0)
	err := NewRestDetectionAnalyzer(db).Analyze(ctx, task.ID, "full")
	assert.ErrorIs(t, err, context.Canceled)
}
