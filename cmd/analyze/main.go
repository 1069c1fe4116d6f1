// Command analyze runs a one-shot rest-detection pass: optionally import a
// CSV of fixes, run the detection and statistics analyzers, and print the
// resulting summaries. Intended for batch/report runs without the API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/NinaPoglic/boar-telemetry-go/internal/database"
	"github.com/NinaPoglic/boar-telemetry-go/internal/habitat"
	"github.com/NinaPoglic/boar-telemetry-go/internal/ingest"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"

	_ "github.com/NinaPoglic/boar-telemetry-go/internal/analysis/resting"
	_ "github.com/NinaPoglic/boar-telemetry-go/internal/analysis/reststats"
)

func main() {
	dbPath := flag.String("db", "./data/telemetry.db", "sqlite database path")
	fixesPath := flag.String("fixes", "", "CSV of fixes to import before analysis")
	habitatPath := flag.String("habitat", "", "GeoJSON habitat polygons for the habitat join")
	profileID := flag.Int64("profile", 0, "threshold profile id (0 uses the default profile)")
	flag.Parse()

	db, err := database.Open(database.Config{Path: *dbPath})
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	if *fixesPath != "" {
		if err := importFixes(db, *fixesPath, *habitatPath); err != nil {
			log.Fatal(err)
		}
	}

	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo, db)
	ctx := context.Background()

	for _, skill := range []string{"rest_detection", "rest_statistics"} {
		task := &models.AnalysisTask{
			SkillName:          skill,
			TaskType:           models.TaskTypeFullRecompute,
			Status:             models.TaskStatusPending,
			ThresholdProfileID: *profileID,
			CreatedBy:          "analyze-cli",
		}
		if err := taskRepo.CreateTask(task); err != nil {
			log.Fatal("Failed to create task: ", err)
		}
		if err := taskService.RunTask(ctx, task.ID, skill, task.TaskType); err != nil {
			log.Fatalf("Skill %s failed: %v", skill, err)
		}
	}

	if err := printSummary(db); err != nil {
		log.Fatal("Failed to print summary: ", err)
	}
}

func importFixes(db *sql.DB, fixesPath, habitatPath string) error {
	var habitats *habitat.Index
	if habitatPath != "" {
		var err error
		habitats, err = habitat.LoadGeoJSON(habitatPath)
		if err != nil {
			return fmt.Errorf("failed to load habitat polygons: %w", err)
		}
		log.Printf("Loaded %d habitat features", habitats.Size())
	}

	fixes, err := ingest.NewLoader(habitats).LoadFile(fixesPath)
	if err != nil {
		return fmt.Errorf("failed to load fixes: %w", err)
	}

	inserted, err := repository.NewFixRepository(db).InsertFixes(fixes)
	if err != nil {
		return fmt.Errorf("failed to import fixes: %w", err)
	}
	log.Printf("Imported %d fixes (%d new)", len(fixes), inserted)
	return nil
}

// printSummary writes per-animal and per-habitat summaries to stdout
func printSummary(db *sql.DB) error {
	fixCount, err := repository.NewFixRepository(db).CountFixes()
	if err != nil {
		return err
	}
	segCount, err := repository.NewSegmentRepository(db).CountSegments()
	if err != nil {
		return err
	}
	fmt.Printf("Fixes: %d, resting segments: %d\n", fixCount, segCount)

	statsService := service.NewStatsService(db)

	durations, err := statsService.GetEntityDurations()
	if err != nil {
		return err
	}
	fmt.Println("\nResting duration by animal:")
	for _, st := range durations {
		fmt.Printf("  %-12s segments=%-4d total=%.1fh mean=%.1fh median=%.1fh max=%.1fh\n",
			st.EntityID, st.SegmentCount,
			float64(st.TotalSeconds)/3600, st.MeanSeconds/3600, st.MedianSeconds/3600, float64(st.MaxSeconds)/3600)
	}

	habitats, err := statsService.GetHabitatStats()
	if err != nil {
		return err
	}
	if len(habitats) > 0 {
		fmt.Println("\nResting by habitat:")
		for _, st := range habitats {
			fmt.Printf("  %-20s segments=%-4d total=%.1fh mean=%.1fh\n",
				st.Habitat, st.SegmentCount, float64(st.TotalSeconds)/3600, st.MeanSeconds/3600)
		}
	}

	return nil
}
