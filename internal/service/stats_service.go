package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
)

// StatsService reads precomputed rest statistics
type StatsService struct {
	db *sql.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{db: db}
}

// GetEntityDurations returns the duration summary of each animal
func (s *StatsService) GetEntityDurations() ([]models.EntityDurationStat, error) {
	query := `
		SELECT stat_key, segment_count, total_seconds,
			mean_seconds, median_seconds, q1_seconds, q3_seconds, max_seconds
		FROM rest_statistics
		WHERE stat_type = ?
		ORDER BY stat_key
	`

	rows, err := s.db.Query(query, models.StatTypeEntityDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity duration stats: %w", err)
	}
	defer rows.Close()

	var stats []models.EntityDurationStat
	for rows.Next() {
		var st models.EntityDurationStat
		if err := rows.Scan(&st.EntityID, &st.SegmentCount, &st.TotalSeconds,
			&st.MeanSeconds, &st.MedianSeconds, &st.Q1Seconds, &st.Q3Seconds, &st.MaxSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan entity duration stat: %w", err)
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}

// GetHourOfDayCounts returns resting bout counts by UTC hour of day
func (s *StatsService) GetHourOfDayCounts() ([]models.HourOfDayStat, error) {
	query := `
		SELECT stat_key, segment_count
		FROM rest_statistics
		WHERE stat_type = ?
	`

	rows, err := s.db.Query(query, models.StatTypeHourOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query hour stats: %w", err)
	}
	defer rows.Close()

	byHour := make(map[int]int64, 24)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan hour stat: %w", err)
		}
		hour, err := strconv.Atoi(key)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid hour key %q", key)
		}
		byHour[hour] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Dense 0-23 output so consumers can plot without filling gaps.
	stats := make([]models.HourOfDayStat, 24)
	for hour := 0; hour < 24; hour++ {
		stats[hour] = models.HourOfDayStat{Hour: hour, SegmentCount: byHour[hour]}
	}

	return stats, nil
}

// GetHabitatStats returns resting aggregated by the anchor habitat class
func (s *StatsService) GetHabitatStats() ([]models.HabitatStat, error) {
	query := `
		SELECT stat_key, segment_count, total_seconds, mean_seconds
		FROM rest_statistics
		WHERE stat_type = ?
		ORDER BY segment_count DESC
	`

	rows, err := s.db.Query(query, models.StatTypeHabitat)
	if err != nil {
		return nil, fmt.Errorf("failed to query habitat stats: %w", err)
	}
	defer rows.Close()

	var stats []models.HabitatStat
	for rows.Next() {
		var st models.HabitatStat
		if err := rows.Scan(&st.Habitat, &st.SegmentCount, &st.TotalSeconds, &st.MeanSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan habitat stat: %w", err)
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}
