package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
)

// SegmentRepository handles database operations for rest segments
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// GetSegments retrieves rest segments with filtering and pagination
func (r *SegmentRepository) GetSegments(filter models.RestSegmentFilter) ([]models.RestSegment, int64, error) {
	query := `SELECT id, entity_id, start_time, end_time, duration_seconds,
		anchor_x, anchor_y, anchor_habitat, fix_count,
		profile_id, algo_version, created_at
		FROM rest_segments`

	var conditions []string
	var args []interface{}

	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if filter.MinDuration > 0 {
		conditions = append(conditions, "duration_seconds >= ?")
		args = append(args, filter.MinDuration)
	}
	if filter.Habitat != "" {
		conditions = append(conditions, "anchor_habitat = ?")
		args = append(args, filter.Habitat)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, filter.EndTime)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM rest_segments"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rest segments: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += where + " ORDER BY entity_id, start_time LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query rest segments: %w", err)
	}
	defer rows.Close()

	var segments []models.RestSegment
	for rows.Next() {
		var s models.RestSegment
		if err := rows.Scan(
			&s.ID, &s.EntityID, &s.StartTime, &s.EndTime, &s.DurationSeconds,
			&s.AnchorX, &s.AnchorY, &s.AnchorHabitat, &s.FixCount,
			&s.ProfileID, &s.AlgoVersion, &s.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan rest segment: %w", err)
		}
		segments = append(segments, s)
	}

	return segments, total, rows.Err()
}

// GetSegmentByID retrieves a single rest segment
func (r *SegmentRepository) GetSegmentByID(id int64) (*models.RestSegment, error) {
	query := `SELECT id, entity_id, start_time, end_time, duration_seconds,
		anchor_x, anchor_y, anchor_habitat, fix_count,
		profile_id, algo_version, created_at
		FROM rest_segments WHERE id = ?`

	var s models.RestSegment
	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.EntityID, &s.StartTime, &s.EndTime, &s.DurationSeconds,
		&s.AnchorX, &s.AnchorY, &s.AnchorHabitat, &s.FixCount,
		&s.ProfileID, &s.AlgoVersion, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rest segment %d: %w", id, err)
	}

	return &s, nil
}

// ReplaceEntitySegments deletes an entity's segments and inserts the new set
// in one transaction, so a re-run never leaves a partial result behind.
func (r *SegmentRepository) ReplaceEntitySegments(tx *sql.Tx, entityID string, segments []models.RestSegment) error {
	if _, err := tx.Exec("DELETE FROM rest_segments WHERE entity_id = ?", entityID); err != nil {
		return fmt.Errorf("failed to clear segments for entity %s: %w", entityID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rest_segments (
			entity_id, start_time, end_time, duration_seconds,
			anchor_x, anchor_y, anchor_habitat, fix_count,
			profile_id, algo_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range segments {
		if _, err := stmt.Exec(
			s.EntityID, s.StartTime, s.EndTime, s.DurationSeconds,
			s.AnchorX, s.AnchorY, s.AnchorHabitat, s.FixCount,
			s.ProfileID, s.AlgoVersion,
		); err != nil {
			return fmt.Errorf("failed to insert rest segment: %w", err)
		}
	}

	return nil
}

// GetAllSegments returns every rest segment in entity/time order
func (r *SegmentRepository) GetAllSegments() ([]models.RestSegment, error) {
	segments, _, err := r.GetSegments(models.RestSegmentFilter{PageSize: 1000})
	if err != nil {
		return nil, err
	}

	// Page through the rest; detection runs produce bounded output but the
	// table is not capped.
	page := 2
	for {
		batch, total, err := r.GetSegments(models.RestSegmentFilter{Page: page, PageSize: 1000})
		if err != nil {
			return nil, err
		}
		segments = append(segments, batch...)
		if int64(len(segments)) >= total || len(batch) == 0 {
			break
		}
		page++
	}

	return segments, nil
}

// CountSegments returns the total number of stored rest segments
func (r *SegmentRepository) CountSegments() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM rest_segments").Scan(&count)
	return count, err
}
