package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/segmentation"
)

// FixRepository handles database operations for GPS fixes
type FixRepository struct {
	db *sql.DB
}

// NewFixRepository creates a new fix repository
func NewFixRepository(db *sql.DB) *FixRepository {
	return &FixRepository{db: db}
}

// GetFixes retrieves fixes with filtering and pagination
func (r *FixRepository) GetFixes(filter models.FixFilter) ([]models.Fix, int64, error) {
	query := `SELECT id, entity_id, timestamp, x, y, habitat, created_at FROM fixes`

	var conditions []string
	var args []interface{}

	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.Habitat != "" {
		conditions = append(conditions, "habitat = ?")
		args = append(args, filter.Habitat)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM fixes"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fixes: %w", err)
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
	query += where + " ORDER BY entity_id, timestamp LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query fixes: %w", err)
	}
	defer rows.Close()

	var fixes []models.Fix
	for rows.Next() {
		var f models.Fix
		if err := rows.Scan(&f.ID, &f.EntityID, &f.Timestamp, &f.X, &f.Y, &f.Habitat, &f.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan fix: %w", err)
		}
		fixes = append(fixes, f)
	}

	return fixes, total, rows.Err()
}

// GetEntities returns per-animal fix counts and time extents
func (r *FixRepository) GetEntities() ([]models.Entity, error) {
	query := `
		SELECT entity_id, COUNT(*), MIN(timestamp), MAX(timestamp)
		FROM fixes
		GROUP BY entity_id
		ORDER BY entity_id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.EntityID, &e.FixCount, &e.FirstFix, &e.LastFix); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}

	return entities, rows.Err()
}

// GetEntityIDs returns all distinct entity IDs
func (r *FixRepository) GetEntityIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT entity_id FROM fixes ORDER BY entity_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query entity ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entity id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetEntityFixes returns one entity's fixes in timestamp order as
// segmentation inputs
func (r *FixRepository) GetEntityFixes(entityID string) ([]segmentation.Fix, error) {
	query := `
		SELECT entity_id, timestamp, x, y, habitat
		FROM fixes
		WHERE entity_id = ?
		ORDER BY timestamp
	`

	rows, err := r.db.Query(query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixes for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	var fixes []segmentation.Fix
	for rows.Next() {
		var f segmentation.Fix
		var ts int64
		if err := rows.Scan(&f.EntityID, &ts, &f.X, &f.Y, &f.Habitat); err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}
		f.Timestamp = time.Unix(ts, 0).UTC()
		fixes = append(fixes, f)
	}

	return fixes, rows.Err()
}

// InsertFixes batch-inserts fixes inside a transaction.
// Duplicate (entity, timestamp) pairs are ignored.
func (r *FixRepository) InsertFixes(fixes []models.Fix) (int64, error) {
	if len(fixes) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO fixes (entity_id, timestamp, x, y, habitat)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, f := range fixes {
		res, err := stmt.Exec(f.EntityID, f.Timestamp, f.X, f.Y, f.Habitat)
		if err != nil {
			return 0, fmt.Errorf("failed to insert fix: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// CountFixes returns the total number of stored fixes
func (r *FixRepository) CountFixes() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM fixes").Scan(&count)
	return count, err
}
