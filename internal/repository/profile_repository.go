package repository

import (
	"database/sql"
	"fmt"

	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
)

// ProfileRepository handles database operations for threshold profiles
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, description, is_default, params_json, created_by, created_at, updated_at`

// GetProfiles returns all threshold profiles
func (r *ProfileRepository) GetProfiles() ([]models.ThresholdProfile, error) {
	rows, err := r.db.Query("SELECT " + profileColumns + " FROM threshold_profiles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query threshold profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.ThresholdProfile
	for rows.Next() {
		var p models.ThresholdProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsDefault,
			&p.ParamsJSON, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan threshold profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// GetProfileByID retrieves a profile by ID
func (r *ProfileRepository) GetProfileByID(id int64) (*models.ThresholdProfile, error) {
	var p models.ThresholdProfile
	err := r.db.QueryRow("SELECT "+profileColumns+" FROM threshold_profiles WHERE id = ?", id).Scan(
		&p.ID, &p.Name, &p.Description, &p.IsDefault,
		&p.ParamsJSON, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get threshold profile %d: %w", id, err)
	}

	return &p, nil
}

// GetDefaultProfile retrieves the default profile
func (r *ProfileRepository) GetDefaultProfile() (*models.ThresholdProfile, error) {
	var p models.ThresholdProfile
	err := r.db.QueryRow("SELECT " + profileColumns + " FROM threshold_profiles WHERE is_default = 1 LIMIT 1").Scan(
		&p.ID, &p.Name, &p.Description, &p.IsDefault,
		&p.ParamsJSON, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default threshold profile: %w", err)
	}

	return &p, nil
}

// CreateProfile inserts a new profile and returns it with its ID set
func (r *ProfileRepository) CreateProfile(p *models.ThresholdProfile) error {
	res, err := r.db.Exec(`
		INSERT INTO threshold_profiles (name, description, is_default, params_json, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, p.Name, p.Description, p.IsDefault, p.ParamsJSON, p.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert threshold profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get profile id: %w", err)
	}
	p.ID = id

	return nil
}
