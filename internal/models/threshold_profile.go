package models

import (
	"encoding/json"
	"time"
)

// ThresholdProfile represents a named rest-detection parameterization
type ThresholdProfile struct {
	ID int64 `json:"id" db:"id"`

	// Profile identification
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	IsDefault   bool   `json:"isDefault" db:"is_default"`

	// Parameters (JSON), see DetectionParams
	ParamsJSON string `json:"paramsJson" db:"params_json"`

	// Metadata
	CreatedBy string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DetectionParams is the parameter payload stored in a threshold profile
type DetectionParams struct {
	WindowSize          int     `json:"windowSize"`          // Rolling window length in fixes
	ThresholdMeters     float64 `json:"thresholdMeters"`     // Smoothed step-length cutoff
	MinDurationSeconds  int64   `json:"minDurationSeconds"`  // Minimum segment duration to retain
	MissingWindowPolicy string  `json:"missingWindowPolicy"` // TREAT_AS_MOVING or EXCLUDE
}

// Params decodes the profile's parameter payload
func (p *ThresholdProfile) Params() (DetectionParams, error) {
	var params DetectionParams
	err := json.Unmarshal([]byte(p.ParamsJSON), &params)
	return params, err
}
