package models

import "time"

// RestSegment represents a detected resting period of one animal: a maximal
// run of fixes whose smoothed step length stayed below the detection
// threshold, retained because it lasted at least the configured minimum.
type RestSegment struct {
	ID       int64  `json:"id" db:"id"`
	EntityID string `json:"entityId" db:"entity_id"`

	// Temporal info
	StartTime       int64 `json:"startTime" db:"start_time"`             // Unix timestamp
	EndTime         int64 `json:"endTime" db:"end_time"`                 // Unix timestamp
	DurationSeconds int64 `json:"durationSeconds" db:"duration_seconds"`

	// Anchor: position and habitat of the first fix of the run
	AnchorX       float64 `json:"anchorX" db:"anchor_x"`
	AnchorY       float64 `json:"anchorY" db:"anchor_y"`
	AnchorHabitat string  `json:"anchorHabitat,omitempty" db:"anchor_habitat"`

	FixCount int `json:"fixCount" db:"fix_count"`

	// Metadata
	ProfileID   int64     `json:"profileId,omitempty" db:"profile_id"` // threshold profile used
	AlgoVersion string    `json:"algoVersion,omitempty" db:"algo_version"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// RestSegmentsResponse represents a paginated response of rest segments
type RestSegmentsResponse struct {
	Data       []RestSegment `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// RestSegmentFilter represents filter parameters for querying rest segments
type RestSegmentFilter struct {
	EntityID    string `form:"entityId"`
	StartTime   int64  `form:"startTime"`
	EndTime     int64  `form:"endTime"`
	MinDuration int64  `form:"minDuration"` // Minimum duration in seconds
	Habitat     string `form:"habitat"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
}
