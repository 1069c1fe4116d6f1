package models

// Fix represents a GPS fix of a tracked animal in projected planar coordinates
type Fix struct {
	ID       int64  `json:"id" db:"id"`
	EntityID string `json:"entityId" db:"entity_id"` // Collar/animal identifier

	Timestamp int64   `json:"timestamp" db:"timestamp"` // Unix timestamp in seconds, UTC
	X         float64 `json:"x" db:"x"`                 // Easting in meters
	Y         float64 `json:"y" db:"y"`                 // Northing in meters

	// Habitat is the land-cover class of the polygon containing the fix,
	// empty when the fix lies outside all mapped polygons.
	Habitat string `json:"habitat,omitempty" db:"habitat"`

	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

// FixesResponse represents a paginated response of fixes
type FixesResponse struct {
	Data       []Fix `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// FixFilter represents filter parameters for querying fixes
type FixFilter struct {
	EntityID  string `form:"entityId"`
	StartTime int64  `form:"startTime"` // Unix timestamp
	EndTime   int64  `form:"endTime"`   // Unix timestamp
	Habitat   string `form:"habitat"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// Entity summarizes one tracked animal's coverage and movement footprint
type Entity struct {
	EntityID string `json:"entityId" db:"entity_id"`
	FixCount int64  `json:"fixCount" db:"fix_count"`
	FirstFix int64  `json:"firstFix" db:"first_fix"` // Unix timestamp
	LastFix  int64  `json:"lastFix" db:"last_fix"`   // Unix timestamp

	// Movement footprint over all fixes
	PathLengthMeters       float64 `json:"pathLengthMeters"`
	CentroidX              float64 `json:"centroidX"`
	CentroidY              float64 `json:"centroidY"`
	RadiusOfGyrationMeters float64 `json:"radiusOfGyrationMeters"`
}
