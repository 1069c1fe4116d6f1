package models

// EntityDurationStat summarizes rest durations of one animal
type EntityDurationStat struct {
	EntityID      string  `json:"entityId" db:"entity_id"`
	SegmentCount  int64   `json:"segmentCount" db:"segment_count"`
	TotalSeconds  int64   `json:"totalSeconds" db:"total_seconds"`
	MeanSeconds   float64 `json:"meanSeconds" db:"mean_seconds"`
	MedianSeconds float64 `json:"medianSeconds" db:"median_seconds"`
	Q1Seconds     float64 `json:"q1Seconds" db:"q1_seconds"`
	Q3Seconds     float64 `json:"q3Seconds" db:"q3_seconds"`
	MaxSeconds    int64   `json:"maxSeconds" db:"max_seconds"`
}

// HourOfDayStat counts resting bouts starting in a given UTC hour
type HourOfDayStat struct {
	Hour         int   `json:"hour" db:"hour"`
	SegmentCount int64 `json:"segmentCount" db:"segment_count"`
}

// HabitatStat aggregates resting by the habitat class of the segment anchor.
// Segments anchored outside all mapped polygons land in the empty class.
type HabitatStat struct {
	Habitat      string  `json:"habitat" db:"habitat"`
	SegmentCount int64   `json:"segmentCount" db:"segment_count"`
	TotalSeconds int64   `json:"totalSeconds" db:"total_seconds"`
	MeanSeconds  float64 `json:"meanSeconds" db:"mean_seconds"`
}

// Stat type constants for the rest_statistics table
const (
	StatTypeEntityDuration = "ENTITY_DURATION"
	StatTypeHourOfDay      = "HOUR_OF_DAY"
	StatTypeHabitat        = "HABITAT"
)
