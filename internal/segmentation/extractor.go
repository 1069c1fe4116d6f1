// Package segmentation detects resting periods in GPS telemetry.
//
// A fix's movement is smoothed by averaging the step lengths (planar distance
// to the next fix) over a rolling window of k fixes. Fixes whose smoothed
// step length stays strictly below a threshold are stationary; maximal runs
// of equal stationarity form segments, and stationary segments longer than a
// minimum duration are the resting periods of interest.
//
// The computation is a pure transform over an immutable snapshot of fixes.
// Entities are independent; a re-run with different parameters recomputes
// everything from scratch.
package segmentation

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/NinaPoglic/boar-telemetry-go/internal/spatial"
)

// ErrInvalidParams indicates a rejected configuration
var ErrInvalidParams = errors.New("segmentation: invalid parameters")

// ErrInvalidInput indicates unusable fix data for an entity
var ErrInvalidInput = errors.New("segmentation: invalid input")

// Fix is one GPS observation in projected planar coordinates
type Fix struct {
	EntityID  string
	Timestamp time.Time // UTC
	X         float64
	Y         float64
	Habitat   string // land-cover class at the fix, empty when outside all polygons
}

// Point returns the fix position as a spatial point
func (f Fix) Point() spatial.Point {
	return spatial.Point{X: f.X, Y: f.Y}
}

// Segment is a maximal run of consecutive fixes of one entity sharing the
// same stationarity flag. Start and end times are the timestamps of the
// run's first and last fix; the anchor is the run's first fix.
type Segment struct {
	EntityID      string
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	AnchorX       float64
	AnchorY       float64
	AnchorHabitat string
	Stationary    bool
	FixCount      int
}

// Extract produces the stationary segments with duration >= MinDuration
// across all entities. Fixes may arrive in any order; they are grouped by
// entity and sorted by timestamp internally.
//
// Invalid parameters reject the whole call. Invalid fix data (non-finite
// coordinates, missing or duplicate timestamps) fails only the offending
// entity: segments from the remaining entities are still returned, together
// with a joined error describing each failed entity. Callers that require
// all-or-nothing semantics should treat a non-nil error as fatal.
func Extract(fixes []Fix, params Params) ([]Segment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	byEntity := make(map[string][]Fix)
	var order []string
	for _, f := range fixes {
		if _, seen := byEntity[f.EntityID]; !seen {
			order = append(order, f.EntityID)
		}
		byEntity[f.EntityID] = append(byEntity[f.EntityID], f)
	}
	sort.Strings(order)

	var segments []Segment
	var errs []error
	for _, entityID := range order {
		entityFixes := byEntity[entityID]
		sort.SliceStable(entityFixes, func(i, j int) bool {
			return entityFixes[i].Timestamp.Before(entityFixes[j].Timestamp)
		})

		partition, err := SegmentEntity(entityFixes, params)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", entityID, err))
			continue
		}

		for _, seg := range partition {
			if seg.Stationary && seg.Duration >= params.MinDuration {
				segments = append(segments, seg)
			}
		}
	}

	return segments, errors.Join(errs...)
}

// SegmentEntity partitions one entity's time-ordered fixes into maximal runs
// of equal stationarity, before any duration filtering. Under the default
// missing-window policy the returned segments cover every fix exactly once
// and consecutive segments alternate stationarity; under PolicyExclude the
// trailing fixes without a full window belong to no segment.
//
// Fixes must be strictly increasing in timestamp and all must share the same
// entity; violations are reported as an input error.
func SegmentEntity(fixes []Fix, params Params) ([]Segment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := checkFixes(fixes); err != nil {
		return nil, err
	}

	smoothed, defined := smoothedSteps(fixes, params.WindowSize)

	// Classify each fix. Ties at exactly the threshold are non-stationary.
	type classified struct {
		fix        Fix
		stationary bool
	}
	var flags []classified
	for i, f := range fixes {
		if !defined[i] {
			if params.policy() == PolicyExclude {
				continue
			}
			flags = append(flags, classified{fix: f, stationary: false})
			continue
		}
		flags = append(flags, classified{fix: f, stationary: smoothed[i] < params.Threshold})
	}

	// Run-length partition over the classified sequence.
	var segments []Segment
	for start := 0; start < len(flags); {
		end := start
		for end+1 < len(flags) && flags[end+1].stationary == flags[start].stationary {
			end++
		}

		first := flags[start].fix
		last := flags[end].fix
		segments = append(segments, Segment{
			EntityID:      first.EntityID,
			StartTime:     first.Timestamp,
			EndTime:       last.Timestamp,
			Duration:      last.Timestamp.Sub(first.Timestamp),
			AnchorX:       first.X,
			AnchorY:       first.Y,
			AnchorHabitat: first.Habitat,
			Stationary:    flags[start].stationary,
			FixCount:      end - start + 1,
		})

		start = end + 1
	}

	return segments, nil
}

// StepLengths returns the planar distance from each fix to the next,
// aligned with the earlier fix of the pair. Length is len(fixes)-1.
func StepLengths(fixes []Fix) []float64 {
	points := make([]spatial.Point, len(fixes))
	for i, f := range fixes {
		points[i] = f.Point()
	}
	return spatial.StepLengths(points)
}

// smoothedSteps computes the rolling mean of up to k consecutive step lengths
// starting at each fix. A fix within the trailing k-1 positions of the entity
// has no smoothed value. The last fix carrying a value averages the k-1 steps
// that remain ahead of it, matching a left-aligned window over the step
// series with its trailing gap ignored.
func smoothedSteps(fixes []Fix, k int) ([]float64, []bool) {
	n := len(fixes)
	smoothed := make([]float64, n)
	defined := make([]bool, n)
	if n < 2 {
		return smoothed, defined
	}

	steps := StepLengths(fixes)
	for i := 0; i <= n-k && i < n; i++ {
		hi := i + k
		if hi > len(steps) {
			hi = len(steps)
		}
		if hi <= i {
			// k=1 at the final fix: no step length exists at all.
			continue
		}
		var sum float64
		for _, s := range steps[i:hi] {
			sum += s
		}
		smoothed[i] = sum / float64(hi-i)
		defined[i] = true
	}

	return smoothed, defined
}

// checkFixes validates one entity's fix sequence
func checkFixes(fixes []Fix) error {
	for i, f := range fixes {
		if f.Timestamp.IsZero() {
			return fmt.Errorf("%w: fix %d has no timestamp", ErrInvalidInput, i)
		}
		if !f.Point().IsFinite() {
			return fmt.Errorf("%w: fix %d has non-finite coordinates (%g, %g)", ErrInvalidInput, i, f.X, f.Y)
		}
		if i > 0 {
			if f.EntityID != fixes[0].EntityID {
				return fmt.Errorf("%w: mixed entities %q and %q", ErrInvalidInput, fixes[0].EntityID, f.EntityID)
			}
			if !fixes[i-1].Timestamp.Before(f.Timestamp) {
				return fmt.Errorf("%w: timestamps not strictly increasing at fix %d", ErrInvalidInput, i)
			}
		}
	}
	return nil
}
