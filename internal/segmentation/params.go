package segmentation

import (
	"fmt"
	"time"
)

// MissingWindowPolicy controls how fixes without a full smoothing window are
// treated during run detection. The trailing k-1 fixes of an entity never have
// enough subsequent step lengths to fill the window, so a policy is needed.
type MissingWindowPolicy string

const (
	// PolicyTreatAsMoving classifies fixes with an undefined smoothed step
	// length as non-stationary. This is the default.
	PolicyTreatAsMoving MissingWindowPolicy = "TREAT_AS_MOVING"

	// PolicyExclude drops fixes with an undefined smoothed step length from
	// run detection entirely, so they belong to no segment.
	PolicyExclude MissingWindowPolicy = "EXCLUDE"
)

// Params holds the rest-detection configuration.
// All three numeric parameters are required; there are no baked-in defaults.
type Params struct {
	// WindowSize is the number of consecutive step lengths averaged into the
	// smoothed step length of a fix.
	WindowSize int

	// Threshold is the stationarity cutoff in coordinate units (meters for
	// projected telemetry). A fix is stationary iff its smoothed step length
	// is defined and strictly below the threshold.
	Threshold float64

	// MinDuration is the minimum duration a stationary segment must span to
	// be retained.
	MinDuration time.Duration

	// Policy selects the missing-window behavior. Empty means
	// PolicyTreatAsMoving.
	Policy MissingWindowPolicy
}

// policy returns the effective missing-window policy
func (p Params) policy() MissingWindowPolicy {
	if p.Policy == "" {
		return PolicyTreatAsMoving
	}
	return p.Policy
}

// Validate rejects invalid configuration before any computation
func (p Params) Validate() error {
	if p.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidParams, p.WindowSize)
	}
	if p.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %g", ErrInvalidParams, p.Threshold)
	}
	if p.MinDuration <= 0 {
		return fmt.Errorf("%w: minimum duration must be positive, got %s", ErrInvalidParams, p.MinDuration)
	}
	switch p.policy() {
	case PolicyTreatAsMoving, PolicyExclude:
	default:
		return fmt.Errorf("%w: unknown missing-window policy %q", ErrInvalidParams, p.Policy)
	}
	return nil
}
