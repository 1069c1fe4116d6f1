package segmentation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)

// fixSeq builds an hourly fix sequence from a list of positions
func fixSeq(entityID string, positions [][2]float64) []Fix {
	fixes := make([]Fix, len(positions))
	for i, pos := range positions {
		fixes[i] = Fix{
			EntityID:  entityID,
			Timestamp: testStart.Add(time.Duration(i) * time.Hour),
			X:         pos[0],
			Y:         pos[1],
		}
	}
	return fixes
}

// stationaryAt returns n positions at a fixed location
func stationaryAt(x, y float64, n int) [][2]float64 {
	positions := make([][2]float64, n)
	for i := range positions {
		positions[i] = [2]float64{x, y}
	}
	return positions
}

func defaultParams() Params {
	return Params{
		WindowSize:  12,
		Threshold:   10,
		MinDuration: time.Hour,
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		wantOK bool
	}{
		{"valid", Params{WindowSize: 12, Threshold: 10, MinDuration: 2 * time.Hour}, true},
		{"valid with explicit policy", Params{WindowSize: 3, Threshold: 1, MinDuration: time.Minute, Policy: PolicyExclude}, true},
		{"zero window", Params{WindowSize: 0, Threshold: 10, MinDuration: time.Hour}, false},
		{"negative window", Params{WindowSize: -1, Threshold: 10, MinDuration: time.Hour}, false},
		{"zero threshold", Params{WindowSize: 12, Threshold: 0, MinDuration: time.Hour}, false},
		{"negative min duration", Params{WindowSize: 12, Threshold: 10, MinDuration: -time.Hour}, false},
		{"unknown policy", Params{WindowSize: 12, Threshold: 10, MinDuration: time.Hour, Policy: "EXTRAPOLATE"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidParams)
			}
		})
	}
}

func TestStepLengths(t *testing.T) {
	fixes := fixSeq("a", [][2]float64{{0, 0}, {3, 4}, {3, 4}, {6, 8}})
	steps := StepLengths(fixes)

	require.Len(t, steps, 3)
	assert.InDelta(t, 5, steps[0], 1e-9)
	assert.InDelta(t, 0, steps[1], 1e-9)
	assert.InDelta(t, 5, steps[2], 1e-9)

	assert.Nil(t, StepLengths(fixes[:1]))
}

// A stationary animal observed 13 times with a 12-fix window: the first two
// fixes carry smoothed values (all step lengths are zero), the trailing fixes
// lack full windows and count as moving, and the single stationary run
// survives the duration filter.
func TestExtractAllStationary(t *testing.T) {
	fixes := fixSeq("A", stationaryAt(500000, 5200000, 13))

	segments, err := Extract(fixes, defaultParams())
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.Equal(t, "A", seg.EntityID)
	assert.True(t, seg.Stationary)
	assert.Equal(t, 2, seg.FixCount)
	assert.Equal(t, fixes[0].Timestamp, seg.StartTime)
	assert.Equal(t, fixes[1].Timestamp, seg.EndTime)
	assert.Equal(t, time.Hour, seg.Duration)
	assert.Equal(t, 500000.0, seg.AnchorX)
	assert.Equal(t, 5200000.0, seg.AnchorY)
}

// Step lengths alternating between 0 and 1000 never average below the
// threshold within any 12-step window, so no stationary segment exists
// regardless of the duration filter.
func TestExtractAlwaysMoving(t *testing.T) {
	var positions [][2]float64
	for i := 0; i < 30; i++ {
		// Pairs of fixes at the same spot, 1000 m apart from the next pair:
		// step lengths alternate 0, 1000, 0, 1000, ...
		positions = append(positions, [2]float64{float64((i / 2) % 2 * 1000), 0})
	}
	fixes := fixSeq("B", positions)

	for _, minDur := range []time.Duration{time.Nanosecond, time.Hour, 24 * time.Hour} {
		params := defaultParams()
		params.MinDuration = minDur

		segments, err := Extract(fixes, params)
		require.NoError(t, err)
		assert.Empty(t, segments)
	}
}

// Two separated resting bouts with a travel gap between them yield exactly
// two retained segments with the correct bounds and anchors.
func TestExtractTwoRestingBouts(t *testing.T) {
	var positions [][2]float64
	positions = append(positions, stationaryAt(1000, 1000, 20)...)
	// Travel: 500 m steps, far above the mean threshold within any window.
	for i := 1; i <= 6; i++ {
		positions = append(positions, [2]float64{1000 + float64(i)*500, 1000})
	}
	positions = append(positions, stationaryAt(4000, 1000, 20)...)
	fixes := fixSeq("C", positions)

	params := defaultParams()
	params.MinDuration = 2 * time.Hour

	segments, err := Extract(fixes, params)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	first, second := segments[0], segments[1]
	assert.Equal(t, fixes[0].Timestamp, first.StartTime)
	assert.Equal(t, 1000.0, first.AnchorX)
	assert.True(t, first.EndTime.Before(second.StartTime))
	assert.Equal(t, 4000.0, second.AnchorX)
	assert.Equal(t, fixes[len(fixes)-1].Timestamp.Add(-11*time.Hour), second.EndTime)
	for _, seg := range segments {
		assert.True(t, seg.Stationary)
		assert.GreaterOrEqual(t, seg.Duration, params.MinDuration)
	}
}

// A missing habitat on the anchor fix is carried through as empty, not an error
func TestExtractMissingAnchorHabitat(t *testing.T) {
	fixes := fixSeq("D", stationaryAt(0, 0, 15))
	fixes[0].Habitat = "" // resting starts outside all mapped polygons
	fixes[5].Habitat = "broadleaf_forest"

	segments, err := Extract(fixes, defaultParams())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "", segments[0].AnchorHabitat)
}

func TestExtractFewerFixesThanWindow(t *testing.T) {
	fixes := fixSeq("E", stationaryAt(0, 0, 11))

	segments, err := Extract(fixes, defaultParams())
	require.NoError(t, err)
	assert.Empty(t, segments)
}

// The pre-filter partition covers every fix exactly once, segments are
// contiguous in time, and consecutive segments alternate stationarity.
func TestSegmentEntityPartition(t *testing.T) {
	var positions [][2]float64
	positions = append(positions, stationaryAt(0, 0, 16)...)
	for i := 1; i <= 5; i++ {
		positions = append(positions, [2]float64{float64(i) * 800, 0})
	}
	positions = append(positions, stationaryAt(4000, 0, 18)...)
	fixes := fixSeq("F", positions)

	partition, err := SegmentEntity(fixes, defaultParams())
	require.NoError(t, err)
	require.NotEmpty(t, partition)

	total := 0
	for i, seg := range partition {
		total += seg.FixCount
		assert.False(t, seg.EndTime.Before(seg.StartTime))
		if i > 0 {
			prev := partition[i-1]
			assert.NotEqual(t, prev.Stationary, seg.Stationary, "segment %d does not alternate", i)
			assert.True(t, prev.EndTime.Before(seg.StartTime), "segment %d overlaps its predecessor", i)
		}
	}
	assert.Equal(t, len(fixes), total)
	assert.Equal(t, fixes[0].Timestamp, partition[0].StartTime)
	assert.Equal(t, fixes[len(fixes)-1].Timestamp, partition[len(partition)-1].EndTime)
}

// Raising the duration floor can only shrink the retained set
func TestDurationFilterMonotonic(t *testing.T) {
	var positions [][2]float64
	positions = append(positions, stationaryAt(0, 0, 14)...)
	for i := 1; i <= 4; i++ {
		positions = append(positions, [2]float64{float64(i) * 900, 0})
	}
	positions = append(positions, stationaryAt(3600, 0, 25)...)
	fixes := fixSeq("G", positions)

	params := defaultParams()
	var prevCount = math.MaxInt
	for _, minDur := range []time.Duration{time.Hour, 3 * time.Hour, 6 * time.Hour, 48 * time.Hour} {
		params.MinDuration = minDur
		segments, err := Extract(fixes, params)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(segments), prevCount, "minDuration=%s", minDur)
		for _, seg := range segments {
			assert.GreaterOrEqual(t, seg.Duration, minDur)
		}
		prevCount = len(segments)
	}
}

// Raising the threshold can only add stationary fixes, never remove them
func TestThresholdMonotonic(t *testing.T) {
	var positions [][2]float64
	for i := 0; i < 40; i++ {
		positions = append(positions, [2]float64{float64(i*i) * 0.5, 0})
	}
	fixes := fixSeq("H", positions)

	params := defaultParams()
	params.MinDuration = time.Nanosecond

	stationaryFixCount := func(threshold float64) int {
		params.Threshold = threshold
		partition, err := SegmentEntity(fixes, params)
		require.NoError(t, err)
		count := 0
		for _, seg := range partition {
			if seg.Stationary {
				count += seg.FixCount
			}
		}
		return count
	}

	prev := 0
	for _, threshold := range []float64{1, 5, 20, 100, 1000} {
		count := stationaryFixCount(threshold)
		assert.GreaterOrEqual(t, count, prev, "T=%g", threshold)
		prev = count
	}
}

// A tie at exactly the threshold is non-stationary: strict less-than
func TestThresholdTieIsMoving(t *testing.T) {
	// Constant 10 m steps with threshold 10: smoothed value equals the
	// threshold everywhere.
	var positions [][2]float64
	for i := 0; i < 20; i++ {
		positions = append(positions, [2]float64{float64(i) * 10, 0})
	}
	fixes := fixSeq("I", positions)

	segments, err := Extract(fixes, defaultParams())
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestPolicyExcludeDropsTrailingFixes(t *testing.T) {
	fixes := fixSeq("J", stationaryAt(0, 0, 20))

	params := defaultParams()
	params.Policy = PolicyExclude

	partition, err := SegmentEntity(fixes, params)
	require.NoError(t, err)
	require.Len(t, partition, 1)

	// The trailing 11 fixes have no smoothed value and belong to no segment.
	seg := partition[0]
	assert.True(t, seg.Stationary)
	assert.Equal(t, len(fixes)-11, seg.FixCount)
	assert.Equal(t, fixes[len(fixes)-12].Timestamp, seg.EndTime)
}

func TestExtractSortsUnorderedInput(t *testing.T) {
	fixes := fixSeq("K", stationaryAt(0, 0, 13))
	shuffled := []Fix{fixes[4], fixes[0], fixes[12], fixes[7], fixes[1], fixes[3],
		fixes[2], fixes[9], fixes[5], fixes[11], fixes[6], fixes[10], fixes[8]}

	segments, err := Extract(shuffled, defaultParams())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, fixes[0].Timestamp, segments[0].StartTime)
}

// One entity's broken data fails that entity only; the others still produce segments
func TestExtractIsolatesBadEntity(t *testing.T) {
	good := fixSeq("good", stationaryAt(0, 0, 13))
	bad := fixSeq("bad", stationaryAt(0, 0, 13))
	bad[3].X = math.NaN()

	segments, err := Extract(append(good, bad...), defaultParams())
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "entity bad")
	require.Len(t, segments, 1)
	assert.Equal(t, "good", segments[0].EntityID)
}

func TestSegmentEntityInputErrors(t *testing.T) {
	base := fixSeq("L", stationaryAt(0, 0, 13))

	t.Run("zero timestamp", func(t *testing.T) {
		fixes := append([]Fix(nil), base...)
		fixes[2].Timestamp = time.Time{}
		_, err := SegmentEntity(fixes, defaultParams())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		fixes := append([]Fix(nil), base...)
		fixes[5].Timestamp = fixes[4].Timestamp
		_, err := SegmentEntity(fixes, defaultParams())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("infinite coordinate", func(t *testing.T) {
		fixes := append([]Fix(nil), base...)
		fixes[0].Y = math.Inf(1)
		_, err := SegmentEntity(fixes, defaultParams())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("mixed entities", func(t *testing.T) {
		fixes := append([]Fix(nil), base...)
		fixes[8].EntityID = "M"
		_, err := SegmentEntity(fixes, defaultParams())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExtractEmptyInput(t *testing.T) {
	segments, err := Extract(nil, defaultParams())
	require.NoError(t, err)
	assert.Empty(t, segments)
}
