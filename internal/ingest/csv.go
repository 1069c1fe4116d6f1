// Package ingest loads GPS fixes from telemetry CSV exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NinaPoglic/boar-telemetry-go/internal/habitat"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
)

// Expected CSV header columns. Habitat is optional; when a habitat index is
// supplied it overrides the column.
const (
	colEntity    = "entity_id"
	colTimestamp = "timestamp"
	colX         = "x"
	colY         = "y"
	colHabitat   = "habitat"
)

// timestampLayouts lists the accepted timestamp formats, tried in order
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Loader parses fix CSV files, optionally annotating habitat from an index
type Loader struct {
	habitats *habitat.Index // may be nil
}

// NewLoader creates a loader. The habitat index may be nil, in which case the
// CSV's own habitat column (if any) is used.
func NewLoader(habitats *habitat.Index) *Loader {
	return &Loader{habitats: habitats}
}

// LoadFile reads fixes from a CSV file
func (l *Loader) LoadFile(path string) ([]models.Fix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fix file: %w", err)
	}
	defer f.Close()

	fixes, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fixes, nil
}

// Load reads fixes from CSV data. The first row must be a header naming at
// least entity_id, timestamp, x and y.
func (l *Loader) Load(r io.Reader) ([]models.Fix, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colEntity, colTimestamp, colX, colY} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var fixes []models.Fix
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		fix, err := l.parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		fixes = append(fixes, fix)
	}

	return fixes, nil
}

// parseRecord converts one CSV record to a fix
func (l *Loader) parseRecord(record []string, cols map[string]int) (models.Fix, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	entityID := field(colEntity)
	if entityID == "" {
		return models.Fix{}, fmt.Errorf("empty entity_id")
	}

	ts, err := parseTimestamp(field(colTimestamp))
	if err != nil {
		return models.Fix{}, err
	}

	x, err := strconv.ParseFloat(field(colX), 64)
	if err != nil {
		return models.Fix{}, fmt.Errorf("bad x coordinate %q", field(colX))
	}
	y, err := strconv.ParseFloat(field(colY), 64)
	if err != nil {
		return models.Fix{}, fmt.Errorf("bad y coordinate %q", field(colY))
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return models.Fix{}, fmt.Errorf("non-finite coordinates (%g, %g)", x, y)
	}

	hab := field(colHabitat)
	if l.habitats != nil {
		hab = l.habitats.ClassAt(x, y)
	}

	return models.Fix{
		EntityID:  entityID,
		Timestamp: ts,
		X:         x,
		Y:         y,
		Habitat:   hab,
	}, nil
}

// parseTimestamp accepts unix seconds or a known timestamp layout, UTC
func parseTimestamp(value string) (int64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return unix, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, fmt.Errorf("unrecognized timestamp %q", value)
}
