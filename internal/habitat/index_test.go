package habitat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"properties": {"habitat": "forest"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0, 0], [100, 0], [100, 100], [0, 100], [0, 0]]]
			}
		},
		{
			"properties": {"habitat": "meadow"},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[200, 0], [300, 0], [300, 100], [200, 100], [200, 0]]],
					[[[400, 0], [500, 0], [500, 100], [400, 100], [400, 0]]]
				]
			}
		},
		{
			"properties": {"name": "unlabeled"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[600, 0], [700, 0], [700, 100], [600, 100], [600, 0]]]
			}
		}
	]
}`

func TestParseGeoJSON(t *testing.T) {
	index, err := ParseGeoJSON([]byte(sampleGeoJSON))
	require.NoError(t, err)

	// The feature without a habitat property is skipped.
	assert.Equal(t, 2, index.Size())

	assert.Equal(t, "forest", index.ClassAt(50, 50))
	assert.Equal(t, "meadow", index.ClassAt(250, 50))
	assert.Equal(t, "meadow", index.ClassAt(450, 50), "second part of the multipolygon")
	assert.Equal(t, "", index.ClassAt(650, 50), "unlabeled feature does not classify")
	assert.Equal(t, "", index.ClassAt(-10, -10))
	assert.Equal(t, "", index.ClassAt(150, 50), "gap between polygons")
}

func TestParseGeoJSONWithHole(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [{
			"properties": {"habitat": "forest"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [
					[[0, 0], [100, 0], [100, 100], [0, 100], [0, 0]],
					[[40, 40], [60, 40], [60, 60], [40, 60], [40, 40]]
				]
			}
		}]
	}`

	index, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "forest", index.ClassAt(20, 20))
	assert.Equal(t, "", index.ClassAt(50, 50), "clearing inside the forest polygon")
}

func TestParseGeoJSONOverlapFirstWins(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [
			{
				"properties": {"habitat": "forest"},
				"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [100, 0], [100, 100], [0, 100], [0, 0]]]}
			},
			{
				"properties": {"habitat": "meadow"},
				"geometry": {"type": "Polygon", "coordinates": [[[50, 0], [150, 0], [150, 100], [50, 100], [50, 0]]]}
			}
		]
	}`

	index, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "forest", index.ClassAt(75, 50))
	assert.Equal(t, "meadow", index.ClassAt(125, 50))
}

func TestParseGeoJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"wrong root type", `{"type": "Feature", "features": []}`},
		{"unsupported geometry", `{
			"type": "FeatureCollection",
			"features": [{
				"properties": {"habitat": "forest"},
				"geometry": {"type": "Point", "coordinates": [1, 2]}
			}]
		}`},
		{"empty polygon", `{
			"type": "FeatureCollection",
			"features": [{
				"properties": {"habitat": "forest"},
				"geometry": {"type": "Polygon", "coordinates": []}
			}]
		}`},
		{"short coordinate", `{
			"type": "FeatureCollection",
			"features": [{
				"properties": {"habitat": "forest"},
				"geometry": {"type": "Polygon", "coordinates": [[[1], [2, 3], [4, 5]]]}
			}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeoJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitat.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleGeoJSON), 0644))

	index, err := LoadGeoJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "forest", index.ClassAt(50, 50))

	_, err = LoadGeoJSON(filepath.Join(t.TempDir(), "missing.geojson"))
	assert.Error(t, err)
}
