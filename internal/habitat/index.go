// Package habitat resolves the land-cover class at a planar position from a
// set of habitat polygons. It is the point-in-polygon collaborator that fills
// Fix.Habitat at ingest time; positions outside all polygons get the empty
// class.
package habitat

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/NinaPoglic/boar-telemetry-go/internal/spatial"
)

// Index answers habitat-class lookups over a fixed set of polygons
type Index struct {
	features []feature
}

type feature struct {
	class    string
	polygons []spatial.Polygon
}

// geoJSON mirrors the subset of GeoJSON the loader understands. Coordinates
// are expected in the same projected system as the telemetry, not lon/lat.
type geoJSON struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]string `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// classProperty names the feature property holding the land-cover class
const classProperty = "habitat"

// LoadGeoJSON reads habitat polygons from a GeoJSON FeatureCollection.
// Polygon and MultiPolygon geometries are supported; features without a
// habitat property are skipped.
func LoadGeoJSON(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read habitat file: %w", err)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON builds an index from raw GeoJSON bytes
func ParseGeoJSON(data []byte) (*Index, error) {
	var doc geoJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse habitat GeoJSON: %w", err)
	}
	if doc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", doc.Type)
	}

	index := &Index{}
	for i, feat := range doc.Features {
		class := feat.Properties[classProperty]
		if class == "" {
			continue
		}

		var polygons []spatial.Polygon
		switch feat.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(feat.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("feature %d: bad polygon coordinates: %w", i, err)
			}
			poly, err := toPolygon(rings)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			polygons = append(polygons, poly)
		case "MultiPolygon":
			var multi [][][][]float64
			if err := json.Unmarshal(feat.Geometry.Coordinates, &multi); err != nil {
				return nil, fmt.Errorf("feature %d: bad multipolygon coordinates: %w", i, err)
			}
			for _, rings := range multi {
				poly, err := toPolygon(rings)
				if err != nil {
					return nil, fmt.Errorf("feature %d: %w", i, err)
				}
				polygons = append(polygons, poly)
			}
		default:
			return nil, fmt.Errorf("feature %d: unsupported geometry type %q", i, feat.Geometry.Type)
		}

		index.features = append(index.features, feature{class: class, polygons: polygons})
	}

	return index, nil
}

// toPolygon converts GeoJSON rings (outer first, then holes) to a spatial polygon
func toPolygon(rings [][][]float64) (spatial.Polygon, error) {
	if len(rings) == 0 {
		return spatial.Polygon{}, fmt.Errorf("polygon has no rings")
	}

	toPoints := func(ring [][]float64) ([]spatial.Point, error) {
		points := make([]spatial.Point, 0, len(ring))
		for _, coord := range ring {
			if len(coord) < 2 {
				return nil, fmt.Errorf("ring coordinate has %d values", len(coord))
			}
			points = append(points, spatial.Point{X: coord[0], Y: coord[1]})
		}
		return points, nil
	}

	outer, err := toPoints(rings[0])
	if err != nil {
		return spatial.Polygon{}, err
	}

	poly := spatial.Polygon{Outer: outer}
	for _, ring := range rings[1:] {
		hole, err := toPoints(ring)
		if err != nil {
			return spatial.Polygon{}, err
		}
		poly.Holes = append(poly.Holes, hole)
	}

	return poly, nil
}

// ClassAt returns the habitat class containing the position, or "" when the
// position lies outside all polygons. The first matching feature wins.
func (ix *Index) ClassAt(x, y float64) string {
	p := spatial.Point{X: x, Y: y}
	for _, feat := range ix.features {
		for _, poly := range feat.polygons {
			if !poly.BoundingBoxContains(p) {
				continue
			}
			if poly.Contains(p) {
				return feat.class
			}
		}
	}
	return ""
}

// Size returns the number of indexed features
func (ix *Index) Size() int {
	return len(ix.features)
}
