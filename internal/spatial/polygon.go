package spatial

// Polygon represents a simple planar polygon, optionally with holes.
// The outer ring is implicitly closed; the last vertex does not need to
// repeat the first.
type Polygon struct {
	Outer []Point
	Holes [][]Point
}

// Contains reports whether the point lies inside the polygon.
// Points inside a hole are outside. Boundary behavior follows the ray-casting
// rule and is not guaranteed for points exactly on an edge.
func (poly Polygon) Contains(p Point) bool {
	if !ringContains(poly.Outer, p) {
		return false
	}
	for _, hole := range poly.Holes {
		if ringContains(hole, p) {
			return false
		}
	}
	return true
}

// ringContains implements the even-odd ray-casting test against a single ring
func ringContains(ring []Point, p Point) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}

	return inside
}

// BoundingBoxContains is a cheap pre-check before the full containment test
func (poly Polygon) BoundingBoxContains(p Point) bool {
	minX, minY, maxX, maxY := BoundingBox(poly.Outer)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}
