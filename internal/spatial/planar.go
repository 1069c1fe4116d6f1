package spatial

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point represents a 2D position in a projected (planar) coordinate system.
// All distances in this package are Euclidean; inputs are expected to be in a
// locally-flat projection such as UTM, with units of meters.
type Point struct {
	X float64
	Y float64
}

// R2 converts the point to an r2.Point.
func (p Point) R2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Distance calculates the planar Euclidean distance between two points in meters
func Distance(p, q Point) float64 {
	return q.R2().Sub(p.R2()).Norm()
}

// StepLengths computes the distance between each consecutive pair of points.
// The returned slice has length len(points)-1; element i is the distance from
// point i to point i+1 (aligned with the earlier point of the pair).
func StepLengths(points []Point) []float64 {
	if len(points) < 2 {
		return nil
	}

	steps := make([]float64, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		steps[i] = Distance(points[i], points[i+1])
	}
	return steps
}

// PathLength computes the total length of the polyline through the points
func PathLength(points []Point) float64 {
	var total float64
	for _, step := range StepLengths(points) {
		total += step
	}
	return total
}

// Centroid calculates the centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}

	return Point{
		X: sumX / float64(len(points)),
		Y: sumY / float64(len(points)),
	}
}

// RadiusOfGyration calculates the spatial dispersion around the centroid
func RadiusOfGyration(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}

	center := Centroid(points)

	var sumSquaredDist float64
	for _, p := range points {
		dist := Distance(center, p)
		sumSquaredDist += dist * dist
	}

	return math.Sqrt(sumSquaredDist / float64(len(points)))
}

// BoundingBox calculates the axis-aligned bounding box of a set of points.
// Returns (minX, minY, maxX, maxY).
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return minX, minY, maxX, maxY
}

// IsFinite reports whether both coordinates are finite numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
