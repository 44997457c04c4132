// Package geom provides the 2-D geometry primitives used by conflict
// detection: proper segment crossing tests and segment-rectangle
// intersection tests.
//
// All tests operate on layout units (the abstract coordinate space of the
// diagram), not on rendered pixels.
package geom

import "math"

// parallelEpsilon guards the parametric intersection solve against
// near-parallel segments. Below this determinant magnitude no meaningful
// crossing point exists.
const parallelEpsilon = 1e-4

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle with inclusive bounds.
// Min is the bottom-left corner and Max the top-right corner.
type Rect struct {
	Min Point
	Max Point
}

// RectAround returns the rectangle of the given width and height centered
// on p. Used to approximate a label's bounding box.
func RectAround(p Point, width, height float64) Rect {
	return Rect{
		Min: Point{X: p.X - width/2, Y: p.Y - height/2},
		Max: Point{X: p.X + width/2, Y: p.Y + height/2},
	}
}

// Contains reports whether p lies inside the rectangle, bounds inclusive.
func (r Rect) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X && r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// ccw reports whether the triangle a→b→c winds counter-clockwise.
// The inequality is strict: collinear points report false, so exactly
// touching segments follow whatever the strict test yields. This is a
// deliberate simplification, not a contract to special-case tangency.
func ccw(a, b, c Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// SegmentsIntersect reports whether the open segments p1-p2 and p3-p4
// properly cross. Two segments cross iff each segment's endpoints lie on
// opposite sides of the other segment's supporting line.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	return ccw(p1, p3, p4) != ccw(p2, p3, p4) && ccw(p1, p2, p3) != ccw(p1, p2, p4)
}

// IntersectionPoint solves for the crossing point of the lines through
// p1-p2 and p3-p4 using the standard two-line parametric solution. The
// second return value is false when the lines are near-parallel (the
// determinant magnitude falls below 1e-4), in which case the returned
// point is the zero value and must not be interpreted as a coordinate.
func IntersectionPoint(p1, p2, p3, p4 Point) (Point, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) <= parallelEpsilon {
		return Point{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	return Point{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}

// SegmentIntersectsRect reports whether the segment p1-p2 touches the
// rectangle: either endpoint lies inside (inclusive bounds), or the
// segment properly crosses one of the four edges.
func SegmentIntersectsRect(p1, p2 Point, r Rect) bool {
	if r.Contains(p1) || r.Contains(p2) {
		return true
	}

	corners := [4]Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
	for i := range corners {
		if SegmentsIntersect(p1, p2, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}
