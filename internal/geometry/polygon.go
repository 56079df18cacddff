package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// Polygon is a closed ring of points with a display color. The edge from
// the last point back to the first is implicit. A polygon with no points is
// a valid placeholder for a shape that has not been drawn yet.
type Polygon struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
}

// DistanceInfo locates the vertex or edge nearest to a query point.
// Index is -1 when the polygon has nothing to measure against.
type DistanceInfo struct {
	Index    int
	Distance float64
}

func NewPolygon(color string, points ...Point) *Polygon {
	return &Polygon{Points: append([]Point(nil), points...), Color: color}
}

func (p *Polygon) Clone() *Polygon {
	return NewPolygon(p.Color, p.Points...)
}

func (p *Polygon) NumPoints() int {
	return len(p.Points)
}

func (p *Polygon) IsEmpty() bool {
	return len(p.Points) == 0
}

// Centroid is the arithmetic mean of the vertices.
func (p *Polygon) Centroid() Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	var c Point
	for _, pt := range p.Points {
		c = c.Add(pt)
	}
	return c.Scale(1 / float64(len(p.Points)))
}

// Area is the absolute shoelace area of the ring.
func (p *Polygon) Area() float64 {
	return ringArea(p.Points)
}

func (p *Polygon) BoundingBox() Box {
	return boxOf(p.Points)
}

// IsInside reports whether pt lies inside the polygon using ray casting.
// Polygons with fewer than three points contain nothing.
func (p *Polygon) IsInside(pt Point) bool {
	if len(p.Points) < 3 {
		return false
	}
	return planar.RingContains(toRing(p.Points), pt.orb())
}

// ClosestPointDistanceInfo returns the vertex nearest to pt.
func (p *Polygon) ClosestPointDistanceInfo(pt Point) DistanceInfo {
	info := DistanceInfo{Index: -1, Distance: math.Inf(1)}
	for i, v := range p.Points {
		if d := v.Dist(pt); d < info.Distance {
			info = DistanceInfo{Index: i, Distance: d}
		}
	}
	return info
}

// DistanceToOuterShape returns the edge nearest to pt. Edge i runs from
// vertex i to vertex i+1, wrapping around to the first vertex.
func (p *Polygon) DistanceToOuterShape(pt Point) DistanceInfo {
	info := DistanceInfo{Index: -1, Distance: math.Inf(1)}
	n := len(p.Points)
	if n < 2 {
		return info
	}
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		if d := planar.DistanceFromSegment(a.orb(), b.orb(), pt.orb()); d < info.Distance {
			info = DistanceInfo{Index: i, Distance: d}
		}
	}
	return info
}

// SetPoints replaces the vertex list with a copy of points.
func (p *Polygon) SetPoints(points []Point) {
	p.Points = append([]Point(nil), points...)
}

// AddPoint inserts pt so that it ends up at position index.
func (p *Polygon) AddPoint(index int, pt Point) {
	p.Points = append(p.Points, Point{})
	copy(p.Points[index+1:], p.Points[index:])
	p.Points[index] = pt
}

// RemovePoint deletes the vertex at index and returns it.
func (p *Polygon) RemovePoint(index int) Point {
	removed := p.Points[index]
	p.Points = append(p.Points[:index], p.Points[index+1:]...)
	return removed
}

func (p *Polygon) SetPoint(index int, pt Point) {
	p.Points[index] = pt
}

// Simplify runs Douglas-Peucker over the ring. Results that would no longer
// form a polygon are discarded.
func (p *Polygon) Simplify(tolerance float64) {
	if tolerance <= 0 || len(p.Points) < 4 {
		return
	}
	ring := simplify.DouglasPeucker(tolerance).Ring(closedRing(p.Points))
	points := fromRing(ring)
	if len(points) < 3 {
		return
	}
	p.Points = points
}

// ClipToBox drops every part of the polygon outside b.
func (p *Polygon) ClipToBox(b Box) {
	if len(p.Points) < 3 || b.IsZero() {
		return
	}
	ring := clip.Ring(b.bound, closedRing(p.Points))
	points := fromRing(ring)
	if len(points) < 3 || ringArea(points) == 0 {
		p.Points = nil
		return
	}
	p.Points = points
}

func toRing(points []Point) orb.Ring {
	ring := make(orb.Ring, len(points))
	for i, pt := range points {
		ring[i] = pt.orb()
	}
	return ring
}

func closedRing(points []Point) orb.Ring {
	ring := toRing(points)
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

func fromRing(ring orb.Ring) []Point {
	if len(ring) > 1 && ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	if len(ring) == 0 {
		return nil
	}
	points := make([]Point, len(ring))
	for i, pt := range ring {
		points[i] = Point(pt)
	}
	return points
}

func ringArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	return math.Abs(planar.Area(toRing(points)))
}

func signedArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	return planar.Area(toRing(points))
}
