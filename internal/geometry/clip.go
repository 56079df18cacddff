package geometry

import (
	"log"
	"math"
	"sort"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

const epsilon = 1e-9

// Join unions other into p. An empty p adopts other's points. Otherwise the
// largest region of the union replaces p, but only when it grows the area.
// On failure p is left untouched.
func (p *Polygon) Join(other *Polygon) {
	if other == nil || len(other.Points) == 0 {
		return
	}
	if len(p.Points) == 0 {
		p.SetPoints(other.Points)
		return
	}
	result, err := construct(polyclip.UNION, p.Points, other.Points)
	if err != nil {
		log.Printf("geometry: join failed, keeping polygon: %v", err)
		return
	}
	points, area := largestRegion(result)
	if len(points) < 3 || area <= p.Area() {
		return
	}
	p.Points = points
}

// Subtract removes other from p and keeps the largest remaining region. When
// the operation fails or leaves nothing, p becomes empty.
func (p *Polygon) Subtract(other *Polygon) {
	if len(p.Points) == 0 || other == nil || len(other.Points) < 3 {
		return
	}
	result, err := construct(polyclip.DIFFERENCE, p.Points, other.Points)
	if err != nil {
		log.Printf("geometry: subtract failed, clearing polygon: %v", err)
		p.Points = nil
		return
	}
	points, area := largestRegion(result)
	if len(points) < 3 || area == 0 {
		log.Printf("geometry: subtract left an empty polygon")
		p.Points = nil
		return
	}
	p.Points = points
}

// Intersects reports whether the interiors of p and other overlap.
func (p *Polygon) Intersects(other *Polygon) bool {
	if other == nil || len(p.Points) < 3 || len(other.Points) < 3 {
		return false
	}
	if !p.BoundingBox().Intersects(other.BoundingBox()) {
		return false
	}
	result, err := construct(polyclip.INTERSECTION, p.Points, other.Points)
	if err != nil {
		log.Printf("geometry: intersection failed: %v", err)
		return false
	}
	_, area := largestRegion(result)
	return area > 0
}

func toContour(points []Point) polyclip.Contour {
	c := make(polyclip.Contour, len(points))
	for i, pt := range points {
		c[i] = polyclip.Point{X: pt[0], Y: pt[1]}
	}
	return c
}

func fromContour(c polyclip.Contour) []Point {
	points := make([]Point, len(c))
	for i, pt := range c {
		points[i] = Point{pt.X, pt.Y}
	}
	return points
}

func construct(op polyclip.Op, subject, clipping []Point) (result polyclip.Polygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("polygon clipping panicked: %v", r)
		}
	}()
	s := polyclip.Polygon{toContour(subject)}
	c := polyclip.Polygon{toContour(clipping)}
	return s.Construct(op, c), nil
}

type region struct {
	outer []Point
	holes [][]Point
	area  float64
}

// largestRegion groups the contours of a clipping result into outer rings
// and their holes by nesting depth, then returns the region with the largest
// net area as a single ring. Holes are bridged into the outer ring.
func largestRegion(result polyclip.Polygon) ([]Point, float64) {
	rings := make([][]Point, 0, len(result))
	for _, c := range result {
		if len(c) >= 3 {
			rings = append(rings, fromContour(c))
		}
	}
	if len(rings) == 0 {
		return nil, 0
	}

	depth := make([]int, len(rings))
	parent := make([]int, len(rings))
	for i := range rings {
		parent[i] = -1
		parentArea := math.Inf(1)
		for j := range rings {
			if i == j || !ringContainsRing(rings[j], rings[i]) {
				continue
			}
			depth[i]++
			if a := ringArea(rings[j]); a < parentArea {
				parentArea = a
				parent[i] = j
			}
		}
	}

	regions := map[int]*region{}
	for i, ring := range rings {
		if depth[i]%2 == 0 {
			regions[i] = &region{outer: ring, area: ringArea(ring)}
		}
	}
	for i, ring := range rings {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			if r, ok := regions[parent[i]]; ok {
				r.holes = append(r.holes, ring)
				r.area -= ringArea(ring)
			}
		}
	}

	keys := make([]int, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	var best *region
	for _, k := range keys {
		if r := regions[k]; best == nil || r.area > best.area {
			best = r
		}
	}
	if best == nil || best.area <= 0 {
		return nil, 0
	}
	return bridgeHoles(best.outer, best.holes), best.area
}

func ringContainsRing(outer, inner []Point) bool {
	if ringArea(outer) <= ringArea(inner) {
		return false
	}
	ring := toRing(outer)
	for _, pt := range inner {
		if !onRing(outer, pt) {
			return ringContainsPoint(ring, pt)
		}
	}
	return false
}

func onRing(ring []Point, pt Point) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		if planar.DistanceFromSegment(ring[i].orb(), ring[(i+1)%n].orb(), pt.orb()) < epsilon {
			return true
		}
	}
	return false
}

func ringContainsPoint(ring orb.Ring, pt Point) bool {
	return planar.RingContains(ring, pt.orb())
}

// bridgeHoles cuts each hole into the outer ring through a zero-width
// corridor so the result is one ring whose area excludes the holes.
func bridgeHoles(outer []Point, holes [][]Point) []Point {
	ring := append([]Point(nil), outer...)
	if signedArea(ring) < 0 {
		reverse(ring)
	}
	for _, hole := range holes {
		h := append([]Point(nil), hole...)
		if signedArea(h) > 0 {
			reverse(h)
		}
		bi, bj := 0, 0
		best := math.Inf(1)
		for i, a := range ring {
			for j, b := range h {
				if d := a.Dist(b); d < best {
					best, bi, bj = d, i, j
				}
			}
		}
		spliced := make([]Point, 0, len(ring)+len(h)+2)
		spliced = append(spliced, ring[:bi+1]...)
		for k := 0; k <= len(h); k++ {
			spliced = append(spliced, h[(bj+k)%len(h)])
		}
		spliced = append(spliced, ring[bi:]...)
		ring = spliced
	}
	return ring
}

func reverse(points []Point) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
