package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Box is an axis aligned bounding box.
type Box struct {
	bound orb.Bound
}

// NewBox returns the box spanning both corners, in any order.
func NewBox(a, b Point) Box {
	return Box{bound: orb.Bound{
		Min: orb.Point{math.Min(a[0], b[0]), math.Min(a[1], b[1])},
		Max: orb.Point{math.Max(a[0], b[0]), math.Max(a[1], b[1])},
	}}
}

// Bounds returns the box covering an image of the given size.
func Bounds(width, height float64) Box {
	return NewBox(Pt(0, 0), Pt(width, height))
}

func boxOf(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := orb.Bound{Min: points[0].orb(), Max: points[0].orb()}
	for _, p := range points[1:] {
		b = b.Extend(p.orb())
	}
	return Box{bound: b}
}

func (b Box) Min() [2]float64 { return b.bound.Min }
func (b Box) Max() [2]float64 { return b.bound.Max }

func (b Box) Width() float64  { return b.bound.Max[0] - b.bound.Min[0] }
func (b Box) Height() float64 { return b.bound.Max[1] - b.bound.Min[1] }

// IsZero reports whether the box has no extent at all.
func (b Box) IsZero() bool {
	return b.Width() <= 0 && b.Height() <= 0
}

func (b Box) Contains(p Point) bool {
	return b.bound.Contains(p.orb())
}

func (b Box) Intersects(o Box) bool {
	return b.bound.Intersects(o.bound)
}

// Polygon returns the box as a rectangle polygon.
func (b Box) Polygon() *Polygon {
	return Rectangle(b.bound.Min[0], b.bound.Min[1], b.Width(), b.Height())
}
