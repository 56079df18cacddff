package geometry

import (
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Point is a 2D coordinate, encoded in JSON as [x, y].
type Point [2]float64

// Pt builds a Point from its coordinates.
func Pt(x, y float64) Point {
	return Point{x, y}
}

func (p Point) X() float64 { return p[0] }
func (p Point) Y() float64 { return p[1] }

func (p Point) Add(o Point) Point {
	return Point{p[0] + o[0], p[1] + o[1]}
}

func (p Point) Sub(o Point) Point {
	return Point{p[0] - o[0], p[1] - o[1]}
}

func (p Point) Scale(f float64) Point {
	return Point{p[0] * f, p[1] * f}
}

// Dist returns the Euclidean distance between p and o.
func (p Point) Dist(o Point) float64 {
	return math.Hypot(p[0]-o[0], p[1]-o[1])
}

func (p Point) orb() orb.Point {
	return orb.Point(p)
}

// NewID returns a fresh opaque identifier for a polygon.
func NewID() string {
	return uuid.NewString()
}
