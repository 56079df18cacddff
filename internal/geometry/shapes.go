package geometry

import "math"

// DefaultCircleSegments is the vertex count used for brush stamps.
const DefaultCircleSegments = 10

// Rectangle builds the four corner polygon at (x, y) with size w by h.
func Rectangle(x, y, w, h float64) *Polygon {
	return NewPolygon("", Pt(x, y), Pt(x+w, y), Pt(x+w, y+h), Pt(x, y+h))
}

// ApproxCircle builds a regular polygon approximating a disc.
func ApproxCircle(cx, cy, radius float64, segments int) *Polygon {
	if segments < 3 {
		segments = DefaultCircleSegments
	}
	points := make([]Point, segments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = Pt(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	}
	return NewPolygon("", points...)
}

// Capsule returns the rotated rectangle joining two circles of the given
// radius centred at a and b, or nil when the centres coincide.
func Capsule(a, b Point, radius float64) *Polygon {
	d := b.Sub(a)
	l := math.Hypot(d[0], d[1])
	if l == 0 {
		return nil
	}
	n := Pt(-d[1]/l, d[0]/l).Scale(radius)
	return NewPolygon("", a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}
