package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() *Polygon {
	return NewPolygon("#ff0000", Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
}

func TestSquareAndInnerCircle(t *testing.T) {
	p := square()
	require.InDelta(t, 100, p.Area(), 1e-9)

	circle := ApproxCircle(5, 5, 2, DefaultCircleSegments)
	p.Join(circle)
	assert.InDelta(t, 100, p.Area(), 1e-9)

	p.Subtract(circle)
	assert.InDelta(t, 100-math.Pi*4, p.Area(), 1.0)
	assert.False(t, p.IsInside(Pt(5, 5.3)))
	assert.True(t, p.IsInside(Pt(1, 1)))
}

func TestSubtractSelf(t *testing.T) {
	p := square()
	p.Subtract(square())
	assert.Empty(t, p.Points)
}

func TestJoinEmptyAdoptsOther(t *testing.T) {
	p := NewPolygon("#00ff00")
	other := square()
	p.Join(other)
	assert.Equal(t, other.Points, p.Points)
	assert.Equal(t, "#00ff00", p.Color)

	other.SetPoint(0, Pt(-1, -1))
	assert.Equal(t, Pt(0, 0), p.Points[0], "join must copy points")
}

func TestJoinGrowsArea(t *testing.T) {
	p := square()
	p.Join(Rectangle(5, 0, 10, 10))
	assert.InDelta(t, 150, p.Area(), 1e-6)
}

func TestJoinDisjointKeepsPolygon(t *testing.T) {
	p := square()
	p.Join(Rectangle(20, 20, 2, 2))
	assert.InDelta(t, 100, p.Area(), 1e-9)
}

func TestSubtractKeepsLargestPiece(t *testing.T) {
	p := Rectangle(0, 0, 10, 10)
	p.Subtract(Rectangle(2, -1, 1, 12))
	assert.InDelta(t, 70, p.Area(), 1e-6)
	assert.True(t, p.IsInside(Pt(6, 5)))
	assert.False(t, p.IsInside(Pt(1, 5)))
}

func TestIntersects(t *testing.T) {
	p := square()
	assert.True(t, p.Intersects(Rectangle(5, 5, 10, 10)))
	assert.False(t, p.Intersects(Rectangle(11, 11, 2, 2)))
	assert.False(t, p.Intersects(NewPolygon("")))
}

func TestCentroidIsInsideConvexPolygons(t *testing.T) {
	shapes := map[string]*Polygon{
		"square":   square(),
		"triangle": NewPolygon("", Pt(0, 0), Pt(4, 0), Pt(0, 3)),
		"circle":   ApproxCircle(-3, 7, 5, 17),
		"capsule":  Capsule(Pt(0, 0), Pt(10, 4), 2),
	}
	for name, p := range shapes {
		t.Run(name, func(t *testing.T) {
			assert.True(t, p.IsInside(p.Centroid()))
		})
	}
}

func TestIsInsideNeedsThreePoints(t *testing.T) {
	p := NewPolygon("", Pt(0, 0), Pt(1, 1))
	assert.False(t, p.IsInside(Pt(0.5, 0.5)))
}

func TestDistanceQueries(t *testing.T) {
	p := square()

	info := p.ClosestPointDistanceInfo(Pt(9, 11))
	assert.Equal(t, 2, info.Index)
	assert.InDelta(t, math.Sqrt2, info.Distance, 1e-9)

	edge := p.DistanceToOuterShape(Pt(5, -2))
	assert.Equal(t, 0, edge.Index)
	assert.InDelta(t, 2, edge.Distance, 1e-9)

	edge = p.DistanceToOuterShape(Pt(-1, 5))
	assert.Equal(t, 3, edge.Index, "closing edge runs from the last vertex to the first")
	assert.InDelta(t, 1, edge.Distance, 1e-9)

	empty := NewPolygon("")
	assert.Equal(t, -1, empty.ClosestPointDistanceInfo(Pt(0, 0)).Index)
	assert.Equal(t, -1, empty.DistanceToOuterShape(Pt(0, 0)).Index)
}

func TestVertexMutation(t *testing.T) {
	p := NewPolygon("", Pt(0, 0), Pt(2, 0))
	p.AddPoint(1, Pt(1, 0))
	p.AddPoint(3, Pt(2, 2))
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 0}, {2, 2}}, p.Points)

	removed := p.RemovePoint(1)
	assert.Equal(t, Pt(1, 0), removed)
	p.SetPoint(0, Pt(-1, -1))
	assert.Equal(t, []Point{{-1, -1}, {2, 0}, {2, 2}}, p.Points)
}

func TestSimplifyDropsCollinearPoints(t *testing.T) {
	p := NewPolygon("", Pt(0, 0), Pt(5, 0.01), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	p.Simplify(0.1)
	assert.Len(t, p.Points, 4)
	assert.InDelta(t, 100, p.Area(), 0.1)
}

func TestClipToBox(t *testing.T) {
	p := Rectangle(-5, -5, 10, 10)
	p.ClipToBox(Bounds(20, 20))
	assert.InDelta(t, 25, p.Area(), 1e-9)

	outside := Rectangle(30, 30, 5, 5)
	outside.ClipToBox(Bounds(20, 20))
	assert.Empty(t, outside.Points)
}

func TestCapsule(t *testing.T) {
	c := Capsule(Pt(0, 0), Pt(10, 0), 2)
	require.NotNil(t, c)
	assert.InDelta(t, 40, c.Area(), 1e-9)
	assert.Nil(t, Capsule(Pt(1, 1), Pt(1, 1), 2))
}

func TestBox(t *testing.T) {
	b := NewBox(Pt(10, 0), Pt(0, 5))
	assert.Equal(t, [2]float64{0, 0}, b.Min())
	assert.Equal(t, [2]float64{10, 5}, b.Max())
	assert.True(t, b.Contains(Pt(3, 3)))
	assert.True(t, b.Intersects(square().BoundingBox()))
	assert.False(t, b.Intersects(NewBox(Pt(11, 11), Pt(12, 12))))
}
