package tools

import (
	"slices"
	"sort"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
)

type BrushOptions struct {
	Radius            float64
	ProbeRadius       float64
	SimplifyTolerance float64
	OverlapPrevention bool
	// FrameBounds returns the image bounds of a frame. Strokes are not
	// clipped when it is nil or reports false.
	FrameBounds func(frame int) (geometry.Box, bool)
}

// Brush paints the active polygon. A stroke that starts on the polygon
// grows it, one that starts off it (or with the alternate button) erases.
// The whole stroke is committed as one history entry when it ends.
type Brush struct {
	noGestures
	stack *Stack
	opts  BrushOptions

	stroking bool
	increase bool
	frame    int
	activeID string
	last     geometry.Point
	working  map[string]*geometry.Polygon
}

func NewBrush(stack *Stack, opts BrushOptions) *Brush {
	if opts.Radius <= 0 {
		opts.Radius = 10
	}
	if opts.ProbeRadius <= 0 {
		opts.ProbeRadius = 1
	}
	return &Brush{stack: stack, opts: opts}
}

func (b *Brush) Stroking() bool   { return b.stroking }
func (b *Brush) Increasing() bool { return b.increase }

// Preview returns the in-stroke shape of a polygon, or nil when the stroke
// has not touched it.
func (b *Brush) Preview(id string) *geometry.Polygon {
	return b.working[id]
}

func (b *Brush) OnPanStart(e Event) bool {
	data := b.stack.Data().Frame(e.Frame)
	active := data.ActivePolygon()
	if active == nil {
		return false
	}
	b.stroking = true
	b.frame = e.Frame
	b.activeID = data.ActivePolygonID
	b.working = map[string]*geometry.Polygon{b.activeID: active.Clone()}
	b.increase = b.chooseMode(active, e)
	b.stamp(e.Point, e.Point)
	return true
}

func (b *Brush) OnPan(e Event) bool {
	if !b.stroking {
		return false
	}
	if e.Point != b.last {
		b.stamp(b.last, e.Point)
	}
	return true
}

func (b *Brush) OnPanEnd(e Event) bool {
	if !b.stroking {
		return false
	}
	if e.Point != b.last {
		b.stamp(b.last, e.Point)
	}
	b.commit()
	b.stroking = false
	b.working = nil
	return true
}

func (b *Brush) chooseMode(active *geometry.Polygon, e Event) bool {
	if e.Alternate {
		return false
	}
	if active.IsEmpty() || active.IsInside(e.Point) {
		return true
	}
	probe := geometry.ApproxCircle(e.Point[0], e.Point[1], b.opts.ProbeRadius, geometry.DefaultCircleSegments)
	return active.Intersects(probe)
}

func (b *Brush) stamp(from, to geometry.Point) {
	shape := geometry.ApproxCircle(to[0], to[1], b.opts.Radius, geometry.DefaultCircleSegments)
	if capsule := geometry.Capsule(from, to, b.opts.Radius); capsule != nil {
		shape.Join(capsule)
	}
	active := b.working[b.activeID]
	if b.increase {
		active.Join(shape)
	} else {
		active.Subtract(shape)
	}
	if b.opts.FrameBounds != nil {
		if bounds, ok := b.opts.FrameBounds(b.frame); ok {
			active.ClipToBox(bounds)
		}
	}
	active.Simplify(b.opts.SimplifyTolerance)
	if b.increase && b.opts.OverlapPrevention {
		b.resolveOverlaps()
	}
	b.last = to
}

func (b *Brush) polygon(data *segmentation.Data, id string) *geometry.Polygon {
	if p, ok := b.working[id]; ok {
		return p
	}
	return data.GetPolygon(id)
}

// resolveOverlaps carves the active shape out of every neighbour it now
// covers. Candidates come from an R-tree of the other polygons' bounds.
func (b *Brush) resolveOverlaps() {
	active := b.working[b.activeID]
	if active.NumPoints() < 3 {
		return
	}
	data := b.stack.Data().Frame(b.frame)
	var index polygonIndex
	for _, e := range data.Entries() {
		if e.ID != b.activeID {
			index.insert(e.ID, b.polygon(data, e.ID))
		}
	}
	for _, id := range index.search(active.BoundingBox()) {
		neighbour := b.polygon(data, id)
		if !active.Intersects(neighbour) {
			continue
		}
		if _, ok := b.working[id]; !ok {
			neighbour = neighbour.Clone()
			b.working[id] = neighbour
		}
		neighbour.Subtract(active)
		neighbour.Simplify(b.opts.SimplifyTolerance)
	}
}

func (b *Brush) commit() {
	data := b.stack.Data().Frame(b.frame)
	ids := make([]string, 0, len(b.working))
	for id := range b.working {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var changes []action.Action[*segmentation.Collection]
	for _, id := range ids {
		points := b.working[id].Points
		if slices.Equal(points, data.GetPolygon(id).Points) {
			continue
		}
		changes = append(changes, segmentation.Local(b.frame, &segmentation.ChangePolygonPoints{
			PolygonID: id,
			Points:    append([]geometry.Point(nil), points...),
		}))
	}
	if len(changes) == 0 {
		return
	}
	b.stack.AddAction(action.Joint(changes...), true)
}
