package tools

import (
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
)

type EditorOptions struct {
	// GrabDistance is how close a pointer must be to a vertex or an edge
	// to pick it up.
	GrabDistance float64
}

// PolygonEditor edits the vertices of the active polygon.
//
// A tap inside another polygon selects it. Otherwise a tap adds a vertex,
// into the edge under the pointer when there is one or after the active
// vertex when there is not. An alternate tap on a vertex deletes it. A pan
// that starts on a vertex drags it; one that starts on an edge inserts a
// vertex there first.
type PolygonEditor struct {
	noGestures
	stack *Stack
	opts  EditorOptions

	dragging  bool
	recording bool
	frame     int
	polygonID string
	index     int
}

func NewPolygonEditor(stack *Stack, opts EditorOptions) *PolygonEditor {
	if opts.GrabDistance <= 0 {
		opts.GrabDistance = 5
	}
	return &PolygonEditor{stack: stack, opts: opts}
}

func (ed *PolygonEditor) OnTap(e Event) bool {
	data := ed.stack.Data().Frame(e.Frame)
	activeID := data.ActivePolygonID
	active := data.ActivePolygon()

	if hit, ok := hitTest(data, e.Point); ok && hit != activeID && !ed.onBoundary(active, e.Point) {
		ed.stack.AddAction(segmentation.Local(e.Frame, &segmentation.SelectPolygon{NewID: hit, OldID: activeID}), true)
		return true
	}
	if active == nil {
		return false
	}

	if e.Alternate {
		v := active.ClosestPointDistanceInfo(e.Point)
		if v.Index < 0 || v.Distance > ed.opts.GrabDistance {
			return false
		}
		ed.stack.AddAction(segmentation.Local(e.Frame, &segmentation.RemovePoint{PolygonID: activeID, Index: v.Index}), true)
		return true
	}

	ed.stack.AddAction(segmentation.Local(e.Frame, &segmentation.AddPoint{
		PolygonID: activeID,
		Index:     ed.insertionIndex(data, active, e.Point),
		Point:     e.Point,
	}), true)
	return true
}

func (ed *PolygonEditor) onBoundary(p *geometry.Polygon, pt geometry.Point) bool {
	if p == nil || p.NumPoints() < 2 {
		return false
	}
	return p.DistanceToOuterShape(pt).Distance <= ed.opts.GrabDistance
}

func (ed *PolygonEditor) insertionIndex(data *segmentation.Data, p *geometry.Polygon, pt geometry.Point) int {
	n := p.NumPoints()
	if n >= 3 {
		if edge := p.DistanceToOuterShape(pt); edge.Distance <= ed.opts.GrabDistance {
			return edge.Index + 1
		}
	}
	if n == 0 {
		return 0
	}
	return min(data.ActivePointIndex+1, n)
}

func (ed *PolygonEditor) OnPanStart(e Event) bool {
	data := ed.stack.Data().Frame(e.Frame)
	active := data.ActivePolygon()
	if active == nil || active.IsEmpty() {
		return false
	}
	ed.frame = e.Frame
	ed.polygonID = data.ActivePolygonID

	if v := active.ClosestPointDistanceInfo(e.Point); v.Distance <= ed.opts.GrabDistance {
		ed.index = v.Index
		ed.dragging = true
		return true
	}
	if active.NumPoints() < 2 {
		return false
	}
	edge := active.DistanceToOuterShape(e.Point)
	if edge.Distance > ed.opts.GrabDistance {
		return false
	}
	ed.stack.RecordActions()
	ed.recording = true
	ed.index = edge.Index + 1
	ed.dragging = true
	ed.stack.AddAction(segmentation.Local(e.Frame, &segmentation.AddPoint{PolygonID: ed.polygonID, Index: ed.index, Point: e.Point}), true)
	return true
}

func (ed *PolygonEditor) OnPan(e Event) bool {
	if !ed.dragging {
		return false
	}
	ed.move(e.Point)
	return true
}

func (ed *PolygonEditor) OnPanEnd(e Event) bool {
	if !ed.dragging {
		return false
	}
	ed.move(e.Point)
	if ed.recording {
		ed.stack.MergeRecordedActions()
	}
	ed.dragging = false
	ed.recording = false
	return true
}

func (ed *PolygonEditor) move(pt geometry.Point) {
	p := ed.stack.Data().Frame(ed.frame).GetPolygon(ed.polygonID)
	if p == nil || ed.index >= p.NumPoints() || p.Points[ed.index] == pt {
		return
	}
	ed.stack.AddAction(segmentation.Local(ed.frame, &segmentation.MovePoint{PolygonID: ed.polygonID, Index: ed.index, Point: pt}), true)
}
