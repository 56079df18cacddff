package segmentation

import (
	"testing"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrameManager(t *testing.T) *action.Manager[*Data] {
	t.Helper()
	m := action.NewManager(NewData())
	m.AddAction(&AddPolygon{ID: "sq", Polygon: geometry.Rectangle(0, 0, 10, 10)}, true)
	return m
}

func TestSelectPolygonCollapse(t *testing.T) {
	m := newFrameManager(t)
	m.AddAction(&SelectPolygon{NewID: "pre"}, true)
	m.AddAction(&AddEmptyPolygon{ID: "z"}, true)
	before := m.CurrentActionPointer()

	m.AddAction(&SelectPolygon{NewID: "x", OldID: "pre"}, true)
	m.AddAction(&SelectPolygon{NewID: "y", OldID: "x"}, true)
	assert.Equal(t, before+1, m.CurrentActionPointer())
	assert.Equal(t, "y", m.Data().ActivePolygonID)

	m.Undo()
	assert.Equal(t, "pre", m.Data().ActivePolygonID)
}

func TestMovePointJoin(t *testing.T) {
	dragged := newFrameManager(t)
	before := dragged.CurrentActionPointer()
	for _, p := range []geometry.Point{{1, 1}, {2, 2}, {3, 3}} {
		dragged.AddAction(&MovePoint{PolygonID: "sq", Index: 2, Point: p}, true)
	}
	assert.Equal(t, before+1, dragged.CurrentActionPointer())

	direct := newFrameManager(t)
	direct.AddAction(&MovePoint{PolygonID: "sq", Index: 2, Point: geometry.Pt(3, 3)}, true)
	assert.Equal(t, direct.Data().Polygons, dragged.Data().Polygons)

	dragged.AddAction(&MovePoint{PolygonID: "sq", Index: 1, Point: geometry.Pt(9, 1)}, true)
	assert.Equal(t, before+2, dragged.CurrentActionPointer(), "another vertex starts a new entry")
}

func TestPointActions(t *testing.T) {
	m := action.NewManager(NewData())
	m.AddAction(&AddEmptyPolygon{ID: "p", Color: "#abcdef", LabelID: 2}, true)
	m.AddAction(&AddPoint{PolygonID: "p", Index: 0, Point: geometry.Pt(0, 0)}, true)
	m.AddAction(&AddPoint{PolygonID: "p", Index: 1, Point: geometry.Pt(4, 0)}, true)
	m.AddAction(&AddPoint{PolygonID: "p", Index: 2, Point: geometry.Pt(4, 4)}, true)
	assert.Equal(t, 2, m.Data().ActivePointIndex)

	remove := &RemovePoint{PolygonID: "p", Index: 1}
	m.AddAction(remove, true)
	assert.Equal(t, geometry.Pt(4, 0), remove.Removed)
	assert.Equal(t, []geometry.Point{{0, 0}, {4, 4}}, m.Data().GetPolygon("p").Points)

	m.AddAction(&ChangePolygonPoints{PolygonID: "p", Points: []geometry.Point{{1, 1}, {2, 1}, {2, 2}}}, true)
	m.AddAction(&ChangePolygonLabel{PolygonID: "p", LabelID: 5}, true)
	assert.Equal(t, 5, m.Data().GetPolygonLabel("p"))

	m.Undo()
	m.Undo()
	assert.Equal(t, []geometry.Point{{0, 0}, {4, 4}}, m.Data().GetPolygon("p").Points)
	assert.Equal(t, 2, m.Data().GetPolygonLabel("p"))
	assert.Equal(t, "#abcdef", m.Data().GetPolygon("p").Color)
}

func TestAddPolygonIsolatedFromReplay(t *testing.T) {
	m := action.NewManager(NewData())
	add := &AddPolygon{ID: "p", Polygon: geometry.Rectangle(0, 0, 2, 2)}
	m.AddAction(add, true)
	m.AddAction(&MovePoint{PolygonID: "p", Index: 0, Point: geometry.Pt(-5, -5)}, true)
	m.Undo()

	assert.Equal(t, geometry.Pt(0, 0), m.Data().GetPolygon("p").Points[0])
	assert.Equal(t, geometry.Pt(0, 0), add.Polygon.Points[0])
}

func TestRemovePolygonRecordsRemoved(t *testing.T) {
	m := newFrameManager(t)
	remove := &RemovePolygon{PolygonID: "sq"}
	m.AddAction(remove, true)
	require.NotNil(t, remove.Removed)
	assert.InDelta(t, 100, remove.Removed.Area(), 1e-9)
	assert.False(t, m.Data().Contains("sq"))

	m.Undo()
	assert.True(t, m.Data().Contains("sq"))
}

func TestMissingPolygonPanics(t *testing.T) {
	d := NewData()
	assert.Panics(t, func() {
		(&AddPoint{PolygonID: "gone", Index: 0, Point: geometry.Pt(1, 1)}).Perform(d)
	})
}

func TestReplayDeterminism(t *testing.T) {
	m := action.NewManager(NewCollection())
	m.AddAction(Bootstrap(2, nil), true)
	steps := []action.Action[*Collection]{
		&AddLabel{Label: AnnotationLabel{ID: 2, Name: "Nucleus", Visible: true, Color: "#00ff00"}},
		Local(0, &AddPolygon{ID: "a", Polygon: geometry.Rectangle(0, 0, 5, 5), LabelID: 2}),
		Local(1, &AddPolygon{ID: "b", Polygon: geometry.Rectangle(2, 2, 5, 5)}),
		Local(0, &MovePoint{PolygonID: "a", Index: 0, Point: geometry.Pt(-1, -1)}),
		Local(0, &SelectPolygon{NewID: "a"}),
		&RenameLabel{LabelID: 2, Name: "Nuclei"},
		&ChangeLabelActivity{LabelID: 2, Active: true},
		Local(1, &RemovePolygon{PolygonID: "b"}),
	}
	for _, a := range steps {
		m.AddAction(a, true)
	}
	want := snapshot(m.Data())
	n := m.CurrentActionPointer()

	for i := 0; i < n; i++ {
		m.Undo()
	}
	assert.Equal(t, 1, m.CurrentActionPointer(), "bootstrap cannot be undone")
	for i := 0; i < n; i++ {
		m.Redo()
	}
	assert.Equal(t, want, snapshot(m.Data()))
}

type frameSnapshot struct {
	Polygons map[string]geometry.Polygon
	Labels   map[string]int
	Active   string
}

func snapshot(c *Collection) []any {
	out := []any{append([]AnnotationLabel(nil), c.Labels...)}
	for _, f := range c.Frames {
		s := frameSnapshot{Polygons: map[string]geometry.Polygon{}, Labels: map[string]int{}, Active: f.ActivePolygonID}
		for id, p := range f.Polygons {
			s.Polygons[id] = *p.Clone()
		}
		for id, l := range f.Labels {
			s.Labels[id] = l
		}
		out = append(out, s)
	}
	return out
}

func TestUnlabeledPolygonsSurviveLabelEdits(t *testing.T) {
	m := action.NewManager(NewCollection())
	m.AddAction(Bootstrap(1, nil), true)
	nucleus := AnnotationLabel{ID: m.Data().NextLabelID(), Name: "Nucleus", Visible: true}
	m.AddAction(&AddLabel{Label: nucleus}, true)
	m.AddAction(Local(0, &AddPolygon{ID: "u", Polygon: geometry.Rectangle(0, 0, 5, 5)}), true)
	placeholder := m.Data().Frame(0).ActivePolygonID

	m.AddAction(&MergeLabels{SourceID: FirstLabelID, TargetID: nucleus.ID}, true)
	f := m.Data().Frame(0)
	assert.Equal(t, 0, f.GetPolygonLabel("u"))
	assert.Equal(t, nucleus.ID, f.GetPolygonLabel(placeholder))

	m.Undo()
	m.AddAction(&RemoveLabel{LabelID: FirstLabelID}, true)
	f = m.Data().Frame(0)
	assert.True(t, f.Contains("u"))
	assert.False(t, f.Contains(placeholder))
}
