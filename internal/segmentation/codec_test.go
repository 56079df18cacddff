package segmentation

import (
	"encoding/json"
	"testing"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRoundTrip(t *testing.T) {
	m := action.NewManager(NewCollection())
	m.AddAction(Bootstrap(2, []AnnotationLabel{
		{ID: 0, Name: "Cell", Visible: true, Color: RandomColor, Active: true},
		{ID: 1, Name: "Debris", Visible: false, Color: "#ff0000"},
	}), true)
	m.AddAction(action.Joint[*Collection](
		Local(0, &AddPolygon{ID: "a", Polygon: geometry.NewPolygon("#010203", geometry.Pt(0, 0), geometry.Pt(3, 0), geometry.Pt(3, 3)), LabelID: 1}),
		Local(0, &SelectPolygon{NewID: "a"}),
	), true)
	m.AddAction(Local(0, &AddPoint{PolygonID: "a", Index: 3, Point: geometry.Pt(0, 3)}), true)
	m.AddAction(Local(0, &MovePoint{PolygonID: "a", Index: 3, Point: geometry.Pt(-1, 3)}), true)
	m.AddAction(Local(0, &RemovePoint{PolygonID: "a", Index: 0}), true)
	m.AddAction(Local(0, &ChangePolygonPoints{PolygonID: "a", Points: []geometry.Point{{0, 0}, {1, 0}, {1, 1}}}), true)
	m.AddAction(Local(0, &ChangePolygonLabel{PolygonID: "a", LabelID: 0}), true)
	m.AddAction(&ChangeLabelVisibility{LabelID: 1, Visible: true}, true)
	m.AddAction(&ChangeLabelColor{LabelID: 1, Color: "#00ff00"}, true)
	m.AddAction(&AddLabel{Label: AnnotationLabel{ID: 2, Name: "Dup"}}, true)
	m.AddAction(&MergeLabels{SourceID: 2, TargetID: 1}, true)
	m.AddAction(&AddFrame{}, true)
	m.AddAction(&RemoveLabel{LabelID: 1}, true)
	m.AddAction(Local(2, &AddEmptyPolygon{ID: "e", Color: "#111111"}), true)
	m.AddAction(Local(1, &RemovePolygon{PolygonID: "missing"}), true)
	m.Undo()

	data, err := action.MarshalLog(m, Codec{})
	require.NoError(t, err)

	restored := action.NewManager(NewCollection())
	require.NoError(t, action.UnmarshalLog(data, Codec{}, restored))
	assert.Equal(t, snapshot(m.Data()), snapshot(restored.Data()))
	assert.Equal(t, m.CurrentActionPointer(), restored.CurrentActionPointer())
	assert.Len(t, restored.Actions(), len(m.Actions()))

	again, err := action.MarshalLog(restored, Codec{})
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestLocalActionEncoding(t *testing.T) {
	b, err := action.MarshalAction[*Collection](Codec{}, Local(3, &MovePoint{PolygonID: "p", Index: 1, Point: geometry.Pt(2, 5)}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "LocalAction",
		"frame": 3,
		"action": {"type": "MovePointAction", "polygonId": "p", "index": 1, "point": [2, 5]}
	}`, string(b))
}

func TestRemovedFieldsAreNotPersisted(t *testing.T) {
	remove := &RemovePolygon{PolygonID: "p", Removed: geometry.Rectangle(0, 0, 1, 1)}
	b, err := action.MarshalAction[*Data](FrameCodec{}, remove)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.NotContains(t, fields, "Removed")
	assert.Len(t, fields, 2)
}

func TestCodecRejectsUnknownKinds(t *testing.T) {
	_, err := FrameCodec{}.UnmarshalKind("Teleport", []byte(`{}`))
	assert.True(t, errors.Is(err, action.ErrUnknownKind))

	_, err = Codec{}.UnmarshalKind(KindLocal, []byte(`{"type":"LocalAction","frame":0,"action":{"type":"AddFrame"}}`))
	assert.True(t, errors.Is(err, action.ErrUnknownKind), "stack kinds are not frame kinds")

	_, err = FrameCodec{}.UnmarshalKind(KindAddPolygon, []byte(`{"type":"AddPolygon","id":"x"}`))
	assert.Error(t, err)
}

func TestBootstrap(t *testing.T) {
	m := action.NewManager(NewCollection())
	m.AddAction(Bootstrap(3, nil), true)

	c := m.Data()
	require.Equal(t, 3, c.NumFrames())
	require.Len(t, c.Labels, 1)
	assert.Equal(t, DefaultLabelName, c.Labels[0].Name)
	assert.Equal(t, FirstLabelID, c.Labels[0].ID)
	for i := 0; i < 3; i++ {
		f := c.Frame(i)
		id, ok := f.GetEmptyPolygonID()
		require.True(t, ok)
		assert.Equal(t, id, f.ActivePolygonID)
		assert.Equal(t, FirstLabelID, f.GetPolygonLabel(id))
	}
	assert.False(t, m.CanUndo())
	assert.Panics(t, func() { c.Frame(3) })
}

func TestLabelActions(t *testing.T) {
	m := action.NewManager(NewCollection())
	m.AddAction(Bootstrap(1, []AnnotationLabel{
		{ID: 0, Name: "Cell", Active: true},
		{ID: 1, Name: "Debris"},
	}), true)
	m.AddAction(Local(0, &AddPolygon{ID: "a", Polygon: geometry.Rectangle(0, 0, 1, 1), LabelID: 1}), true)
	m.AddAction(Local(0, &AddPolygon{ID: "b", Polygon: geometry.Rectangle(2, 2, 1, 1), LabelID: 0}), true)

	m.AddAction(&ChangeLabelActivity{LabelID: 1, Active: true}, true)
	assert.Equal(t, 1, m.Data().ActiveLabelID())
	assert.False(t, m.Data().Labels[0].Active)

	m.AddAction(&MergeLabels{SourceID: 1, TargetID: 0}, true)
	c := m.Data()
	assert.Len(t, c.Labels, 1)
	assert.Equal(t, 0, c.Frame(0).GetPolygonLabel("a"))
	assert.True(t, c.Labels[0].Active, "merging the active label activates the target")

	m.Undo()
	m.AddAction(&RemoveLabel{LabelID: 1}, true)
	c = m.Data()
	assert.False(t, c.Frame(0).Contains("a"))
	assert.True(t, c.Frame(0).Contains("b"))
	assert.Equal(t, 0, c.ActiveLabelID())

	assert.Panics(t, func() { (&RenameLabel{LabelID: 9, Name: "x"}).Perform(c) })
}
