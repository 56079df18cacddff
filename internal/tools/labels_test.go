package tools

import (
	"context"
	"testing"

	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelRenameMerge(t *testing.T) {
	stack := newStack(t, 1)
	prompter := &fakePrompter{}
	le := NewLabelEditor(stack, prompter)
	id, err := le.Add("Nucleus", "#00ff00")
	require.NoError(t, err)
	stack.AddAction(segmentation.Local(0, &segmentation.AddPolygon{ID: "n", Polygon: geometry.Rectangle(0, 0, 1, 1), LabelID: id}), true)

	t.Run("declined", func(t *testing.T) {
		prompter.answer = false
		pointer := stack.CurrentActionPointer()
		require.NoError(t, le.Rename(context.Background(), id, segmentation.DefaultLabelName))
		assert.Len(t, prompter.asked, 1)
		assert.Equal(t, pointer, stack.CurrentActionPointer())
		assert.Len(t, stack.Data().Labels, 2)
	})

	t.Run("prompt error", func(t *testing.T) {
		prompter.err = errors.New("closed")
		defer func() { prompter.err = nil }()
		assert.Error(t, le.Rename(context.Background(), id, segmentation.DefaultLabelName))
		assert.Len(t, stack.Data().Labels, 2)
	})

	t.Run("accepted", func(t *testing.T) {
		prompter.answer = true
		require.NoError(t, le.Rename(context.Background(), id, segmentation.DefaultLabelName))
		c := stack.Data()
		assert.Len(t, c.Labels, 1)
		assert.Equal(t, segmentation.FirstLabelID, c.Frame(0).GetPolygonLabel("n"))
	})
}

func TestLabelEditor(t *testing.T) {
	stack := newStack(t, 1)
	le := NewLabelEditor(stack, &fakePrompter{})

	id, err := le.Add("Debris", "")
	require.NoError(t, err)
	_, err = le.Add("Debris", "")
	assert.ErrorIs(t, err, ErrLabelExists)

	require.NoError(t, le.Rename(context.Background(), id, "Dust"))
	require.NoError(t, le.Activate(id))
	require.NoError(t, le.ToggleVisibility(id))
	require.NoError(t, le.SetColor(id, "#abcdef"))

	l, ok := stack.Data().Label(id)
	require.True(t, ok)
	assert.Equal(t, segmentation.AnnotationLabel{ID: id, Name: "Dust", Visible: false, Color: "#abcdef", Active: true}, *l)

	require.NoError(t, le.Remove(segmentation.FirstLabelID))
	assert.ErrorIs(t, le.Remove(id), ErrLastLabel)
	assert.ErrorIs(t, le.Activate(42), ErrUnknownLabel)
}

func TestDispatcherShortCircuits(t *testing.T) {
	stack := newStack(t, 1)
	addPolygon(stack, 0, "a", geometry.Rectangle(0, 0, 10, 10))
	sel := NewMultiSelect(stack)
	tr := NewManualTracker(stack, newTracks(), &fakePrompter{})
	d := NewDispatcher(tr, sel)

	assert.True(t, d.Tap(ev(0, 5, 5)), "tracker handles a tap on a polygon")
	assert.False(t, d.Pan(ev(0, 1, 1)), "no pan in progress")
	assert.True(t, d.PanStart(ev(0, 0, 0)), "multi-select takes the pan the tracker ignores")
	assert.True(t, d.PanEnd(ev(0, 20, 20)))
	assert.Equal(t, []string{"a"}, sel.Selected())
}
