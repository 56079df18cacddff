package tools

import (
	"testing"

	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiSelect(t *testing.T) {
	stack := newStack(t, 1)
	addPolygon(stack, 0, "a", geometry.Rectangle(0, 0, 10, 10))
	addPolygon(stack, 0, "b", geometry.Rectangle(20, 0, 10, 10))
	addPolygon(stack, 0, "c", geometry.Rectangle(60, 60, 10, 10))
	sel := NewMultiSelect(stack)
	d := NewDispatcher(sel)

	require.True(t, d.Drag(0, path([2]float64{-1, -1}, [2]float64{20, 20}, [2]float64{27, 12}), false))
	assert.Equal(t, []string{"a", "b"}, sel.Selected())

	t.Run("relabel", func(t *testing.T) {
		require.True(t, sel.RelabelSelected(7))
		assert.Equal(t, 7, stack.Data().Frame(0).GetPolygonLabel("b"))
		stack.Undo()
		assert.Equal(t, 0, stack.Data().Frame(0).GetPolygonLabel("b"))
	})

	t.Run("delete", func(t *testing.T) {
		before := stack.CurrentActionPointer()
		require.True(t, sel.DeleteSelected())
		assert.Equal(t, before+1, stack.CurrentActionPointer())
		data := stack.Data().Frame(0)
		assert.False(t, data.Contains("a"))
		assert.False(t, data.Contains("b"))
		assert.True(t, data.Contains("c"))
		assert.Empty(t, sel.Selected())
		assert.False(t, sel.DeleteSelected())

		stack.Undo()
		assert.True(t, stack.Data().Frame(0).Contains("a"))
	})
}

func TestMultiSelectDeletingActivePolygon(t *testing.T) {
	stack := newStack(t, 1)
	placeholder := stack.Data().Frame(0).ActivePolygonID
	addPolygon(stack, 0, "a", geometry.Rectangle(0, 0, 10, 10))
	selectPolygon(stack, 0, "a")
	sel := NewMultiSelect(stack)

	NewDispatcher(sel).Drag(0, path([2]float64{-1, -1}, [2]float64{11, 11}), false)
	require.True(t, sel.DeleteSelected())
	assert.Equal(t, placeholder, stack.Data().Frame(0).ActivePolygonID, "the empty placeholder is reused")
}

func TestMultiSelectTapClears(t *testing.T) {
	stack := newStack(t, 1)
	addPolygon(stack, 0, "a", geometry.Rectangle(0, 0, 10, 10))
	sel := NewMultiSelect(stack)
	NewDispatcher(sel).Drag(0, path([2]float64{-1, -1}, [2]float64{11, 11}), false)
	require.Len(t, sel.Selected(), 1)

	assert.True(t, sel.OnTap(ev(0, 50, 50)))
	assert.Empty(t, sel.Selected())
	assert.False(t, sel.OnTap(ev(0, 50, 50)))
}
