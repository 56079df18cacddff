package tools

import (
	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
)

// MultiSelect selects every polygon whose centroid falls inside a dragged
// rectangle, and applies bulk edits to the selection.
type MultiSelect struct {
	noGestures
	stack *Stack

	dragging   bool
	frame      int
	start, end geometry.Point
	selected   []string
}

func NewMultiSelect(stack *Stack) *MultiSelect {
	return &MultiSelect{stack: stack}
}

// Selected returns the selected polygon ids in id order.
func (s *MultiSelect) Selected() []string {
	return append([]string(nil), s.selected...)
}

// Frame is the frame the selection belongs to.
func (s *MultiSelect) Frame() int {
	return s.frame
}

// SelectionBox is the rectangle being dragged or last dragged.
func (s *MultiSelect) SelectionBox() geometry.Box {
	return geometry.NewBox(s.start, s.end)
}

// OnTap clears the selection.
func (s *MultiSelect) OnTap(Event) bool {
	had := len(s.selected) > 0
	s.selected = nil
	return had
}

func (s *MultiSelect) OnPanStart(e Event) bool {
	s.dragging = true
	s.frame = e.Frame
	s.start, s.end = e.Point, e.Point
	s.selected = nil
	return true
}

func (s *MultiSelect) OnPan(e Event) bool {
	if !s.dragging {
		return false
	}
	s.end = e.Point
	return true
}

func (s *MultiSelect) OnPanEnd(e Event) bool {
	if !s.dragging {
		return false
	}
	s.end = e.Point
	s.dragging = false
	s.selected = s.within(s.SelectionBox())
	return true
}

func (s *MultiSelect) within(box geometry.Box) []string {
	data := s.stack.Data().Frame(s.frame)
	var index polygonIndex
	for _, e := range data.Entries() {
		index.insert(e.ID, e.Polygon)
	}
	var ids []string
	for _, id := range index.search(box) {
		if box.Contains(data.GetPolygon(id).Centroid()) {
			ids = append(ids, id)
		}
	}
	return ids
}

// DeleteSelected removes the selection in one history entry. When the
// active polygon goes, an empty placeholder is selected in its place.
func (s *MultiSelect) DeleteSelected() bool {
	if len(s.selected) == 0 {
		return false
	}
	c := s.stack.Data()
	data := c.Frame(s.frame)
	removed := map[string]bool{}
	var actions []action.Action[*segmentation.Collection]
	for _, id := range s.selected {
		removed[id] = true
		actions = append(actions, segmentation.Local(s.frame, &segmentation.RemovePolygon{PolygonID: id}))
	}
	if removed[data.ActivePolygonID] {
		next, ok := data.GetEmptyPolygonID()
		if !ok || removed[next] {
			next = geometry.NewID()
			actions = append(actions, segmentation.Local(s.frame, &segmentation.AddEmptyPolygon{
				ID:      next,
				Color:   segmentation.NewPolygonColor(),
				LabelID: c.ActiveLabelID(),
			}))
		}
		actions = append(actions, segmentation.Local(s.frame, &segmentation.SelectPolygon{NewID: next}))
	}
	s.stack.AddAction(action.Joint(actions...), true)
	s.selected = nil
	return true
}

// RelabelSelected moves the selection to another label.
func (s *MultiSelect) RelabelSelected(labelID int) bool {
	if len(s.selected) == 0 {
		return false
	}
	var actions []action.Action[*segmentation.Collection]
	for _, id := range s.selected {
		actions = append(actions, segmentation.Local(s.frame, &segmentation.ChangePolygonLabel{PolygonID: id, LabelID: labelID}))
	}
	s.stack.AddAction(action.Joint(actions...), true)
	return true
}
