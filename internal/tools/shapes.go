package tools

import (
	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
)

// NewPolygon selects an empty polygon on frame so that the next brush
// stroke or editor tap draws a separate shape. A pending empty polygon is
// reused before a new one is added with the active label. It returns the
// selected id, and false when the frame does not exist.
func NewPolygon(stack *Stack, frame int) (string, bool) {
	var id string
	var ok bool
	stack.Apply(func(c *segmentation.Collection) action.Action[*segmentation.Collection] {
		if frame < 0 || frame >= c.NumFrames() {
			return nil
		}
		ok = true
		data := c.Frame(frame)
		if active := data.ActivePolygon(); active != nil && active.IsEmpty() {
			id = data.ActivePolygonID
			return nil
		}
		var actions []action.Action[*segmentation.Collection]
		id, ok = data.GetEmptyPolygonID()
		if !ok {
			id, ok = geometry.NewID(), true
			actions = append(actions, segmentation.Local(frame, &segmentation.AddEmptyPolygon{
				ID:      id,
				Color:   segmentation.NewPolygonColor(),
				LabelID: c.ActiveLabelID(),
			}))
		}
		actions = append(actions, segmentation.Local(frame, &segmentation.SelectPolygon{NewID: id}))
		return action.Joint(actions...)
	})
	return id, ok
}
