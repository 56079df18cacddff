package segmentation

import (
	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
)

const (
	KindLocal                 action.Kind = "LocalAction"
	KindAddFrame              action.Kind = "AddFrame"
	KindAddLabel              action.Kind = "AddLabel"
	KindRemoveLabel           action.Kind = "RemoveLabel"
	KindRenameLabel           action.Kind = "RenameLabel"
	KindChangeLabelVisibility action.Kind = "ChangeLabelVisibility"
	KindChangeLabelColor      action.Kind = "ChangeLabelColor"
	KindChangeLabelActivity   action.Kind = "ChangeLabelActivity"
	KindMergeLabels           action.Kind = "MergeLabels"
)

// LocalAction applies a frame action to one frame of the stack.
type LocalAction struct {
	Frame  int
	Action action.Action[*Data]
}

// Local wraps a frame action for the given frame.
func Local(frame int, a action.Action[*Data]) *LocalAction {
	return &LocalAction{Frame: frame, Action: a}
}

func (*LocalAction) Kind() action.Kind { return KindLocal }

func (a *LocalAction) Perform(c *Collection) {
	a.Action.Perform(c.Frame(a.Frame))
}

func (a *LocalAction) Join(next action.Action[*Collection]) bool {
	n, ok := next.(*LocalAction)
	if !ok || n.Frame != a.Frame {
		return false
	}
	return a.Action.Join(n.Action)
}

func (a *LocalAction) AllowUndo() bool { return a.Action.AllowUndo() }
func (a *LocalAction) AllowRedo() bool { return a.Action.AllowRedo() }

// AddFrame appends an empty frame to the stack.
type AddFrame struct {
	action.Base[*Collection]
}

func (*AddFrame) Kind() action.Kind { return KindAddFrame }

func (*AddFrame) Perform(c *Collection) {
	c.Frames = append(c.Frames, NewData())
}

type AddLabel struct {
	action.Base[*Collection]
	Label AnnotationLabel `json:"label"`
}

func (*AddLabel) Kind() action.Kind { return KindAddLabel }

func (a *AddLabel) Perform(c *Collection) {
	c.Labels = append(c.Labels, a.Label)
	if a.Label.Active {
		c.setActiveLabel(a.Label.ID)
	}
}

// RemoveLabel drops a label together with every polygon carrying it.
type RemoveLabel struct {
	action.Base[*Collection]
	LabelID int `json:"labelId"`
}

func (*RemoveLabel) Kind() action.Kind { return KindRemoveLabel }

func (a *RemoveLabel) Perform(c *Collection) {
	wasActive := c.mustLabel(a.LabelID).Active
	for _, f := range c.Frames {
		for _, e := range f.Entries() {
			if e.LabelID == a.LabelID {
				f.RemovePolygon(e.ID)
			}
		}
	}
	c.removeLabel(a.LabelID)
	if wasActive && len(c.Labels) > 0 {
		c.setActiveLabel(c.Labels[0].ID)
	}
}

type RenameLabel struct {
	action.Base[*Collection]
	LabelID int    `json:"labelId"`
	Name    string `json:"name"`
}

func (*RenameLabel) Kind() action.Kind { return KindRenameLabel }

func (a *RenameLabel) Perform(c *Collection) {
	c.mustLabel(a.LabelID).Name = a.Name
}

type ChangeLabelVisibility struct {
	action.Base[*Collection]
	LabelID int  `json:"labelId"`
	Visible bool `json:"visible"`
}

func (*ChangeLabelVisibility) Kind() action.Kind { return KindChangeLabelVisibility }

func (a *ChangeLabelVisibility) Perform(c *Collection) {
	c.mustLabel(a.LabelID).Visible = a.Visible
}

type ChangeLabelColor struct {
	action.Base[*Collection]
	LabelID int    `json:"labelId"`
	Color   string `json:"color"`
}

func (*ChangeLabelColor) Kind() action.Kind { return KindChangeLabelColor }

func (a *ChangeLabelColor) Perform(c *Collection) {
	c.mustLabel(a.LabelID).Color = a.Color
}

// ChangeLabelActivity marks the label new polygons go to. At most one
// label is active.
type ChangeLabelActivity struct {
	action.Base[*Collection]
	LabelID int  `json:"labelId"`
	Active  bool `json:"active"`
}

func (*ChangeLabelActivity) Kind() action.Kind { return KindChangeLabelActivity }

func (a *ChangeLabelActivity) Perform(c *Collection) {
	if a.Active {
		c.mustLabel(a.LabelID)
		c.setActiveLabel(a.LabelID)
		return
	}
	c.mustLabel(a.LabelID).Active = false
}

// MergeLabels moves every polygon of the source label to the target label
// and drops the source.
type MergeLabels struct {
	action.Base[*Collection]
	SourceID int `json:"sourceId"`
	TargetID int `json:"targetId"`
}

func (*MergeLabels) Kind() action.Kind { return KindMergeLabels }

func (a *MergeLabels) Perform(c *Collection) {
	source := c.mustLabel(a.SourceID)
	c.mustLabel(a.TargetID)
	wasActive := source.Active
	for _, f := range c.Frames {
		for _, e := range f.Entries() {
			if e.LabelID == a.SourceID {
				f.SetPolygonLabel(e.ID, a.TargetID)
			}
		}
	}
	c.removeLabel(a.SourceID)
	if wasActive {
		c.setActiveLabel(a.TargetID)
	}
}

// Bootstrap builds the permanent first entry of a stack history: the
// frames, the labels, and one selected placeholder polygon per frame.
func Bootstrap(frames int, labels []AnnotationLabel) action.Action[*Collection] {
	if len(labels) == 0 {
		labels = []AnnotationLabel{{ID: FirstLabelID, Name: DefaultLabelName, Visible: true, Color: RandomColor, Active: true}}
	}
	labelID := labels[0].ID
	for _, l := range labels {
		if l.Active {
			labelID = l.ID
			break
		}
	}
	actions := make([]action.Action[*Collection], 0, frames*3+len(labels))
	for i := 0; i < frames; i++ {
		actions = append(actions, &AddFrame{})
	}
	for _, l := range labels {
		actions = append(actions, &AddLabel{Label: l})
	}
	for i := 0; i < frames; i++ {
		id := geometry.NewID()
		actions = append(actions,
			Local(i, &AddEmptyPolygon{ID: id, Color: NewPolygonColor(), LabelID: labelID}),
			Local(i, &SelectPolygon{NewID: id}),
		)
	}
	return &action.PreventUndo[*Collection]{Action: action.Joint(actions...)}
}
