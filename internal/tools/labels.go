package tools

import (
	"context"
	"fmt"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/pkg/errors"
)

var (
	ErrUnknownLabel = errors.New("unknown label")
	ErrLastLabel    = errors.New("cannot remove the last label")
	ErrLabelExists  = errors.New("label name already in use")
)

// LabelEditor edits the label set of a stack.
type LabelEditor struct {
	stack    *Stack
	prompter Prompter
}

func NewLabelEditor(stack *Stack, prompter Prompter) *LabelEditor {
	return &LabelEditor{stack: stack, prompter: prompter}
}

// Add creates a label and returns its id.
func (le *LabelEditor) Add(name, color string) (int, error) {
	if color == "" {
		color = segmentation.RandomColor
	}
	var id int
	var err error
	le.stack.Apply(func(c *segmentation.Collection) action.Action[*segmentation.Collection] {
		if _, exists := c.LabelByName(name); exists {
			err = errors.Wrapf(ErrLabelExists, "%q", name)
			return nil
		}
		id = c.NextLabelID()
		return &segmentation.AddLabel{Label: segmentation.AnnotationLabel{
			ID:      id,
			Name:    name,
			Visible: true,
			Color:   color,
		}}
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Rename renames a label. When another label already has that name the
// user is asked whether to merge the two, and a refusal changes nothing.
func (le *LabelEditor) Rename(ctx context.Context, id int, name string) error {
	c := le.stack.Data()
	if _, ok := c.Label(id); !ok {
		return errors.Wrapf(ErrUnknownLabel, "%d", id)
	}
	other, exists := c.LabelByName(name)
	if !exists {
		le.stack.AddAction(&segmentation.RenameLabel{LabelID: id, Name: name}, true)
		return nil
	}
	if other.ID == id {
		return nil
	}
	targetID := other.ID
	merge, err := le.prompter.Confirm(ctx, fmt.Sprintf("A label named %q already exists. Merge the labels?", name))
	if err != nil {
		return errors.Wrap(err, "confirm label merge")
	}
	if merge {
		le.stack.AddAction(&segmentation.MergeLabels{SourceID: id, TargetID: targetID}, true)
	}
	return nil
}

// Remove deletes a label and its polygons.
func (le *LabelEditor) Remove(id int) error {
	c := le.stack.Data()
	if _, ok := c.Label(id); !ok {
		return errors.Wrapf(ErrUnknownLabel, "%d", id)
	}
	if len(c.Labels) == 1 {
		return ErrLastLabel
	}
	le.stack.AddAction(&segmentation.RemoveLabel{LabelID: id}, true)
	return nil
}

// Activate makes id the label of newly drawn polygons.
func (le *LabelEditor) Activate(id int) error {
	if _, ok := le.stack.Data().Label(id); !ok {
		return errors.Wrapf(ErrUnknownLabel, "%d", id)
	}
	le.stack.AddAction(&segmentation.ChangeLabelActivity{LabelID: id, Active: true}, true)
	return nil
}

func (le *LabelEditor) ToggleVisibility(id int) error {
	l, ok := le.stack.Data().Label(id)
	if !ok {
		return errors.Wrapf(ErrUnknownLabel, "%d", id)
	}
	le.stack.AddAction(&segmentation.ChangeLabelVisibility{LabelID: id, Visible: !l.Visible}, true)
	return nil
}

func (le *LabelEditor) SetColor(id int, color string) error {
	if _, ok := le.stack.Data().Label(id); !ok {
		return errors.Wrapf(ErrUnknownLabel, "%d", id)
	}
	le.stack.AddAction(&segmentation.ChangeLabelColor{LabelID: id, Color: color}, true)
	return nil
}
