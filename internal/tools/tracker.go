package tools

import (
	"fmt"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/tracking"
)

// TrackingState is the step of the manual linking gesture.
type TrackingState int

const (
	SelectingSource TrackingState = iota
	SelectingTarget
)

func (s TrackingState) String() string {
	if s == SelectingTarget {
		return "selecting-target"
	}
	return "selecting-source"
}

// ManualTracker links polygons across frames with two taps. Links always
// run from the earlier frame to the later one, whatever the tap order.
type ManualTracker struct {
	noGestures
	stack    *Stack
	tracks   *action.Manager[*tracking.Data]
	prompter Prompter

	// FastAnnotation keeps the linked target selected as the next source.
	FastAnnotation bool
}

func NewManualTracker(stack *Stack, tracks *action.Manager[*tracking.Data], prompter Prompter) *ManualTracker {
	return &ManualTracker{stack: stack, tracks: tracks, prompter: prompter}
}

// State is derived from the tracking selection.
func (t *ManualTracker) State() TrackingState {
	if len(t.tracks.Data().Selected) == 0 {
		return SelectingSource
	}
	return SelectingTarget
}

// Source returns the provisional source polygon.
func (t *ManualTracker) Source() (string, bool) {
	selected := t.tracks.Data().Selected
	if len(selected) == 0 {
		return "", false
	}
	return selected[0], true
}

func (t *ManualTracker) OnTap(e Event) bool {
	id, ok := hitTest(t.stack.Data().Frame(e.Frame), e.Point)
	if !ok {
		return t.Cancel()
	}
	source, selecting := t.Source()
	if !selecting {
		t.tracks.AddAction(&tracking.SelectSegment{ID: id}, true)
		t.prompter.Info("Source selected, now pick the same object in another frame")
		return true
	}

	sourceFrame, found := t.stack.Data().FrameOf(source)
	if !found {
		t.Cancel()
		t.tracks.AddAction(&tracking.SelectSegment{ID: id}, true)
		return true
	}
	if sourceFrame == e.Frame {
		t.prompter.Error("Cannot link two segments of the same frame")
		return true
	}

	link := tracking.Link{SourceID: source, TargetID: id}
	if e.Frame < sourceFrame {
		link = tracking.Link{SourceID: id, TargetID: source}
	}
	if t.tracks.Data().HasLink(link) {
		t.prompter.Info("These segments are already linked")
		t.Cancel()
		return true
	}

	actions := []action.Action[*tracking.Data]{&tracking.AddLink{Link: link}}
	if t.FastAnnotation {
		actions = append(actions, &tracking.SelectSegment{ID: link.TargetID})
	}
	t.tracks.AddAction(action.Joint(actions...), true)
	t.prompter.Info(fmt.Sprintf("Linked frame %d to frame %d", min(sourceFrame, e.Frame), max(sourceFrame, e.Frame)))
	return true
}

// Cancel drops the provisional selection and reports whether there was
// one.
func (t *ManualTracker) Cancel() bool {
	selected := t.tracks.Data().Selected
	if len(selected) == 0 {
		return false
	}
	actions := make([]action.Action[*tracking.Data], 0, len(selected))
	for _, id := range selected {
		actions = append(actions, &tracking.UnselectSegment{ID: id})
	}
	t.tracks.AddAction(action.Joint(actions...), true)
	return true
}
