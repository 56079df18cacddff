// Package tools turns pointer gestures into segmentation and tracking
// actions.
package tools

import (
	"context"
	"math"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
)

// Event is a pointer event on a frame, in image coordinates.
type Event struct {
	Frame int
	Point geometry.Point
	// Alternate is set for the secondary button or the modifier key.
	Alternate bool
}

// Tool reacts to gestures. Each handler reports whether it consumed the
// event.
type Tool interface {
	OnTap(e Event) bool
	OnPanStart(e Event) bool
	OnPan(e Event) bool
	OnPanEnd(e Event) bool
}

// Prompter talks to the user.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Info(message string)
	Error(message string)
}

// Stack is the action manager of a segmentation collection.
type Stack = action.Manager[*segmentation.Collection]

type noGestures struct{}

func (noGestures) OnTap(Event) bool      { return false }
func (noGestures) OnPanStart(Event) bool { return false }
func (noGestures) OnPan(Event) bool      { return false }
func (noGestures) OnPanEnd(Event) bool   { return false }

// Dispatcher hands each event to its tools in order until one handles it.
type Dispatcher struct {
	tools []Tool
	pan   Tool
}

func NewDispatcher(tools ...Tool) *Dispatcher {
	return &Dispatcher{tools: tools}
}

func (d *Dispatcher) Tap(e Event) bool {
	for _, t := range d.tools {
		if t.OnTap(e) {
			return true
		}
	}
	return false
}

// PanStart picks the tool that owns the rest of the gesture.
func (d *Dispatcher) PanStart(e Event) bool {
	d.pan = nil
	for _, t := range d.tools {
		if t.OnPanStart(e) {
			d.pan = t
			return true
		}
	}
	return false
}

func (d *Dispatcher) Pan(e Event) bool {
	if d.pan == nil {
		return false
	}
	return d.pan.OnPan(e)
}

func (d *Dispatcher) PanEnd(e Event) bool {
	if d.pan == nil {
		return false
	}
	t := d.pan
	d.pan = nil
	return t.OnPanEnd(e)
}

// Drag sends a whole pan gesture along path.
func (d *Dispatcher) Drag(frame int, path []geometry.Point, alternate bool) bool {
	if len(path) == 0 {
		return false
	}
	ev := func(p geometry.Point) Event { return Event{Frame: frame, Point: p, Alternate: alternate} }
	if !d.PanStart(ev(path[0])) {
		return false
	}
	for _, p := range path[1:] {
		d.Pan(ev(p))
	}
	return d.PanEnd(ev(path[len(path)-1]))
}

// hitTest returns the smallest polygon of the frame containing pt.
func hitTest(d *segmentation.Data, pt geometry.Point) (string, bool) {
	found, best := "", math.Inf(1)
	for _, e := range d.Entries() {
		if !e.Polygon.IsInside(pt) {
			continue
		}
		if a := e.Polygon.Area(); a < best {
			found, best = e.ID, a
		}
	}
	return found, found != ""
}
