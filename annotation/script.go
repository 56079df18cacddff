package annotation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/lewtec/segtrack/internal/tools"
	"gopkg.in/yaml.v3"
)

// Script replays pointer gestures and commands against a session, the way
// a user would drive the tools.
type Script struct {
	Steps []*ScriptStep `yaml:"steps"`
}

// ScriptStep is one gesture or command. Tap and Path are gestures for Tool
// on Frame. Command names a tool command, Undo and Redo name a store.
type ScriptStep struct {
	Tool      string      `yaml:"tool"`
	Frame     int         `yaml:"frame"`
	Tap       []float64   `yaml:"tap"`
	Path      [][]float64 `yaml:"path"`
	Alternate bool        `yaml:"alternate"`
	Command   string      `yaml:"command"`
	Label     string      `yaml:"label"`
	Name      string      `yaml:"name"`
	Color     string      `yaml:"color"`
	Undo      string      `yaml:"undo"`
	Redo      string      `yaml:"redo"`
}

// Tool names accepted by scripts.
const (
	ToolBrush   = "brush"
	ToolEditor  = "editor"
	ToolSelect  = "select"
	ToolTracker = "tracker"
)

func LoadScript(filename string) (*Script, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var ret Script
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

func toPoint(v []float64) (geometry.Point, error) {
	if len(v) != 2 {
		return geometry.Point{}, fmt.Errorf("a point needs two coordinates, got %v", v)
	}
	return geometry.Pt(v[0], v[1]), nil
}

// ScriptRunner keeps the tools of a session alive between steps so that
// multi-step gestures such as linking work across them.
type ScriptRunner struct {
	session     *Session
	brush       *tools.Brush
	editor      *tools.PolygonEditor
	selection   *tools.MultiSelect
	tracker     *tools.ManualTracker
	labels      *tools.LabelEditor
	dispatchers map[string]*tools.Dispatcher
}

func NewScriptRunner(s *Session) *ScriptRunner {
	r := &ScriptRunner{
		session:   s,
		brush:     s.Brush(),
		editor:    s.Editor(),
		selection: s.MultiSelect(),
		tracker:   s.Tracker(),
		labels:    s.Labels(),
	}
	r.dispatchers = map[string]*tools.Dispatcher{
		ToolBrush:   tools.NewDispatcher(r.brush),
		ToolEditor:  tools.NewDispatcher(r.editor),
		ToolSelect:  tools.NewDispatcher(r.selection),
		ToolTracker: tools.NewDispatcher(r.tracker),
	}
	return r
}

// Run applies every step in order and stops at the first failing one.
func (r *ScriptRunner) Run(ctx context.Context, script *Script) error {
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(ctx, step); err != nil {
			return fmt.Errorf("while applying step %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *ScriptRunner) Step(ctx context.Context, step *ScriptStep) error {
	switch {
	case step.Undo != "":
		ok, err := r.session.Undo(step.Undo)
		if err == nil && !ok {
			log.Printf("Script: nothing to undo in %s", step.Undo)
		}
		return err
	case step.Redo != "":
		ok, err := r.session.Redo(step.Redo)
		if err == nil && !ok {
			log.Printf("Script: nothing to redo in %s", step.Redo)
		}
		return err
	case step.Command != "":
		return r.command(ctx, step)
	}

	d, ok := r.dispatchers[step.Tool]
	if !ok {
		return fmt.Errorf("unknown tool '%s'", step.Tool)
	}
	if step.Frame < 0 || step.Frame >= r.session.Segmentation.Data().NumFrames() {
		return fmt.Errorf("frame %d is out of range", step.Frame)
	}
	switch {
	case step.Tap != nil:
		pt, err := toPoint(step.Tap)
		if err != nil {
			return err
		}
		if !d.Tap(tools.Event{Frame: step.Frame, Point: pt, Alternate: step.Alternate}) {
			log.Printf("Script: tap at %v on frame %d did nothing", pt, step.Frame)
		}
	case step.Path != nil:
		path := make([]geometry.Point, len(step.Path))
		for i, v := range step.Path {
			pt, err := toPoint(v)
			if err != nil {
				return err
			}
			path[i] = pt
		}
		if !d.Drag(step.Frame, path, step.Alternate) {
			log.Printf("Script: drag on frame %d did nothing", step.Frame)
		}
	default:
		return fmt.Errorf("step for tool '%s' has neither a tap nor a path", step.Tool)
	}
	return nil
}

func (r *ScriptRunner) labelID(name string) (int, error) {
	var (
		id int
		ok bool
	)
	r.session.Segmentation.View(func(c *segmentation.Collection) {
		var l *segmentation.AnnotationLabel
		if l, ok = c.LabelByName(name); ok {
			id = l.ID
		}
	})
	if !ok {
		return 0, fmt.Errorf("%w: %s", tools.ErrUnknownLabel, name)
	}
	return id, nil
}

func (r *ScriptRunner) command(ctx context.Context, step *ScriptStep) error {
	switch step.Command {
	case "delete-selected":
		if !r.selection.DeleteSelected() {
			log.Printf("Script: nothing selected to delete")
		}
		return nil
	case "new-polygon":
		if _, ok := r.session.NewPolygon(step.Frame); !ok {
			return fmt.Errorf("frame %d does not exist", step.Frame)
		}
		return nil
	case "cancel-tracking":
		r.tracker.Cancel()
		return nil
	case "add-label":
		_, err := r.labels.Add(step.Name, step.Color)
		return err
	}

	id, err := r.labelID(step.Label)
	if err != nil {
		return err
	}
	switch step.Command {
	case "relabel-selected":
		if !r.selection.RelabelSelected(id) {
			log.Printf("Script: nothing selected to relabel")
		}
		return nil
	case "rename-label":
		return r.labels.Rename(ctx, id, step.Name)
	case "remove-label":
		return r.labels.Remove(id)
	case "activate-label":
		return r.labels.Activate(id)
	case "toggle-label":
		return r.labels.ToggleVisibility(id)
	case "color-label":
		return r.labels.SetColor(id, step.Color)
	}
	return fmt.Errorf("unknown command '%s'", step.Command)
}
