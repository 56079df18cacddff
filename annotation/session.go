package annotation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/domain"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/repository"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/lewtec/segtrack/internal/tools"
	"github.com/lewtec/segtrack/internal/tracking"
)

// Names of the persisted action logs.
const (
	StoreSegmentation = "segmentation"
	StoreTracking     = "tracking"
)

// ErrRestoreDeclined is returned by Load when a saved history could not be
// restored and the user chose to keep it instead of starting over.
var ErrRestoreDeclined = errors.New("restoring the saved annotations was declined")

const restorePrompt = "Could not restore the saved annotations. Start fresh?"

// Session is the annotation state of one stack: a segmentation and a
// tracking history, both persisted as action logs.
type Session struct {
	Stack        *domain.Stack
	Frames       []*domain.Frame
	Config       *Config
	Segmentation *tools.Stack
	Tracking     *action.Manager[*tracking.Data]
	Prompter     tools.Prompter

	logs domain.ActionLogRepository
}

func NewSession(stack *domain.Stack, frames []*domain.Frame, config *Config, logs domain.ActionLogRepository, prompter tools.Prompter) *Session {
	return &Session{
		Stack:        stack,
		Frames:       frames,
		Config:       config,
		Segmentation: action.NewManager(segmentation.NewCollection()),
		Tracking:     action.NewManager(tracking.NewData()),
		Prompter:     prompter,
		logs:         logs,
	}
}

// OpenSession looks up the stack called name and loads its saved history.
func OpenSession(ctx context.Context, db *sql.DB, config *Config, name string, prompter tools.Prompter) (*Session, error) {
	stacks := repository.NewStackRepository(db)
	stack, err := stacks.GetStackByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("while looking up stack '%s': %w", name, err)
	}
	if stack == nil {
		return nil, fmt.Errorf("stack '%s' does not exist", name)
	}
	frames, err := stacks.ListFrames(ctx, stack.ID)
	if err != nil {
		return nil, fmt.Errorf("while listing frames of stack '%s': %w", name, err)
	}
	s := NewSession(stack, frames, config, repository.NewActionLogRepository(db), prompter)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load restores both histories. A stack without a saved history starts
// from the frames and the configured labels. When a saved history cannot
// be replayed the user is asked whether to start fresh.
func (s *Session) Load(ctx context.Context) error {
	segLog, err := s.logs.Load(ctx, s.Stack.ID, StoreSegmentation)
	if err != nil {
		return fmt.Errorf("while loading segmentation history: %w", err)
	}
	trackLog, err := s.logs.Load(ctx, s.Stack.ID, StoreTracking)
	if err != nil {
		return fmt.Errorf("while loading tracking history: %w", err)
	}
	if segLog == nil {
		log.Printf("Session: starting stack %s with %d frames", s.Stack.Name, len(s.Frames))
		s.reset()
		return nil
	}

	err = restore(segLog, segmentation.Codec{}, s.Segmentation)
	if err == nil && trackLog != nil {
		err = restore(trackLog, tracking.Codec{}, s.Tracking)
	}
	if err == nil {
		if n := s.Segmentation.Data().NumFrames(); n != len(s.Frames) {
			log.Printf("Session: history has %d frames, stack has %d", n, len(s.Frames))
		}
		return nil
	}

	log.Printf("Session: while restoring stack %s: %s", s.Stack.Name, err)
	fresh, perr := s.Prompter.Confirm(ctx, restorePrompt)
	if perr != nil {
		return fmt.Errorf("while asking to start fresh: %w", perr)
	}
	if !fresh {
		return ErrRestoreDeclined
	}
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.Segmentation.Clear()
	s.Tracking.Clear()
	s.Segmentation.AddAction(segmentation.Bootstrap(len(s.Frames), s.Config.AnnotationLabels()), true)
}

// restore replays a saved history. Actions that no longer fit the store
// panic while replaying, which is reported as an error.
func restore[T action.Storage](payload []byte, codec action.Codec[T], m *action.Manager[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("replaying history panicked: %v", r)
		}
	}()
	return action.UnmarshalLog(payload, codec, m)
}

// Save persists both histories.
func (s *Session) Save(ctx context.Context) error {
	segLog, err := action.MarshalLog(s.Segmentation, segmentation.Codec{})
	if err != nil {
		return fmt.Errorf("while encoding segmentation history: %w", err)
	}
	trackLog, err := action.MarshalLog(s.Tracking, tracking.Codec{})
	if err != nil {
		return fmt.Errorf("while encoding tracking history: %w", err)
	}
	if err := s.logs.Save(ctx, s.Stack.ID, StoreSegmentation, segLog); err != nil {
		return fmt.Errorf("while saving segmentation history: %w", err)
	}
	if err := s.logs.Save(ctx, s.Stack.ID, StoreTracking, trackLog); err != nil {
		return fmt.Errorf("while saving tracking history: %w", err)
	}
	return nil
}

// Undo steps back one entry of the named history. It reports whether there
// was anything to undo.
func (s *Session) Undo(store string) (bool, error) {
	switch store {
	case StoreSegmentation:
		ok := s.Segmentation.CanUndo()
		s.Segmentation.Undo()
		return ok, nil
	case StoreTracking:
		ok := s.Tracking.CanUndo()
		s.Tracking.Undo()
		return ok, nil
	}
	return false, fmt.Errorf("unknown store '%s'", store)
}

func (s *Session) Redo(store string) (bool, error) {
	switch store {
	case StoreSegmentation:
		ok := s.Segmentation.CanRedo()
		s.Segmentation.Redo()
		return ok, nil
	case StoreTracking:
		ok := s.Tracking.CanRedo()
		s.Tracking.Redo()
		return ok, nil
	}
	return false, fmt.Errorf("unknown store '%s'", store)
}

// FrameBounds is the image rectangle of a frame.
func (s *Session) FrameBounds(frame int) (geometry.Box, bool) {
	if frame < 0 || frame >= len(s.Frames) {
		return geometry.Box{}, false
	}
	f := s.Frames[frame]
	if f.Width <= 0 || f.Height <= 0 {
		return geometry.Box{}, false
	}
	return geometry.Bounds(float64(f.Width), float64(f.Height)), true
}

// NewPolygon selects an empty polygon on frame for the next shape.
func (s *Session) NewPolygon(frame int) (string, bool) {
	return tools.NewPolygon(s.Segmentation, frame)
}

func (s *Session) Brush() *tools.Brush {
	opts := s.Config.BrushOptions()
	opts.FrameBounds = s.FrameBounds
	return tools.NewBrush(s.Segmentation, opts)
}

func (s *Session) Editor() *tools.PolygonEditor {
	return tools.NewPolygonEditor(s.Segmentation, s.Config.EditorOptions())
}

func (s *Session) MultiSelect() *tools.MultiSelect {
	return tools.NewMultiSelect(s.Segmentation)
}

func (s *Session) Tracker() *tools.ManualTracker {
	t := tools.NewManualTracker(s.Segmentation, s.Tracking, s.Prompter)
	t.FastAnnotation = s.Config.Tracking.FastAnnotation
	return t
}

func (s *Session) Flexible(service tools.ProposalService) *tools.FlexibleSegmentation {
	return tools.NewFlexibleSegmentation(s.Segmentation, service, s.Prompter, s.Config.FlexibleOptions())
}

func (s *Session) Labels() *tools.LabelEditor {
	return tools.NewLabelEditor(s.Segmentation, s.Prompter)
}
