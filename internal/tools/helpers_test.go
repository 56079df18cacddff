package tools

import (
	"context"
	"sync"
	"testing"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/lewtec/segtrack/internal/tracking"
)

type fakePrompter struct {
	mu     sync.Mutex
	answer bool
	err    error
	asked  []string
	infos  []string
	errors []string
}

func (p *fakePrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, message)
	return p.answer, p.err
}

func (p *fakePrompter) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, message)
}

func (p *fakePrompter) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, message)
}

func newStack(t *testing.T, frames int) *Stack {
	t.Helper()
	stack := action.NewManager(segmentation.NewCollection())
	stack.AddAction(segmentation.Bootstrap(frames, nil), true)
	return stack
}

func newTracks() *action.Manager[*tracking.Data] {
	return action.NewManager(tracking.NewData())
}

func addPolygon(stack *Stack, frame int, id string, p *geometry.Polygon) {
	stack.AddAction(segmentation.Local(frame, &segmentation.AddPolygon{ID: id, Polygon: p}), true)
}

func selectPolygon(stack *Stack, frame int, id string) {
	stack.AddAction(segmentation.Local(frame, &segmentation.SelectPolygon{NewID: id}), true)
}

func ev(frame int, x, y float64) Event {
	return Event{Frame: frame, Point: geometry.Pt(x, y)}
}

func path(points ...[2]float64) []geometry.Point {
	out := make([]geometry.Point, len(points))
	for i, p := range points {
		out[i] = geometry.Point(p)
	}
	return out
}
