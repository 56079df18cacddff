package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	detections []Detection
	err        error
	got        ServiceDescriptor
}

func (s *fakeService) Propose(_ context.Context, _ []byte, svc ServiceDescriptor) ([]Detection, error) {
	s.got = svc
	return s.detections, s.err
}

func square(x, y, size float64) []geometry.Point {
	return geometry.Rectangle(x, y, size, size).Points
}

func TestFilter(t *testing.T) {
	f := NewFlexibleSegmentation(nil, nil, nil, FlexibleOptions{ScoreThreshold: 0.5, SimplifyTolerance: 1})
	kept := f.Filter([]Detection{
		{Label: "cell", Contour: square(0, 0, 10), Score: 0.9},
		{Label: "cell", Contour: square(2, 2, 10), Score: 0.95},
		{Label: "cell", Contour: square(50, 50, 10), Score: 0.4},
		{Label: "cell", Contour: square(30, 30, 10), Score: 0.7},
		{Label: "cell", Contour: square(31, 31, 10), Score: 0.7},
		{Label: "cell", Contour: square(80, 0, 10)[:2], Score: 0.99},
	})
	var indexes []int
	for _, p := range kept {
		indexes = append(indexes, p.Index)
	}
	assert.Equal(t, []int{1, 3}, indexes, "higher score wins, ties keep the earlier detection")
}

func TestFilterSimplifiesContours(t *testing.T) {
	f := NewFlexibleSegmentation(nil, nil, nil, FlexibleOptions{SimplifyTolerance: 1})
	kept := f.Filter([]Detection{{
		Contour: path([2]float64{0, 0}, [2]float64{5, 0.2}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10}),
		Score:   1,
	}})
	require.Len(t, kept, 1)
	assert.Equal(t, 4, kept[0].Polygon.NumPoints())
}

func TestRunCommitsOneEntry(t *testing.T) {
	stack := newStack(t, 2)
	prompter := &fakePrompter{}
	service := &fakeService{detections: []Detection{
		{Label: "Foreground", Contour: square(0, 0, 10), Score: 0.9},
		{Label: "Nucleus", Contour: square(40, 40, 10), Score: 0.8},
		{Label: "Nucleus", Contour: square(70, 40, 10), Score: 0.8},
	}}
	svc := ServiceDescriptor{Repo: "https://example.org/models", EntryPoint: "cells", Version: "v1"}
	f := NewFlexibleSegmentation(stack, service, prompter, FlexibleOptions{ScoreThreshold: 0.5, Service: svc})
	before := stack.CurrentActionPointer()

	n, err := f.Run(context.Background(), 1, []byte("image"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, svc, service.got)
	assert.Equal(t, before+1, stack.CurrentActionPointer())

	c := stack.Data()
	nucleus, ok := c.LabelByName("Nucleus")
	require.True(t, ok)
	foreground, ok := c.LabelByName(segmentation.DefaultLabelName)
	require.True(t, ok)
	labels := map[int]int{}
	for _, e := range c.Frame(1).Entries() {
		if !e.Polygon.IsEmpty() {
			labels[e.LabelID]++
		}
	}
	assert.Equal(t, map[int]int{foreground.ID: 1, nucleus.ID: 2}, labels)
	assert.Len(t, c.Labels, 2)

	stack.Undo()
	_, ok = stack.Data().LabelByName("Nucleus")
	assert.False(t, ok)
	assert.Equal(t, 1, stack.Data().Frame(1).NumPolygons())
}

func TestRunFailureLeavesStackUntouched(t *testing.T) {
	stack := newStack(t, 1)
	prompter := &fakePrompter{}
	f := NewFlexibleSegmentation(stack, &fakeService{err: errors.New("model unavailable")}, prompter, FlexibleOptions{})
	before := stack.CurrentActionPointer()

	result := <-f.RunAsync(context.Background(), 0, nil)
	require.Error(t, result.Err)
	assert.Zero(t, result.Added)
	assert.Equal(t, before, stack.CurrentActionPointer())
	require.Len(t, prompter.errors, 1)
	assert.Contains(t, prompter.errors[0], "model unavailable")
}

func TestRunAsyncCommits(t *testing.T) {
	stack := newStack(t, 1)
	f := NewFlexibleSegmentation(stack, &fakeService{detections: []Detection{
		{Contour: square(0, 0, 10), Score: 1},
	}}, &fakePrompter{}, FlexibleOptions{})

	result := <-f.RunAsync(context.Background(), 0, nil)
	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, stack.Data().Frame(0).NumPolygons())
}

func TestRunCancelled(t *testing.T) {
	stack := newStack(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFlexibleSegmentation(stack, &fakeService{detections: []Detection{
		{Contour: square(0, 0, 10), Score: 1},
	}}, &fakePrompter{}, FlexibleOptions{})

	_, err := f.Run(ctx, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stack.Data().Frame(0).NumPolygons())
}

func TestRunAsyncWhileEditingHistory(t *testing.T) {
	stack := newStack(t, 1)
	labels := NewLabelEditor(stack, &fakePrompter{})
	f := NewFlexibleSegmentation(stack, &fakeService{detections: []Detection{
		{Label: "Nucleus", Contour: square(0, 0, 10), Score: 1},
		{Label: "Vesicle", Contour: square(40, 40, 10), Score: 1},
	}}, &fakePrompter{}, FlexibleOptions{})

	for i := 0; i < 50; i++ {
		done := f.RunAsync(context.Background(), 0, nil)
		_, err := labels.Add(fmt.Sprintf("Label %d", i), "")
		require.NoError(t, err)
		if i%3 == 0 {
			stack.Undo()
		}
		result := <-done
		require.NoError(t, result.Err)
		assert.Equal(t, 2, result.Added)
	}

	seen := map[int]string{}
	for _, l := range stack.Data().Labels {
		other, dup := seen[l.ID]
		assert.False(t, dup, "labels %q and %q share id %d", other, l.Name, l.ID)
		seen[l.ID] = l.Name
	}
	for _, e := range stack.Data().Frame(0).Entries() {
		if e.Polygon.IsEmpty() {
			continue
		}
		_, ok := stack.Data().Label(e.LabelID)
		assert.True(t, ok, "polygon %s has label %d", e.ID, e.LabelID)
	}
}

func TestRunAsyncFailureWhileEditingHistory(t *testing.T) {
	stack := newStack(t, 1)
	labels := NewLabelEditor(stack, &fakePrompter{})
	f := NewFlexibleSegmentation(stack, &fakeService{err: errors.New("timeout")}, &fakePrompter{}, FlexibleOptions{})
	before := stack.CurrentActionPointer()

	done := f.RunAsync(context.Background(), 0, nil)
	_, err := labels.Add("Debris", "")
	require.NoError(t, err)
	result := <-done

	require.Error(t, result.Err)
	assert.Equal(t, before+1, stack.CurrentActionPointer(), "only the label edit is recorded")
	assert.Len(t, stack.Data().Labels, 2)
	assert.Equal(t, 1, stack.Data().Frame(0).NumPolygons())
}

func TestRunAsyncCancelledLeavesStackUntouched(t *testing.T) {
	stack := newStack(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFlexibleSegmentation(stack, &fakeService{detections: []Detection{
		{Contour: square(0, 0, 10), Score: 1},
	}}, &fakePrompter{}, FlexibleOptions{})
	before := stack.CurrentActionPointer()

	result := <-f.RunAsync(ctx, 0, nil)
	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Zero(t, result.Added)
	assert.Equal(t, before, stack.CurrentActionPointer())
}
