package tools

import (
	"context"
	"fmt"
	"log"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/pkg/errors"
)

// ServiceDescriptor names the segmentation model a proposal service runs.
type ServiceDescriptor struct {
	Repo       string         `yaml:"repo" json:"repo"`
	EntryPoint string         `yaml:"entry_point" json:"entryPoint"`
	Version    string         `yaml:"version" json:"version"`
	Parameters map[string]any `yaml:"parameters" json:"parameters,omitempty"`
}

// Detection is one object found by a proposal service.
type Detection struct {
	Label   string           `json:"label"`
	Contour []geometry.Point `json:"contour"`
	Score   float64          `json:"score"`
}

// ProposalService segments an image remotely.
type ProposalService interface {
	Propose(ctx context.Context, image []byte, svc ServiceDescriptor) ([]Detection, error)
}

// Proposal is a detection that survived filtering.
type Proposal struct {
	Detection Detection
	Polygon   *geometry.Polygon
	// Index is the position of the detection in the service response.
	Index int
}

type FlexibleOptions struct {
	ScoreThreshold    float64
	SimplifyTolerance float64
	Service           ServiceDescriptor
}

// FlexibleSegmentation turns service detections into polygons of a frame.
type FlexibleSegmentation struct {
	stack    *Stack
	service  ProposalService
	prompter Prompter
	opts     FlexibleOptions
}

func NewFlexibleSegmentation(stack *Stack, service ProposalService, prompter Prompter, opts FlexibleOptions) *FlexibleSegmentation {
	return &FlexibleSegmentation{stack: stack, service: service, prompter: prompter, opts: opts}
}

// Filter simplifies the detections, drops those under the score threshold,
// and resolves overlaps. Of two proposals where one contains the centroid
// of the other, the higher score wins and ties go to the earlier detection.
func (f *FlexibleSegmentation) Filter(detections []Detection) []Proposal {
	var candidates []Proposal
	for i, d := range detections {
		if d.Score < f.opts.ScoreThreshold {
			continue
		}
		p := geometry.NewPolygon(segmentation.NewPolygonColor(), d.Contour...)
		p.Simplify(f.opts.SimplifyTolerance)
		if p.NumPoints() < 3 || p.Area() == 0 {
			continue
		}
		candidates = append(candidates, Proposal{Detection: d, Polygon: p, Index: i})
	}

	var kept []Proposal
	for i, a := range candidates {
		beaten := false
		for j, b := range candidates {
			if i == j || !overlaps(a.Polygon, b.Polygon) {
				continue
			}
			if b.Detection.Score > a.Detection.Score || (b.Detection.Score == a.Detection.Score && b.Index < a.Index) {
				beaten = true
				break
			}
		}
		if !beaten {
			kept = append(kept, a)
		}
	}
	return kept
}

func overlaps(a, b *geometry.Polygon) bool {
	return b.IsInside(a.Centroid()) || a.IsInside(b.Centroid())
}

// Commit adds the proposals to a frame as one history entry, creating the
// labels they name when missing. The entry is built while the stack is
// locked, so it is safe to call from a goroutine other than the one editing
// the history. It returns the number of polygons added.
func (f *FlexibleSegmentation) Commit(frame int, proposals []Proposal) int {
	if len(proposals) == 0 {
		return 0
	}
	f.stack.Apply(func(c *segmentation.Collection) action.Action[*segmentation.Collection] {
		return proposalActions(c, frame, proposals)
	})
	return len(proposals)
}

func proposalActions(c *segmentation.Collection, frame int, proposals []Proposal) action.Action[*segmentation.Collection] {
	labels := map[string]int{}
	nextID := c.NextLabelID()
	var actions []action.Action[*segmentation.Collection]
	for _, p := range proposals {
		name := p.Detection.Label
		if name == "" {
			if l, ok := c.ActiveLabel(); ok {
				name = l.Name
			}
		}
		id, ok := labels[name]
		if !ok {
			if l, exists := c.LabelByName(name); exists {
				id = l.ID
			} else {
				id = nextID
				nextID++
				actions = append(actions, &segmentation.AddLabel{Label: segmentation.AnnotationLabel{
					ID:      id,
					Name:    name,
					Visible: true,
					Color:   segmentation.RandomColor,
				}})
			}
			labels[name] = id
		}
		actions = append(actions, segmentation.Local(frame, &segmentation.AddPolygon{
			ID:      geometry.NewID(),
			Polygon: p.Polygon,
			LabelID: id,
		}))
	}
	return action.Joint(actions...)
}

// Run asks the service for detections on image and commits the survivors to
// frame. On failure the user is told and the stack is left untouched.
func (f *FlexibleSegmentation) Run(ctx context.Context, frame int, image []byte) (int, error) {
	detections, err := f.service.Propose(ctx, image, f.opts.Service)
	if err != nil {
		log.Printf("flexible segmentation: proposal failed: %v", err)
		f.prompter.Error(fmt.Sprintf("Segmentation proposal failed: %v", err))
		return 0, errors.Wrap(err, "proposal service")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := f.Commit(frame, f.Filter(detections))
	f.prompter.Info(fmt.Sprintf("Added %d of %d proposed segments", n, len(detections)))
	return n, nil
}

// Result is the outcome of an asynchronous run.
type Result struct {
	Added int
	Err   error
}

// RunAsync runs Run in a goroutine. The channel receives one Result and is
// then closed. A cancelled ctx discards the detections.
func (f *FlexibleSegmentation) RunAsync(ctx context.Context, frame int, image []byte) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		n, err := f.Run(ctx, frame, image)
		out <- Result{Added: n, Err: err}
	}()
	return out
}
