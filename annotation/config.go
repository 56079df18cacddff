package annotation

import (
	"fmt"
	"io"
	"os"

	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/lewtec/segtrack/internal/tools"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Meta struct {
		Description string `yaml:"description"`
	} `yaml:"meta"`
	Brush     ConfigBrush     `yaml:"brush"`
	Editor    ConfigEditor    `yaml:"editor"`
	Tracking  ConfigTracking  `yaml:"tracking"`
	Proposals ConfigProposals `yaml:"proposals"`
	Labels    []*ConfigLabel  `yaml:"labels"`
}

type ConfigBrush struct {
	Radius            float64  `yaml:"radius"`
	OverlapPrevention bool     `yaml:"overlap_prevention"`
	SimplifyTolerance *float64 `yaml:"simplify_tolerance"`
	ProbeRadius       float64  `yaml:"probe_radius"`
}

type ConfigEditor struct {
	GrabDistance float64 `yaml:"grab_distance"`
}

type ConfigTracking struct {
	FastAnnotation bool `yaml:"fast_annotation"`
}

type ConfigProposals struct {
	ScoreThreshold    *float64                `yaml:"score_threshold"`
	SimplifyTolerance *float64                `yaml:"simplify_tolerance"`
	Service           tools.ServiceDescriptor `yaml:"service"`
}

type ConfigLabel struct {
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	Visible *bool  `yaml:"visible"`
}

func floatOr(v *float64, or float64) *float64 {
	if v != nil {
		return v
	}
	return &or
}

func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a yaml configuration, fills the defaults and
// validates the result.
func ParseConfig(data []byte) (*Config, error) {
	var ret Config
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	if ret.Brush.Radius == 0 {
		ret.Brush.Radius = 10
	}
	if ret.Brush.ProbeRadius == 0 {
		ret.Brush.ProbeRadius = 1
	}
	ret.Brush.SimplifyTolerance = floatOr(ret.Brush.SimplifyTolerance, 0.1)
	if ret.Editor.GrabDistance == 0 {
		ret.Editor.GrabDistance = 5
	}
	ret.Proposals.ScoreThreshold = floatOr(ret.Proposals.ScoreThreshold, 0.5)
	ret.Proposals.SimplifyTolerance = floatOr(ret.Proposals.SimplifyTolerance, 1.0)
	if len(ret.Labels) == 0 {
		ret.Labels = []*ConfigLabel{{Name: segmentation.DefaultLabelName}}
	}
	for _, label := range ret.Labels {
		if label.Color == "" {
			label.Color = segmentation.RandomColor
		}
		if label.Visible == nil {
			visible := true
			label.Visible = &visible
		}
	}
	if err := ret.validate(); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (c *Config) validate() error {
	if c.Brush.Radius < 0 {
		return fmt.Errorf("brush radius must be positive, got %v", c.Brush.Radius)
	}
	if c.Brush.ProbeRadius < 0 {
		return fmt.Errorf("brush probe radius must be positive, got %v", c.Brush.ProbeRadius)
	}
	if *c.Brush.SimplifyTolerance < 0 {
		return fmt.Errorf("brush simplify tolerance must not be negative")
	}
	if c.Editor.GrabDistance < 0 {
		return fmt.Errorf("editor grab distance must be positive, got %v", c.Editor.GrabDistance)
	}
	if t := *c.Proposals.ScoreThreshold; t < 0 || t > 1 {
		return fmt.Errorf("proposal score threshold must be within [0, 1], got %v", t)
	}
	if *c.Proposals.SimplifyTolerance < 0 {
		return fmt.Errorf("proposal simplify tolerance must not be negative")
	}
	seen := map[string]bool{}
	for i, label := range c.Labels {
		if label.Name == "" {
			return fmt.Errorf("label %d does not have a name", i)
		}
		if seen[label.Name] {
			return fmt.Errorf("label %s is defined more than once", label.Name)
		}
		seen[label.Name] = true
	}
	return nil
}

// AnnotationLabels converts the configured labels into the labels a new
// stack starts with. Ids count from 1 in file order, leaving 0 for
// polygons without a label. The first one is active.
func (c *Config) AnnotationLabels() []segmentation.AnnotationLabel {
	labels := make([]segmentation.AnnotationLabel, len(c.Labels))
	for i, label := range c.Labels {
		labels[i] = segmentation.AnnotationLabel{
			ID:      i + 1,
			Name:    label.Name,
			Color:   label.Color,
			Visible: *label.Visible,
			Active:  i == 0,
		}
	}
	return labels
}

func (c *Config) BrushOptions() tools.BrushOptions {
	return tools.BrushOptions{
		Radius:            c.Brush.Radius,
		ProbeRadius:       c.Brush.ProbeRadius,
		SimplifyTolerance: *c.Brush.SimplifyTolerance,
		OverlapPrevention: c.Brush.OverlapPrevention,
	}
}

func (c *Config) EditorOptions() tools.EditorOptions {
	return tools.EditorOptions{GrabDistance: c.Editor.GrabDistance}
}

func (c *Config) FlexibleOptions() tools.FlexibleOptions {
	return tools.FlexibleOptions{
		ScoreThreshold:    *c.Proposals.ScoreThreshold,
		SimplifyTolerance: *c.Proposals.SimplifyTolerance,
		Service:           c.Proposals.Service,
	}
}

const sampleConfig = `# segtrack configuration file

meta:
  description: |
    Sample segmentation and tracking project.
    Edit this description to explain what you're annotating.

# Brush used to paint polygons
brush:
  radius: 10
  overlap_prevention: true
  simplify_tolerance: 0.1
  probe_radius: 1

# Vertex editing
editor:
  grab_distance: 5

# Manual tracking
tracking:
  # keep the linked polygon selected as the next source
  fast_annotation: false

# Automatic proposals
proposals:
  score_threshold: 0.5
  simplify_tolerance: 1.0
  service:
    repo: "https://github.com/example/cellpose-service"
    entry_point: "main"
    version: "main"
    parameters:
      diameter: 30

# Labels, the first one starts active
labels:
  - name: "Cell"
    color: "random"
    visible: true
  - name: "Debris"
    color: "#ff0000"
    visible: true
`

// WriteSampleConfig writes a commented configuration to filename.
func WriteSampleConfig(filename string) error {
	return os.WriteFile(filename, []byte(sampleConfig), 0644)
}
