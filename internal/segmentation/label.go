package segmentation

import (
	"fmt"
	"math/rand"
)

// RandomColor as a label color means every polygon keeps its own color.
const RandomColor = "random"

// DefaultLabelName names the label created for a stack without labels.
const DefaultLabelName = "Foreground"

// FirstLabelID is the smallest id given to a label. A polygon label of 0
// means the polygon has no label.
const FirstLabelID = 1

type AnnotationLabel struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Color   string `json:"color"`
	Active  bool   `json:"active"`
}

// PolygonColor returns the color a polygon with this label is drawn in.
func (l AnnotationLabel) PolygonColor(own string) string {
	if l.Color == "" || l.Color == RandomColor {
		return own
	}
	return l.Color
}

// NewPolygonColor picks a random hex color for a new polygon.
func NewPolygonColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}
