package segmentation

import "fmt"

// Collection is the segmentation of a whole image stack: one Data per frame
// and the label set they share.
type Collection struct {
	Frames []*Data
	Labels []AnnotationLabel
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Clear() {
	c.Frames = nil
	c.Labels = nil
}

func (c *Collection) NumFrames() int {
	return len(c.Frames)
}

// Frame returns the store of frame i. An index outside the stack is a
// programming error.
func (c *Collection) Frame(i int) *Data {
	if i < 0 || i >= len(c.Frames) {
		panic(fmt.Sprintf("segmentation: frame %d out of range [0, %d)", i, len(c.Frames)))
	}
	return c.Frames[i]
}

func (c *Collection) Label(id int) (*AnnotationLabel, bool) {
	for i := range c.Labels {
		if c.Labels[i].ID == id {
			return &c.Labels[i], true
		}
	}
	return nil, false
}

func (c *Collection) mustLabel(id int) *AnnotationLabel {
	l, ok := c.Label(id)
	if !ok {
		panic(fmt.Sprintf("segmentation: unknown label %d", id))
	}
	return l
}

func (c *Collection) LabelByName(name string) (*AnnotationLabel, bool) {
	for i := range c.Labels {
		if c.Labels[i].Name == name {
			return &c.Labels[i], true
		}
	}
	return nil, false
}

// NextLabelID returns an id no label uses yet. It is never below
// FirstLabelID.
func (c *Collection) NextLabelID() int {
	next := FirstLabelID
	for _, l := range c.Labels {
		if l.ID >= next {
			next = l.ID + 1
		}
	}
	return next
}

// ActiveLabel returns the label new polygons are created with.
func (c *Collection) ActiveLabel() (*AnnotationLabel, bool) {
	for i := range c.Labels {
		if c.Labels[i].Active {
			return &c.Labels[i], true
		}
	}
	if len(c.Labels) > 0 {
		return &c.Labels[0], true
	}
	return nil, false
}

// ActiveLabelID is the id of ActiveLabel, 0 when there are no labels.
func (c *Collection) ActiveLabelID() int {
	if l, ok := c.ActiveLabel(); ok {
		return l.ID
	}
	return 0
}

// FrameOf finds the frame holding the polygon.
func (c *Collection) FrameOf(polygonID string) (int, bool) {
	for i, f := range c.Frames {
		if f.Contains(polygonID) {
			return i, true
		}
	}
	return 0, false
}

// PolygonCount counts the non-empty polygons of every frame.
func (c *Collection) PolygonCount() int {
	n := 0
	for _, f := range c.Frames {
		for _, p := range f.Polygons {
			if !p.IsEmpty() {
				n++
			}
		}
	}
	return n
}

func (c *Collection) setActiveLabel(id int) {
	for i := range c.Labels {
		c.Labels[i].Active = c.Labels[i].ID == id
	}
}

func (c *Collection) removeLabel(id int) {
	for i := range c.Labels {
		if c.Labels[i].ID == id {
			c.Labels = append(c.Labels[:i], c.Labels[i+1:]...)
			return
		}
	}
}
