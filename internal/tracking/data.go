// Package tracking links polygons across frames of a stack.
package tracking

// Link connects a polygon to its successor in a later frame.
type Link struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// Data holds the links of a stack and the polygons selected for linking.
type Data struct {
	Links    []Link
	Selected []string
}

func NewData() *Data {
	return &Data{}
}

func (d *Data) Clear() {
	d.Links = nil
	d.Selected = nil
}

// ListFrom returns the links leaving id.
func (d *Data) ListFrom(id string) []Link {
	var out []Link
	for _, l := range d.Links {
		if l.SourceID == id {
			out = append(out, l)
		}
	}
	return out
}

// ListTo returns the links arriving at id.
func (d *Data) ListTo(id string) []Link {
	var out []Link
	for _, l := range d.Links {
		if l.TargetID == id {
			out = append(out, l)
		}
	}
	return out
}

func (d *Data) HasLink(l Link) bool {
	for _, existing := range d.Links {
		if existing == l {
			return true
		}
	}
	return false
}

func (d *Data) AddLink(l Link) {
	d.Links = append(d.Links, l)
}

// RemoveLink deletes the first link equal to l.
func (d *Data) RemoveLink(l Link) bool {
	for i, existing := range d.Links {
		if existing == l {
			d.Links = append(d.Links[:i], d.Links[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Data) IsSelected(id string) bool {
	for _, s := range d.Selected {
		if s == id {
			return true
		}
	}
	return false
}

func (d *Data) Select(id string) {
	if !d.IsSelected(id) {
		d.Selected = append(d.Selected, id)
	}
}

func (d *Data) Unselect(id string) {
	for i, s := range d.Selected {
		if s == id {
			d.Selected = append(d.Selected[:i], d.Selected[i+1:]...)
			return
		}
	}
}
