// Package segmentation holds the polygon stores of an image stack and the
// actions that edit them.
package segmentation

import (
	"sort"

	"github.com/lewtec/segtrack/internal/geometry"
)

// Data is the segmentation of one frame.
type Data struct {
	Polygons         map[string]*geometry.Polygon
	Labels           map[string]int
	ActivePolygonID  string
	ActivePointIndex int
}

// Entry is one polygon of a frame with its id and label.
type Entry struct {
	ID      string
	Polygon *geometry.Polygon
	LabelID int
}

func NewData() *Data {
	d := &Data{}
	d.Clear()
	return d
}

// Clear resets the frame to an empty store.
func (d *Data) Clear() {
	d.Polygons = map[string]*geometry.Polygon{}
	d.Labels = map[string]int{}
	d.ActivePolygonID = ""
	d.ActivePointIndex = 0
}

func (d *Data) AddPolygon(id string, p *geometry.Polygon, labelID int) {
	d.Polygons[id] = p
	if labelID != 0 {
		d.Labels[id] = labelID
	} else {
		delete(d.Labels, id)
	}
}

// RemovePolygon deletes the polygon and its label and returns it.
func (d *Data) RemovePolygon(id string) *geometry.Polygon {
	p := d.Polygons[id]
	delete(d.Polygons, id)
	delete(d.Labels, id)
	if d.ActivePolygonID == id {
		d.ActivePolygonID = ""
		d.ActivePointIndex = 0
	}
	return p
}

func (d *Data) GetPolygon(id string) *geometry.Polygon {
	return d.Polygons[id]
}

// GetPolygonLabel returns the label of the polygon, 0 when unlabeled.
func (d *Data) GetPolygonLabel(id string) int {
	return d.Labels[id]
}

// SetPolygonLabel labels an existing polygon.
func (d *Data) SetPolygonLabel(id string, labelID int) {
	if _, ok := d.Polygons[id]; !ok {
		return
	}
	if labelID == 0 {
		delete(d.Labels, id)
		return
	}
	d.Labels[id] = labelID
}

// GetEmptyPolygonID returns the smallest id among polygons without points.
func (d *Data) GetEmptyPolygonID() (string, bool) {
	found := ""
	for id, p := range d.Polygons {
		if p.IsEmpty() && (found == "" || id < found) {
			found = id
		}
	}
	return found, found != ""
}

// Entries lists the polygons ordered by id.
func (d *Data) Entries() []Entry {
	ids := make([]string, 0, len(d.Polygons))
	for id := range d.Polygons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ID: id, Polygon: d.Polygons[id], LabelID: d.Labels[id]}
	}
	return entries
}

func (d *Data) Contains(id string) bool {
	_, ok := d.Polygons[id]
	return ok
}

func (d *Data) NumPolygons() int {
	return len(d.Polygons)
}

// ActivePolygon returns the selected polygon, nil when none is selected.
func (d *Data) ActivePolygon() *geometry.Polygon {
	if d.ActivePolygonID == "" {
		return nil
	}
	return d.Polygons[d.ActivePolygonID]
}
