package segmentation

import (
	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/geometry"
)

const (
	KindAddEmptyPolygon     action.Kind = "AddEmptyPolygon"
	KindAddPolygon          action.Kind = "AddPolygon"
	KindRemovePolygon       action.Kind = "RemovePolygon"
	KindSelectPolygon       action.Kind = "SelectPolygon"
	KindAddPoint            action.Kind = "AddPointAction"
	KindRemovePoint         action.Kind = "RemovePointAction"
	KindMovePoint           action.Kind = "MovePointAction"
	KindChangePolygonPoints action.Kind = "ChangePolygonPoints"
	KindChangePolygonLabel  action.Kind = "ChangePolygonLabel"
)

// AddEmptyPolygon creates a polygon without points, a placeholder for a
// shape that is about to be drawn.
type AddEmptyPolygon struct {
	action.Base[*Data]
	ID      string `json:"id"`
	Color   string `json:"color"`
	LabelID int    `json:"labelId"`
}

func (*AddEmptyPolygon) Kind() action.Kind { return KindAddEmptyPolygon }

func (a *AddEmptyPolygon) Perform(d *Data) {
	d.AddPolygon(a.ID, geometry.NewPolygon(a.Color), a.LabelID)
}

// AddPolygon inserts a complete polygon.
type AddPolygon struct {
	action.Base[*Data]
	ID      string            `json:"id"`
	Polygon *geometry.Polygon `json:"polygon"`
	LabelID int               `json:"labelId"`
}

func (*AddPolygon) Kind() action.Kind { return KindAddPolygon }

func (a *AddPolygon) Perform(d *Data) {
	d.AddPolygon(a.ID, a.Polygon.Clone(), a.LabelID)
}

type RemovePolygon struct {
	action.Base[*Data]
	PolygonID string `json:"polygonId"`

	Removed *geometry.Polygon `json:"-"`
}

func (*RemovePolygon) Kind() action.Kind { return KindRemovePolygon }

func (a *RemovePolygon) Perform(d *Data) {
	a.Removed = d.RemovePolygon(a.PolygonID)
}

// SelectPolygon moves the active polygon cursor. Consecutive selections
// collapse into one history entry.
type SelectPolygon struct {
	action.Base[*Data]
	NewID string `json:"newId"`
	OldID string `json:"oldId,omitempty"`
}

func (*SelectPolygon) Kind() action.Kind { return KindSelectPolygon }

func (a *SelectPolygon) Perform(d *Data) {
	d.ActivePolygonID = a.NewID
	d.ActivePointIndex = 0
	if p := d.GetPolygon(a.NewID); p != nil && p.NumPoints() > 0 {
		d.ActivePointIndex = p.NumPoints() - 1
	}
}

func (a *SelectPolygon) Join(next action.Action[*Data]) bool {
	n, ok := next.(*SelectPolygon)
	if !ok {
		return false
	}
	a.NewID = n.NewID
	return true
}

type AddPoint struct {
	action.Base[*Data]
	PolygonID string         `json:"polygonId"`
	Index     int            `json:"index"`
	Point     geometry.Point `json:"point"`
}

func (*AddPoint) Kind() action.Kind { return KindAddPoint }

func (a *AddPoint) Perform(d *Data) {
	d.Polygons[a.PolygonID].AddPoint(a.Index, a.Point)
	d.ActivePointIndex = a.Index
}

type RemovePoint struct {
	action.Base[*Data]
	PolygonID string `json:"polygonId"`
	Index     int    `json:"index"`

	Removed geometry.Point `json:"-"`
}

func (*RemovePoint) Kind() action.Kind { return KindRemovePoint }

func (a *RemovePoint) Perform(d *Data) {
	a.Removed = d.Polygons[a.PolygonID].RemovePoint(a.Index)
	d.ActivePointIndex = max(a.Index-1, 0)
}

// MovePoint moves one vertex. Moves of the same vertex collapse so a drag
// is a single history entry.
type MovePoint struct {
	action.Base[*Data]
	PolygonID string         `json:"polygonId"`
	Index     int            `json:"index"`
	Point     geometry.Point `json:"point"`
}

func (*MovePoint) Kind() action.Kind { return KindMovePoint }

func (a *MovePoint) Perform(d *Data) {
	d.Polygons[a.PolygonID].SetPoint(a.Index, a.Point)
	d.ActivePointIndex = a.Index
}

func (a *MovePoint) Join(next action.Action[*Data]) bool {
	n, ok := next.(*MovePoint)
	if !ok || n.PolygonID != a.PolygonID || n.Index != a.Index {
		return false
	}
	a.Point = n.Point
	return true
}

// ChangePolygonPoints replaces the whole vertex list of a polygon.
type ChangePolygonPoints struct {
	action.Base[*Data]
	PolygonID string           `json:"polygonId"`
	Points    []geometry.Point `json:"points"`
}

func (*ChangePolygonPoints) Kind() action.Kind { return KindChangePolygonPoints }

func (a *ChangePolygonPoints) Perform(d *Data) {
	d.Polygons[a.PolygonID].SetPoints(a.Points)
}

type ChangePolygonLabel struct {
	action.Base[*Data]
	PolygonID string `json:"polygonId"`
	LabelID   int    `json:"labelId"`
}

func (*ChangePolygonLabel) Kind() action.Kind { return KindChangePolygonLabel }

func (a *ChangePolygonLabel) Perform(d *Data) {
	if !d.Contains(a.PolygonID) {
		panic("segmentation: relabel of unknown polygon " + a.PolygonID)
	}
	d.SetPolygonLabel(a.PolygonID, a.LabelID)
}
