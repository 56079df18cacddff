package tracking

import (
	"encoding/json"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/pkg/errors"
)

const (
	KindSelectSegment   action.Kind = "SelectSegmentAction"
	KindUnselectSegment action.Kind = "UnselectSegmentAction"
	KindAddLink         action.Kind = "AddLinkAction"
	KindRemoveLink      action.Kind = "RemoveLinkAction"
)

type SelectSegment struct {
	action.Base[*Data]
	ID string `json:"id"`
}

func (*SelectSegment) Kind() action.Kind { return KindSelectSegment }

func (a *SelectSegment) Perform(d *Data) { d.Select(a.ID) }

type UnselectSegment struct {
	action.Base[*Data]
	ID string `json:"id"`
}

func (*UnselectSegment) Kind() action.Kind { return KindUnselectSegment }

func (a *UnselectSegment) Perform(d *Data) { d.Unselect(a.ID) }

// AddLink appends a link and then unselects every selected polygon. The
// unselect steps it took are kept on the action.
type AddLink struct {
	action.Base[*Data]
	Link Link `json:"link"`

	Unselected []*UnselectSegment `json:"-"`
}

func (*AddLink) Kind() action.Kind { return KindAddLink }

func (a *AddLink) Perform(d *Data) {
	d.AddLink(a.Link)
	a.Unselected = a.Unselected[:0]
	for _, id := range append([]string(nil), d.Selected...) {
		step := &UnselectSegment{ID: id}
		step.Perform(d)
		a.Unselected = append(a.Unselected, step)
	}
}

type RemoveLink struct {
	action.Base[*Data]
	Link Link `json:"link"`
}

func (*RemoveLink) Kind() action.Kind { return KindRemoveLink }

func (a *RemoveLink) Perform(d *Data) { d.RemoveLink(a.Link) }

// Codec encodes the tracking actions.
type Codec struct{}

func (Codec) MarshalKind(a action.Action[*Data]) ([]byte, error) {
	switch a.(type) {
	case *SelectSegment, *UnselectSegment, *AddLink, *RemoveLink:
		return action.Tagged(a.Kind(), a)
	}
	return nil, errors.Wrapf(action.ErrUnknownKind, "%T", a)
}

func (Codec) UnmarshalKind(kind action.Kind, data []byte) (action.Action[*Data], error) {
	var a action.Action[*Data]
	switch kind {
	case KindSelectSegment:
		a = &SelectSegment{}
	case KindUnselectSegment:
		a = &UnselectSegment{}
	case KindAddLink:
		a = &AddLink{}
	case KindRemoveLink:
		a = &RemoveLink{}
	default:
		return nil, errors.Wrapf(action.ErrUnknownKind, "%q", kind)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, errors.Wrapf(err, "decode %s", kind)
	}
	return a, nil
}
