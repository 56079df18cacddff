package segmentation

import (
	"encoding/json"

	"github.com/lewtec/segtrack/internal/action"
	"github.com/pkg/errors"
)

// FrameCodec encodes the frame actions.
type FrameCodec struct{}

func (FrameCodec) MarshalKind(a action.Action[*Data]) ([]byte, error) {
	switch a.(type) {
	case *AddEmptyPolygon, *AddPolygon, *RemovePolygon, *SelectPolygon,
		*AddPoint, *RemovePoint, *MovePoint, *ChangePolygonPoints, *ChangePolygonLabel:
		return action.Tagged(a.Kind(), a)
	}
	return nil, errors.Wrapf(action.ErrUnknownKind, "%T", a)
}

func (FrameCodec) UnmarshalKind(kind action.Kind, data []byte) (action.Action[*Data], error) {
	var a action.Action[*Data]
	switch kind {
	case KindAddEmptyPolygon:
		a = &AddEmptyPolygon{}
	case KindAddPolygon:
		a = &AddPolygon{}
	case KindRemovePolygon:
		a = &RemovePolygon{}
	case KindSelectPolygon:
		a = &SelectPolygon{}
	case KindAddPoint:
		a = &AddPoint{}
	case KindRemovePoint:
		a = &RemovePoint{}
	case KindMovePoint:
		a = &MovePoint{}
	case KindChangePolygonPoints:
		a = &ChangePolygonPoints{}
	case KindChangePolygonLabel:
		a = &ChangePolygonLabel{}
	default:
		return nil, errors.Wrapf(action.ErrUnknownKind, "%q", kind)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, errors.Wrapf(err, "decode %s", kind)
	}
	if p, ok := a.(*AddPolygon); ok && p.Polygon == nil {
		return nil, errors.Errorf("%s without polygon", kind)
	}
	return a, nil
}

// Codec encodes the stack actions, including the frame actions carried by
// LocalAction.
type Codec struct{}

type localBody struct {
	Frame  int             `json:"frame"`
	Action json.RawMessage `json:"action"`
}

func (Codec) MarshalKind(a action.Action[*Collection]) ([]byte, error) {
	switch v := a.(type) {
	case *LocalAction:
		inner, err := action.MarshalAction[*Data](FrameCodec{}, v.Action)
		if err != nil {
			return nil, err
		}
		return action.Tagged(KindLocal, localBody{Frame: v.Frame, Action: inner})
	case *AddFrame, *AddLabel, *RemoveLabel, *RenameLabel, *ChangeLabelVisibility,
		*ChangeLabelColor, *ChangeLabelActivity, *MergeLabels:
		return action.Tagged(a.Kind(), a)
	}
	return nil, errors.Wrapf(action.ErrUnknownKind, "%T", a)
}

func (Codec) UnmarshalKind(kind action.Kind, data []byte) (action.Action[*Collection], error) {
	var a action.Action[*Collection]
	switch kind {
	case KindLocal:
		var body localBody
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if len(body.Action) == 0 {
			return nil, errors.Errorf("%s without action", kind)
		}
		inner, err := action.UnmarshalAction[*Data](FrameCodec{}, body.Action)
		if err != nil {
			return nil, err
		}
		return Local(body.Frame, inner), nil
	case KindAddFrame:
		a = &AddFrame{}
	case KindAddLabel:
		a = &AddLabel{}
	case KindRemoveLabel:
		a = &RemoveLabel{}
	case KindRenameLabel:
		a = &RenameLabel{}
	case KindChangeLabelVisibility:
		a = &ChangeLabelVisibility{}
	case KindChangeLabelColor:
		a = &ChangeLabelColor{}
	case KindChangeLabelActivity:
		a = &ChangeLabelActivity{}
	case KindMergeLabels:
		a = &MergeLabels{}
	default:
		return nil, errors.Wrapf(action.ErrUnknownKind, "%q", kind)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, errors.Wrapf(err, "decode %s", kind)
	}
	return a, nil
}
