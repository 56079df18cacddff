package action

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrUnknownKind is returned for an action type outside the closed set a
// codec handles.
var ErrUnknownKind = errors.New("unknown action kind")

// Codec encodes and decodes the store specific action kinds of T. The
// composite kinds are handled by MarshalAction and UnmarshalAction.
type Codec[T any] interface {
	MarshalKind(a Action[T]) ([]byte, error)
	UnmarshalKind(kind Kind, data []byte) (Action[T], error)
}

// Log is the persisted form of a history.
type Log struct {
	Actions              []json.RawMessage `json:"actions"`
	CurrentActionPointer int               `json:"currentActionPointer"`
}

// Tagged encodes v as a JSON object and prepends the "type" field.
func Tagged(kind Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", kind)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, errors.Errorf("action %s does not encode to an object", kind)
	}
	tag, err := json.Marshal(string(kind))
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", kind)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// KindOf reads the "type" field of an encoded action.
func KindOf(data []byte) (Kind, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", errors.Wrap(err, "decode action type")
	}
	if head.Type == "" {
		return "", errors.New("action without type")
	}
	return head.Type, nil
}

func MarshalAction[T any](c Codec[T], a Action[T]) ([]byte, error) {
	switch v := a.(type) {
	case *JointAction[T]:
		members := make([]json.RawMessage, 0, len(v.Actions))
		for _, member := range v.Actions {
			b, err := MarshalAction(c, member)
			if err != nil {
				return nil, err
			}
			members = append(members, b)
		}
		return Tagged(KindJoint, struct {
			Actions []json.RawMessage `json:"actions"`
		}{members})
	case *PreventUndo[T]:
		b, err := MarshalAction(c, v.Action)
		if err != nil {
			return nil, err
		}
		return Tagged(KindPreventUndo, struct {
			Action json.RawMessage `json:"action"`
		}{b})
	}
	return c.MarshalKind(a)
}

func UnmarshalAction[T any](c Codec[T], data []byte) (Action[T], error) {
	kind, err := KindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindJoint:
		var body struct {
			Actions []json.RawMessage `json:"actions"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		members := make([]Action[T], 0, len(body.Actions))
		for _, raw := range body.Actions {
			a, err := UnmarshalAction(c, raw)
			if err != nil {
				return nil, err
			}
			members = append(members, a)
		}
		return Joint(members...), nil
	case KindPreventUndo:
		var body struct {
			Action json.RawMessage `json:"action"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if len(body.Action) == 0 {
			return nil, errors.Errorf("%s without wrapped action", kind)
		}
		a, err := UnmarshalAction(c, body.Action)
		if err != nil {
			return nil, err
		}
		return &PreventUndo[T]{Action: a}, nil
	}
	return c.UnmarshalKind(kind, data)
}

// MarshalLog encodes the full history of m with its pointer.
func MarshalLog[T Storage](m *Manager[T], c Codec[T]) ([]byte, error) {
	actions := m.Actions()
	log := Log{
		Actions:              make([]json.RawMessage, 0, len(actions)),
		CurrentActionPointer: m.CurrentActionPointer(),
	}
	for i, a := range actions {
		b, err := MarshalAction(c, a)
		if err != nil {
			return nil, errors.Wrapf(err, "action %d", i)
		}
		log.Actions = append(log.Actions, b)
	}
	return json.Marshal(log)
}

// UnmarshalLog decodes a history and restores it into m, replaying it
// against a cleared store. m is untouched when decoding fails.
func UnmarshalLog[T Storage](data []byte, c Codec[T], m *Manager[T]) error {
	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return errors.Wrap(err, "decode action log")
	}
	actions := make([]Action[T], 0, len(log.Actions))
	for i, raw := range log.Actions {
		a, err := UnmarshalAction(c, raw)
		if err != nil {
			return errors.Wrapf(err, "action %d", i)
		}
		actions = append(actions, a)
	}
	return m.Restore(actions, log.CurrentActionPointer)
}
