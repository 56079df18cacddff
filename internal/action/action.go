// Package action implements an undoable action log. Every change to a store
// is an Action; undo rebuilds the store by replaying the history from a
// cleared state.
package action

// Kind tags an action type in the persisted log.
type Kind string

// Storage is a store that actions mutate.
type Storage interface {
	// Clear resets the store to its initial empty state.
	Clear()
}

// Action is a serialisable mutation of a T store.
type Action[T any] interface {
	Kind() Kind
	// Perform applies the action. It is called again on every replay.
	Perform(store T)
	// Join merges next into the receiver and reports whether it did.
	Join(next Action[T]) bool
	AllowUndo() bool
	AllowRedo() bool
}

// Base supplies the default Join, AllowUndo and AllowRedo behaviour.
type Base[T any] struct{}

func (Base[T]) Join(Action[T]) bool { return false }
func (Base[T]) AllowUndo() bool     { return true }
func (Base[T]) AllowRedo() bool     { return true }

const (
	KindJoint       Kind = "JointAction"
	KindPreventUndo Kind = "PreventUndoActionWrapper"
)

// JointAction performs its members in order as one history entry.
type JointAction[T any] struct {
	Actions []Action[T]
}

// Joint builds a JointAction from actions.
func Joint[T any](actions ...Action[T]) *JointAction[T] {
	return &JointAction[T]{Actions: actions}
}

func (j *JointAction[T]) Kind() Kind { return KindJoint }

func (j *JointAction[T]) Perform(store T) {
	for _, a := range j.Actions {
		a.Perform(store)
	}
}

func (j *JointAction[T]) Join(Action[T]) bool { return false }

func (j *JointAction[T]) AllowUndo() bool {
	for _, a := range j.Actions {
		if !a.AllowUndo() {
			return false
		}
	}
	return true
}

func (j *JointAction[T]) AllowRedo() bool {
	for _, a := range j.Actions {
		if !a.AllowRedo() {
			return false
		}
	}
	return true
}

// PreventUndo pins the wrapped action so it can never be undone.
type PreventUndo[T any] struct {
	Action Action[T]
}

func (p *PreventUndo[T]) Kind() Kind          { return KindPreventUndo }
func (p *PreventUndo[T]) Perform(store T)     { p.Action.Perform(store) }
func (p *PreventUndo[T]) Join(Action[T]) bool { return false }
func (p *PreventUndo[T]) AllowUndo() bool     { return false }
func (p *PreventUndo[T]) AllowRedo() bool     { return p.Action.AllowRedo() }
