package action

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrPointerOutOfRange is returned when a restored log points past its
// action list.
var ErrPointerOutOfRange = errors.New("action pointer out of range")

// Manager owns the history of a store. The pointer is one past the last
// applied action. Undo replays the first pointer-1 actions against a cleared
// store. All mutations are serialised by a mutex, and change listeners run
// after it is released.
type Manager[T Storage] struct {
	mu        sync.Mutex
	data      T
	actions   []Action[T]
	pointer   int
	recorded  int
	listeners []func()
}

func NewManager[T Storage](data T) *Manager[T] {
	return &Manager[T]{data: data, recorded: -1}
}

// Data returns the live store. Read it from the goroutine driving the
// manager, or through View.
func (m *Manager[T]) Data() T {
	return m.data
}

// View calls fn with the store while holding the manager lock.
func (m *Manager[T]) View(fn func(T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.data)
}

// OnDataChanged registers fn to run after every change to the store.
func (m *Manager[T]) OnDataChanged(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// mutate runs fn under the lock and notifies the listeners when it reports
// a change.
func (m *Manager[T]) mutate(fn func() bool) {
	if !m.locked(fn) {
		return
	}
	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()
	for _, l := range listeners {
		l()
	}
}

func (m *Manager[T]) locked(fn func() bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

// AddAction performs a (when perform is set) and records it. The action is
// merged into the previous entry instead when that entry joins it and no
// recording is in progress. Redo entries past the pointer are dropped.
func (m *Manager[T]) AddAction(a Action[T], perform bool) {
	m.mutate(func() bool {
		m.add(a, perform)
		return true
	})
}

// Apply builds an action from the store and performs and records it
// without releasing the lock in between, so build never sees a half
// replayed store and nothing can change the store before the action runs.
// Nothing is recorded when build returns nil.
func (m *Manager[T]) Apply(build func(data T) Action[T]) Action[T] {
	var a Action[T]
	m.mutate(func() bool {
		a = build(m.data)
		if a == nil {
			return false
		}
		m.add(a, true)
		return true
	})
	return a
}

func (m *Manager[T]) add(a Action[T], perform bool) {
	if perform {
		a.Perform(m.data)
	}
	joined := m.recorded < 0 && m.pointer > 0 && m.actions[m.pointer-1].Join(a)
	m.actions = m.actions[:m.pointer]
	if !joined {
		m.actions = append(m.actions, a)
		m.pointer++
	}
}

// Undo steps back one entry. It does nothing when there is no history or
// the previous entry cannot be undone.
func (m *Manager[T]) Undo() {
	m.mutate(func() bool {
		if m.pointer == 0 || !m.actions[m.pointer-1].AllowUndo() {
			return false
		}
		m.pointer--
		m.recorded = -1
		m.replay()
		return true
	})
}

// Redo performs the entry at the pointer again.
func (m *Manager[T]) Redo() {
	m.mutate(func() bool {
		if m.pointer == len(m.actions) || !m.actions[m.pointer].AllowRedo() {
			return false
		}
		m.actions[m.pointer].Perform(m.data)
		m.pointer++
		return true
	})
}

func (m *Manager[T]) CanUndo() bool {
	return m.locked(func() bool {
		return m.pointer > 0 && m.actions[m.pointer-1].AllowUndo()
	})
}

func (m *Manager[T]) CanRedo() bool {
	return m.locked(func() bool {
		return m.pointer < len(m.actions) && m.actions[m.pointer].AllowRedo()
	})
}

// RecordActions sets a checkpoint at the pointer. Joining is suspended
// until MergeRecordedActions is called.
func (m *Manager[T]) RecordActions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = m.pointer
}

// MergeRecordedActions collapses every entry added since RecordActions into
// one JointAction.
func (m *Manager[T]) MergeRecordedActions() {
	m.mutate(func() bool {
		start := m.recorded
		m.recorded = -1
		if start < 0 || m.pointer-start < 2 {
			return false
		}
		merged := Joint(append([]Action[T](nil), m.actions[start:m.pointer]...)...)
		m.actions = append(m.actions[:start], merged)
		m.pointer = start + 1
		return true
	})
}

// Clear drops the whole history and resets the store.
func (m *Manager[T]) Clear() {
	m.mutate(func() bool {
		m.actions = nil
		m.pointer = 0
		m.recorded = -1
		m.data.Clear()
		return true
	})
}

// Reapply rebuilds the store from the history up to the pointer.
func (m *Manager[T]) Reapply() {
	m.mutate(func() bool {
		m.replay()
		return true
	})
}

// Restore replaces the history and rebuilds the store from it.
func (m *Manager[T]) Restore(actions []Action[T], pointer int) error {
	if pointer < 0 || pointer > len(actions) {
		return errors.Wrapf(ErrPointerOutOfRange, "pointer %d with %d actions", pointer, len(actions))
	}
	m.mutate(func() bool {
		m.actions = append([]Action[T](nil), actions...)
		m.pointer = pointer
		m.recorded = -1
		m.replay()
		return true
	})
	return nil
}

// Actions returns a copy of the full history, including redo entries.
func (m *Manager[T]) Actions() []Action[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Action[T](nil), m.actions...)
}

func (m *Manager[T]) CurrentActionPointer() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointer
}

func (m *Manager[T]) replay() {
	m.data.Clear()
	for _, a := range m.actions[:m.pointer] {
		a.Perform(m.data)
	}
}
