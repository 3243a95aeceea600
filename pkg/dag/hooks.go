package dag

import (
	"errors"
	"slices"
)

var (
	// ErrNilHook is returned when registering or unregistering a nil hook.
	ErrNilHook = errors.New("hook must not be nil")

	// ErrDuplicateHook is returned when a hook is registered twice for the
	// same event.
	ErrDuplicateHook = errors.New("hook already registered")

	// ErrUnknownHook is returned when unregistering a hook that is not
	// registered for the event.
	ErrUnknownHook = errors.New("hook not registered")
)

// Hook is a registered mutation callback. Hooks are compared by identity,
// so the same *Hook must be passed to register and unregister.
type Hook struct {
	fn func(*Node)
}

// NewHook wraps fn as a hook that can be registered on a DAG.
func NewHook(fn func(*Node)) *Hook {
	return &Hook{fn: fn}
}

// RegisterCreateHook registers h to run after every node insertion.
func (d *DAG) RegisterCreateHook(h *Hook) error {
	return register(&d.createHooks, h)
}

// UnregisterCreateHook removes a hook registered with RegisterCreateHook.
func (d *DAG) UnregisterCreateHook(h *Hook) error {
	return unregister(&d.createHooks, h)
}

// RegisterEraseHook registers h to run before every node removal.
func (d *DAG) RegisterEraseHook(h *Hook) error {
	return register(&d.eraseHooks, h)
}

// UnregisterEraseHook removes a hook registered with RegisterEraseHook.
func (d *DAG) UnregisterEraseHook(h *Hook) error {
	return unregister(&d.eraseHooks, h)
}

// HookCount returns the number of registered create and erase hooks.
func (d *DAG) HookCount() (create, erase int) {
	return len(d.createHooks), len(d.eraseHooks)
}

func register(hooks *[]*Hook, h *Hook) error {
	if h == nil || h.fn == nil {
		return ErrNilHook
	}
	if slices.Contains(*hooks, h) {
		return ErrDuplicateHook
	}
	*hooks = append(*hooks, h)
	return nil
}

func unregister(hooks *[]*Hook, h *Hook) error {
	if h == nil {
		return ErrNilHook
	}
	i := slices.Index(*hooks, h)
	if i < 0 {
		return ErrUnknownHook
	}
	*hooks = slices.Delete(*hooks, i, i+1)
	return nil
}

// fire runs hooks in registration order. A hook that unregisters itself
// does not affect delivery of the current event.
func (d *DAG) fire(hooks []*Hook, n *Node) {
	for _, h := range slices.Clone(hooks) {
		h.fn(n)
	}
}
