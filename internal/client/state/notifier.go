// Package state holds the authoritative in-memory view of session and
// portfolio data. Notifiers commit state in response to service results and
// broadcast change events to subscribers; the view layer owns nothing.
package state

import "sync"

// Notifier is an observable state container. Mutations are serialized and
// applied in the order their originating operations settle; listeners are
// invoked synchronously after each committed mutation with a snapshot of the
// new state.
//
// A closed Notifier drops further commits silently, so an operation settling
// after its notifier was discarded cannot crash or resurrect state.
type Notifier[T any] struct {
	mu        sync.Mutex
	state     T
	closed    bool
	nextID    int
	listeners map[int]func(T)
}

func NewNotifier[T any](initial T) *Notifier[T] {
	return &Notifier[T]{
		state:     initial,
		listeners: make(map[int]func(T)),
	}
}

// State returns a snapshot of the current state.
func (n *Notifier[T]) State() T {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Subscribe registers a listener and returns its unsubscribe function.
// Listeners receive state snapshots; they must not rely on being called
// while the notifier's lock is held and may call back into the notifier.
func (n *Notifier[T]) Subscribe(listener func(T)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.listeners[id] = listener

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Close detaches all listeners and turns every further commit into a no-op.
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.listeners = make(map[int]func(T))
}

// commit applies mutate to the state and notifies subscribers. Listeners run
// outside the lock with the committed snapshot.
func (n *Notifier[T]) commit(mutate func(*T)) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	mutate(&n.state)
	snapshot := n.state
	listeners := make([]func(T), 0, len(n.listeners))
	for _, l := range n.listeners {
		listeners = append(listeners, l)
	}
	n.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
