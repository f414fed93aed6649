// Package manager owns the current game state and the machinery around
// it: dispatching actions through the root reducer, notifying change
// listeners, and persisting/restoring full snapshots.
//
// The manager is deliberately not goroutine-safe. The whole core is a
// single-threaded, synchronous model: one externally triggered action and
// every reaction it chains through (dispatch → listener notification →
// bus emission → further dispatch) complete depth-first before control
// returns to the original caller. Callers on a multi-threaded runtime
// must serialize the entire chain behind a single writer.
package manager

import (
	"log/slog"
	"time"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/reducer"
	"github.com/oversight-games/ascent/internal/store"
)

// Change describes one committed state transition.
//
// Replaced marks a wholesale swap from a loaded snapshot. Listeners must
// treat it differently from incremental transitions: there is no
// prior-state lineage guarantee across the swap.
type Change struct {
	Action   reducer.ActionType
	Old      *game.GameState
	New      *game.GameState
	Replaced bool
}

// Listener observes committed state transitions.
type Listener func(change Change)

// SavedEvent is the payload of the game:saved bus topic.
type SavedEvent struct {
	Name      string
	Timestamp int64
}

// LoadedEvent is the payload of the stateLoaded bus topic.
type LoadedEvent struct {
	Name  string
	State *game.GameState
}

type listenerEntry struct {
	id       int
	selector func(*game.GameState) any
	fn       Listener
}

// Manager owns the current state and applies the root reducer on dispatch.
type Manager struct {
	logger *slog.Logger
	bus    *bus.Bus
	// store may be nil; save/load then degrade to "operation did not
	// happen" with a warning, like every other non-fatal failure.
	store *store.Store

	state     *game.GameState
	listeners []listenerEntry
	nextID    int
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects the time source used for save timestamps.
// Tests use a fixed clock for deterministic records.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates a Manager owning the given initial state.
// The store may be nil when persistence is not wired.
func New(logger *slog.Logger, b *bus.Bus, st *store.Store, initial *game.GameState, opts ...Option) *Manager {
	m := &Manager{
		logger: logger,
		bus:    b,
		store:  st,
		state:  initial,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the current state. The returned aggregate must be
// treated as immutable.
func (m *Manager) Current() *game.GameState {
	return m.state
}

// Dispatch applies the root reducer to the current state. If the reducer
// returns a new reference, the state is swapped, every change listener is
// notified (each isolated, so one faulty observer never blocks the rest),
// and a stateChanged bus event carrying the action type and both state
// references is emitted.
func (m *Manager) Dispatch(a reducer.Action) {
	old := m.state
	next := reducer.Root(old, a)
	if next == old {
		return
	}
	m.state = next

	change := Change{Action: a.Type, Old: old, New: next}
	m.notify(change)
	m.bus.Emit(bus.TopicStateChanged, change)
}

// Subscribe registers a listener for every committed transition and
// returns its unsubscribe function.
func (m *Manager) Subscribe(fn Listener) func() {
	return m.subscribe(nil, fn)
}

// SubscribeToSlice registers a listener invoked only when the selected
// sub-reference differs between old and new state. Selection is identity
// comparison, never deep comparison, so observation stays cheap.
//
// Full-replacement changes always fire slice listeners: a loaded snapshot
// carries no lineage, so a same-looking reference proves nothing.
func (m *Manager) SubscribeToSlice(selector func(*game.GameState) any, fn Listener) func() {
	return m.subscribe(selector, fn)
}

func (m *Manager) subscribe(selector func(*game.GameState) any, fn Listener) func() {
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, selector: selector, fn: fn})

	return func() {
		for i, entry := range m.listeners {
			if entry.id == id {
				m.listeners = append(append([]listenerEntry(nil), m.listeners[:i]...), m.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify delivers a change to all current listeners in subscription order.
// The listener list is snapshotted first so listeners may subscribe or
// unsubscribe during notification.
func (m *Manager) notify(change Change) {
	snapshot := make([]listenerEntry, len(m.listeners))
	copy(snapshot, m.listeners)

	for _, entry := range snapshot {
		if entry.selector != nil && !change.Replaced &&
			entry.selector(change.Old) == entry.selector(change.New) {
			continue
		}
		m.deliver(entry, change)
	}
}

// deliver runs one listener with panic isolation. State was already
// committed before notification began, so a faulty observer can neither
// roll it back nor block the others.
func (m *Manager) deliver(entry listenerEntry, change Change) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("state listener panicked",
				"listener", entry.id,
				"action", change.Action,
				"panic", r,
			)
		}
	}()
	entry.fn(change)
}
