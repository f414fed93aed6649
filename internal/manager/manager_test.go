package manager

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/reducer"
)

func newTestManager(t *testing.T) (*Manager, *bus.Bus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := bus.New(logger)
	return New(logger, b, nil, game.NewGameState()), b
}

func TestManager_DispatchSwapsState(t *testing.T) {
	m, _ := newTestManager(t)
	old := m.Current()

	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 250}})

	require.NotSame(t, old, m.Current())
	assert.Equal(t, 250.0, m.Current().Resources.Funding.Balance)
}

func TestManager_NoopDispatchNotifiesNobody(t *testing.T) {
	m, b := newTestManager(t)

	listenerCalls := 0
	m.Subscribe(func(change Change) { listenerCalls++ })
	busCalls := 0
	b.Subscribe(bus.TopicStateChanged, func(payload any) { busCalls++ })

	old := m.Current()
	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 0}})

	assert.Same(t, old, m.Current())
	assert.Equal(t, 0, listenerCalls, "no-op dispatch must not notify")
	assert.Equal(t, 0, busCalls)
}

func TestManager_ListenerSeesOldAndNew(t *testing.T) {
	m, _ := newTestManager(t)
	old := m.Current()

	var got Change
	m.Subscribe(func(change Change) { got = change })

	m.Dispatch(reducer.Action{Type: reducer.ActionAdvanceTurn, Payload: reducer.AdvanceTurnPayload{Phase: "playing"}})

	assert.Equal(t, reducer.ActionAdvanceTurn, got.Action)
	assert.Same(t, old, got.Old)
	assert.Same(t, m.Current(), got.New)
	assert.False(t, got.Replaced)
}

func TestManager_StateChangedEmittedOnBus(t *testing.T) {
	m, b := newTestManager(t)

	var got Change
	b.Subscribe(bus.TopicStateChanged, func(payload any) { got = payload.(Change) })

	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 10}})

	assert.Equal(t, reducer.ActionGrantFunding, got.Action)
	assert.Same(t, m.Current(), got.New)
}

func TestManager_SliceSubscriptionFiresOnlyOnSliceChange(t *testing.T) {
	m, _ := newTestManager(t)

	resourceCalls := 0
	m.SubscribeToSlice(func(s *game.GameState) any { return s.Resources }, func(change Change) { resourceCalls++ })
	metaCalls := 0
	m.SubscribeToSlice(func(s *game.GameState) any { return s.Meta }, func(change Change) { metaCalls++ })

	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 10}})

	assert.Equal(t, 1, resourceCalls)
	assert.Equal(t, 0, metaCalls, "untouched slice listener must not fire")

	m.Dispatch(reducer.Action{Type: reducer.ActionAdvanceTurn, Payload: reducer.AdvanceTurnPayload{}})
	assert.Equal(t, 1, resourceCalls)
	assert.Equal(t, 1, metaCalls)
}

func TestManager_Unsubscribe(t *testing.T) {
	m, _ := newTestManager(t)

	calls := 0
	unsub := m.Subscribe(func(change Change) { calls++ })

	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 10}})
	require.Equal(t, 1, calls)

	unsub()
	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 10}})
	assert.Equal(t, 1, calls)
}

func TestManager_ListenerPanicIsolated(t *testing.T) {
	m, _ := newTestManager(t)

	var after []string
	m.Subscribe(func(change Change) { panic("observer blew up") })
	m.Subscribe(func(change Change) { after = append(after, "survivor") })

	require.NotPanics(t, func() {
		m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 10}})
	})

	assert.Equal(t, []string{"survivor"}, after)
	assert.Equal(t, 10.0, m.Current().Resources.Funding.Balance, "state commit survives listener panic")
}

func TestManager_ChainedDispatchFromListener(t *testing.T) {
	m, _ := newTestManager(t)

	// A listener reacting to the funding grant dispatches a follow-up.
	// The whole chain completes before the original Dispatch returns.
	m.SubscribeToSlice(func(s *game.GameState) any { return s.Resources }, func(change Change) {
		if change.Action == reducer.ActionGrantFunding {
			m.Dispatch(reducer.Action{Type: reducer.ActionMergeWorld, Payload: reducer.MergeWorldPayload{
				Fields: map[string]float64{"funded": 1},
			}})
		}
	})

	m.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: 10}})

	assert.Equal(t, 10.0, m.Current().Resources.Funding.Balance)
	assert.Equal(t, 1.0, m.Current().World.Fields["funded"])
}
