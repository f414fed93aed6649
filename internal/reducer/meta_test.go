package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oversight-games/ascent/internal/game"
)

func TestReduceMeta_AdvanceTurn(t *testing.T) {
	old := game.NewGameState().Meta

	next := ReduceMeta(old, Action{Type: ActionAdvanceTurn, Payload: AdvanceTurnPayload{Phase: "playing", Timestamp: 1000}})

	require.NotSame(t, old, next, "applicable action must produce a new slice")
	assert.Equal(t, 1, next.Turn)
	assert.Equal(t, "playing", next.Phase)
	assert.Equal(t, 2, next.Month)
	assert.Equal(t, 1, next.Year)
	assert.Equal(t, 1, next.Quarter)
	require.Len(t, next.History, 1)
	assert.Equal(t, 1, next.History[0].Turn)

	// Input untouched.
	assert.Equal(t, 0, old.Turn)
	assert.Equal(t, "setup", old.Phase)
}

func TestReduceMeta_AdvanceTurn_YearRollover(t *testing.T) {
	m := game.NewGameState().Meta
	for i := 0; i < 12; i++ {
		m = ReduceMeta(m, Action{Type: ActionAdvanceTurn, Payload: AdvanceTurnPayload{}})
	}

	assert.Equal(t, 12, m.Turn)
	assert.Equal(t, 2, m.Year)
	assert.Equal(t, 1, m.Month)
	assert.Equal(t, 1, m.Quarter)
}

func TestReduceMeta_AdvanceTurn_QuarterDerivedFromMonth(t *testing.T) {
	m := game.NewGameState().Meta
	quarters := []int{1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4, 1}
	for i, want := range quarters {
		m = ReduceMeta(m, Action{Type: ActionAdvanceTurn, Payload: AdvanceTurnPayload{}})
		assert.Equal(t, want, m.Quarter, "turn %d", i+1)
	}
}

func TestReduceMeta_TurnHistoryBounded(t *testing.T) {
	m := game.NewGameState().Meta
	for i := 0; i < game.TurnHistoryLimit+5; i++ {
		m = ReduceMeta(m, Action{Type: ActionAdvanceTurn, Payload: AdvanceTurnPayload{}})
	}

	require.Len(t, m.History, game.TurnHistoryLimit)
	// Oldest entries dropped, newest retained.
	assert.Equal(t, 6, m.History[0].Turn)
	assert.Equal(t, game.TurnHistoryLimit+5, m.History[len(m.History)-1].Turn)
}

func TestReduceMeta_TouchSaved(t *testing.T) {
	old := game.NewGameState().Meta

	next := ReduceMeta(old, Action{Type: ActionTouchSaved, Payload: TouchSavedPayload{Timestamp: 42}})
	require.NotSame(t, old, next)
	assert.Equal(t, int64(42), next.SavedAt)

	// Same timestamp again is a no-op.
	again := ReduceMeta(next, Action{Type: ActionTouchSaved, Payload: TouchSavedPayload{Timestamp: 42}})
	assert.Same(t, next, again)
}

func TestReduceMeta_IdentityForForeignActions(t *testing.T) {
	old := game.NewGameState().Meta

	foreign := []Action{
		{Type: ActionGrantFunding, Payload: GrantFundingPayload{Amount: 100}},
		{Type: ActionStartResearch, Payload: StartResearchPayload{ID: "x", Compute: 10}},
		{Type: ActionMergeWorld, Payload: MergeWorldPayload{Fields: map[string]float64{"a": 1}}},
		{Type: ActionAdvanceTurn, Payload: "wrong payload type"},
	}
	for _, a := range foreign {
		assert.Same(t, old, ReduceMeta(old, a), "action %s must return the input pointer", a.Type)
	}
}
