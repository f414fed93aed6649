package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oversight-games/ascent/internal/game"
)

func TestReduceDeployments_Activate(t *testing.T) {
	old := game.NewGameState().Deployments

	dep := &game.Deployment{ID: "cluster", Name: "Inference Cluster"}
	next := ReduceDeployments(old, Action{Type: ActionActivateDeployment, Payload: ActivateDeploymentPayload{Deployment: dep}})

	require.NotSame(t, old, next)
	assert.Same(t, dep, next.Active["cluster"])
	assert.Empty(t, old.Active)
}

func TestReduceDeployments_Unlock(t *testing.T) {
	old := game.NewGameState().Deployments

	next := ReduceDeployments(old, Action{Type: ActionUnlockDeployment, Payload: UnlockDeploymentPayload{ID: "cluster"}})
	require.NotSame(t, old, next)
	assert.True(t, next.Unlocked["cluster"])

	// Already unlocked: identity.
	assert.Same(t, next, ReduceDeployments(next, Action{Type: ActionUnlockDeployment, Payload: UnlockDeploymentPayload{ID: "cluster"}}))
}

func TestReduceDeployments_GrantCapacity(t *testing.T) {
	old := game.NewGameState().Deployments

	next := ReduceDeployments(old, Action{Type: ActionGrantCapacity, Payload: GrantCapacityPayload{ID: "cluster", Delta: 2}})
	require.NotSame(t, old, next)
	assert.Equal(t, 2, next.Capacity["cluster"])

	again := ReduceDeployments(next, Action{Type: ActionGrantCapacity, Payload: GrantCapacityPayload{ID: "cluster", Delta: 1}})
	assert.Equal(t, 3, again.Capacity["cluster"])
}

func TestReduceCompetitors_Merge(t *testing.T) {
	old := game.NewGameState().Competitors

	next := ReduceCompetitors(old, Action{Type: ActionMergeCompetitor, Payload: MergeCompetitorPayload{
		ID:     "rival",
		Name:   "Rival Labs",
		Fields: map[string]float64{"capability": 0.6},
	}})

	require.NotSame(t, old, next)
	require.Contains(t, next.Orgs, "rival")
	assert.Equal(t, "Rival Labs", next.Orgs["rival"].Name)
	assert.Equal(t, 0.6, next.Orgs["rival"].Fields["capability"])

	// Merge overwrites fields, keeps the name when omitted.
	merged := ReduceCompetitors(next, Action{Type: ActionMergeCompetitor, Payload: MergeCompetitorPayload{
		ID:     "rival",
		Fields: map[string]float64{"capability": 0.8, "funding": 100},
	}})
	assert.Equal(t, "Rival Labs", merged.Orgs["rival"].Name)
	assert.Equal(t, 0.8, merged.Orgs["rival"].Fields["capability"])
	assert.Equal(t, 100.0, merged.Orgs["rival"].Fields["funding"])
}

func TestReduceWorld_MergeGlobalAndRegion(t *testing.T) {
	old := game.NewGameState().World

	next := ReduceWorld(old, Action{Type: ActionMergeWorld, Payload: MergeWorldPayload{
		Fields: map[string]float64{"tension": 0.3},
	}})
	require.NotSame(t, old, next)
	assert.Equal(t, 0.3, next.Fields["tension"])

	regional := ReduceWorld(next, Action{Type: ActionMergeWorld, Payload: MergeWorldPayload{
		Region: "na",
		Name:   "North America",
		Fields: map[string]float64{"regulation": 0.5},
	}})
	require.Contains(t, regional.Regions, "na")
	assert.Equal(t, 0.5, regional.Regions["na"].Fields["regulation"])
	assert.Equal(t, 0.3, regional.Fields["tension"], "global fields carried forward")
}
