package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/content"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/reducer"
	"github.com/oversight-games/ascent/internal/testutil"
)

func TestProcessTurn_CategoryBoostSpeedsProgress(t *testing.T) {
	g := newTestGame(t, testutil.NewScriptedRisk(), testutil.FixturePack(), 400)

	require.True(t, g.eng.StartResearch("scaling-laws", 100))
	g.eng.ProcessTurn()
	require.Equal(t, game.StatusCompleted, g.node("scaling-laws").Status)

	// Activating the cluster installs a +50% capabilities boost.
	g.bus.Emit(bus.TopicDeploymentActive, &game.Deployment{
		ID:      "inference-cluster",
		Name:    "Inference Cluster",
		Effects: game.Effects{CategoryBoosts: map[string]float64{"capabilities": 0.5}},
	})
	require.Equal(t, 0.5, g.mgr.Current().Research.CategoryBoosts["capabilities"])

	// 100/200 base rate * 1.5 category boost = 0.75.
	require.True(t, g.eng.StartResearch("distributed-training", 100))
	g.eng.ProcessTurn()
	assert.Equal(t, 0.75, g.node("distributed-training").Progress)
	assert.Equal(t, 0.75, g.node("distributed-training").EffectiveComputeRate)
}

func TestProcessTurn_NodeBoostMultiplies(t *testing.T) {
	pack := &content.Pack{
		Nodes: []game.NodeDef{
			{ID: "target", Name: "Target", Category: "capabilities", Cost: game.Cost{Compute: 100}},
		},
		Deployments: []game.DeploymentDef{
			{ID: "assistant", Name: "Assistant"},
		},
	}
	g := newTestGame(t, testutil.NewScriptedRisk(), pack, 200)

	g.bus.Emit(bus.TopicDeploymentActive, &game.Deployment{
		ID:      "assistant",
		Effects: game.Effects{NodeBoosts: map[string]float64{"target": 0.25}},
	})
	require.Equal(t, 0.25, g.node("target").DeploymentBoosts["assistant"])

	// 40/100 * 1.25 = 0.5.
	require.True(t, g.eng.StartResearch("target", 40))
	g.eng.ProcessTurn()
	assert.Equal(t, 0.5, g.node("target").Progress)
}

func TestProcessTurn_EfficiencyMultiplies(t *testing.T) {
	g := newTestGame(t, testutil.NewScriptedRisk(), testutil.FixturePack(), 200)

	bundle := game.NeutralEffects()
	bundle.ComputingEfficiency = 2.0
	g.mgr.Dispatch(reducer.Action{Type: reducer.ActionApplyEffects, Payload: reducer.ApplyEffectsPayload{Bundle: bundle}})

	// 25/100 * 2.0 efficiency = 0.5.
	require.True(t, g.eng.StartResearch("scaling-laws", 25))
	g.eng.ProcessTurn()
	assert.Equal(t, 0.5, g.node("scaling-laws").Progress)
}

func TestProcessTurn_ProgressEventSortedByID(t *testing.T) {
	g := newTestGame(t, testutil.NewScriptedRisk(), testutil.FixturePack(), 400)

	require.True(t, g.eng.StartResearch("scaling-laws", 100))
	g.eng.ProcessTurn()

	// Start in non-sorted order; the event reports sorted by id.
	require.True(t, g.eng.StartResearch("open-weights", 10))
	require.True(t, g.eng.StartResearch("closed-weights", 10))
	require.True(t, g.eng.StartResearch("distributed-training", 10))

	var event ProgressEvent
	g.bus.Subscribe(bus.TopicResearchProgress, func(payload any) { event = payload.(ProgressEvent) })
	g.eng.ProcessTurn()

	require.Len(t, event.Updates, 3)
	assert.Equal(t, "closed-weights", event.Updates[0].ID)
	assert.Equal(t, "distributed-training", event.Updates[1].ID)
	assert.Equal(t, "open-weights", event.Updates[2].ID)
}

func TestProcessTurn_NoActiveNodesIsSilent(t *testing.T) {
	g := newTestGame(t, testutil.NewScriptedRisk(), testutil.FixturePack(), 200)

	fired := false
	g.bus.Subscribe(bus.TopicResearchProgress, func(any) { fired = true })

	g.eng.ProcessTurn()
	assert.False(t, fired)
}

func riskPack(probability float64) *content.Pack {
	return &content.Pack{
		Nodes: []game.NodeDef{
			{
				ID:       "reckless",
				Name:     "Reckless Experiment",
				Category: "capabilities",
				Cost:     game.Cost{Compute: 100},
				Risk:     game.Risk{Probability: probability, Severity: "major"},
			},
		},
	}
}

func TestProcessTurn_RiskDrawBelowProbabilityFires(t *testing.T) {
	risk := testutil.NewScriptedRisk(0.3)
	g := newTestGame(t, risk, riskPack(0.5), 200)

	var events []game.RiskEvent
	g.bus.Subscribe(bus.TopicGameEvent, func(payload any) { events = append(events, payload.(game.RiskEvent)) })

	require.True(t, g.eng.StartResearch("reckless", 100))
	g.eng.ProcessTurn()

	require.Len(t, events, 1)
	assert.Equal(t, game.RiskEvent{Type: game.RiskEventType, NodeID: "reckless", Severity: "major", Roll: 0.3}, events[0])
	assert.Zero(t, risk.Remaining(), "exactly one draw per risky completion")
}

func TestProcessTurn_RiskDrawAboveProbabilityIsSilent(t *testing.T) {
	risk := testutil.NewScriptedRisk(0.9)
	g := newTestGame(t, risk, riskPack(0.5), 200)

	fired := false
	g.bus.Subscribe(bus.TopicGameEvent, func(any) { fired = true })

	require.True(t, g.eng.StartResearch("reckless", 100))
	g.eng.ProcessTurn()

	assert.False(t, fired)
	assert.Zero(t, risk.Remaining())
	assert.Equal(t, game.StatusCompleted, g.node("reckless").Status, "completion does not depend on the draw")
}

func TestProcessTurn_NoRiskNodeNeverDraws(t *testing.T) {
	// A scripted source with no draws panics when drawn; completing a
	// risk-free node must not touch it.
	g := newTestGame(t, testutil.NewScriptedRisk(), testutil.FixturePack(), 200)

	require.True(t, g.eng.StartResearch("scaling-laws", 100))
	require.NotPanics(t, func() { g.eng.ProcessTurn() })
	assert.Equal(t, game.StatusCompleted, g.node("scaling-laws").Status)
}

func TestSeededRisk_Deterministic(t *testing.T) {
	a := NewSeededRisk(7)
	b := NewSeededRisk(7)
	for i := 0; i < 10; i++ {
		draw := a.Draw()
		assert.Equal(t, draw, b.Draw(), "same seed must replay the same sequence")
		assert.GreaterOrEqual(t, draw, 0.0)
		assert.Less(t, draw, 1.0)
	}

	c := NewSeededRisk(8)
	assert.NotEqual(t, NewSeededRisk(7).Draw(), c.Draw(), "different seeds diverge")
}
