package research

import (
	"sort"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/reducer"
)

// ProcessTurn runs the per-turn progress pass over every InProgress node.
//
// For each node:
//
//	base  = computeAllocated / computeCost
//	base *= 1 + Σ additive category boosts for the node's category
//	base *= Π over deployments of (1 + node-specific boost)
//	base *= global computing-efficiency multiplier
//
// Crossing 1.0 completes the node that turn; excess beyond 1.0 is not
// banked. All progress values and completions from one pass land in a
// single state update before completion effects are applied.
func (e *Engine) ProcessTurn() {
	state := e.mgr.Current()
	res := state.Research
	if len(res.Active) == 0 {
		return
	}

	efficiency := state.Resources.Computing.Efficiency
	turn := state.Meta.Turn

	progress := make(map[string]float64, len(res.Active))
	rates := make(map[string]float64, len(res.Active))
	var completed []string

	for _, id := range res.Active {
		node, exists := res.Nodes[id]
		if !exists || node.Status != game.StatusInProgress {
			continue
		}

		base := node.ComputeAllocated / node.ComputeCost()
		base *= 1 + res.CategoryBoosts[node.Def.Category]
		for _, depID := range sortedKeys(node.DeploymentBoosts) {
			base *= 1 + node.DeploymentBoosts[depID]
		}
		base *= efficiency

		next := game.Clamp01(node.Progress + base)
		progress[id] = next
		rates[id] = base
		if next >= 1 {
			completed = append(completed, id)
		}
	}
	if len(progress) == 0 {
		return
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionApplyProgress, Payload: reducer.ApplyProgressPayload{
		Progress:  progress,
		Rates:     rates,
		Completed: completed,
	}})

	event := ProgressEvent{Turn: turn, Updates: make([]NodeProgress, 0, len(progress))}
	for _, id := range sortedKeys(progress) {
		event.Updates = append(event.Updates, NodeProgress{ID: id, Progress: progress[id], Rate: rates[id]})
	}
	e.bus.Emit(bus.TopicResearchProgress, event)

	for _, id := range completed {
		e.completeNode(id, turn)
	}
	if len(completed) > 0 {
		e.UpdateUnlocks()
	}
}

// completeNode releases the node's compute claim, announces the
// completion, applies declared effects as typed events, and performs the
// optional risk draw.
func (e *Engine) completeNode(id string, turn int) {
	node, exists := e.mgr.Current().Research.Nodes[id]
	if !exists {
		return
	}

	e.bus.Emit(bus.TopicResourceDeallocate, game.DeallocationRequest{Consumer: consumerID(id)})
	e.bus.Emit(bus.TopicResearchCompleted, CompletedEvent{ID: id, Turn: turn})
	e.logger.Info("research completed", "node", id, "turn", turn)

	e.applyEffects(id, node.Def.Effects)

	if p := node.Def.Risk.Probability; p > 0 {
		roll := e.risk.Draw()
		if roll < p {
			e.bus.Emit(bus.TopicGameEvent, game.RiskEvent{
				Type:     game.RiskEventType,
				NodeID:   id,
				Severity: node.Def.Risk.Severity,
				Roll:     roll,
			})
			e.logger.Info("research risk triggered", "node", id, "severity", node.Def.Risk.Severity, "roll", roll)
		}
	}
}

// applyEffects turns a completed node's declared effects into typed bus
// events and deployment-slice dispatches. Multiplier effects are consumed
// by the economy's effect-bundle recompute; unlocks and capacity grants
// are committed here and announced for external observers.
func (e *Engine) applyEffects(source string, effects game.Effects) {
	if effects.ComputeEfficiency != 0 {
		e.bus.Emit(bus.TopicResourceEffect, game.EffectEvent{
			Kind:   game.EffectComputeEfficiency,
			Value:  effects.ComputeEfficiency,
			Source: source,
		})
	}
	for _, ch := range game.InfluenceChannels {
		if delta, ok := effects.InfluenceMultipliers[ch]; ok && delta != 0 {
			e.bus.Emit(bus.TopicResourceEffect, game.EffectEvent{
				Kind:    game.EffectInfluenceMultiplier,
				Channel: ch,
				Value:   delta,
				Source:  source,
			})
		}
	}

	for _, depID := range effects.UnlockDeployments {
		e.mgr.Dispatch(reducer.Action{Type: reducer.ActionUnlockDeployment, Payload: reducer.UnlockDeploymentPayload{ID: depID}})
		e.bus.Emit(bus.TopicDeploymentUnlock, game.DeploymentUnlockEvent{ID: depID, Source: source})
	}
	for _, depID := range sortedIntKeys(effects.DeploymentCapacity) {
		delta := effects.DeploymentCapacity[depID]
		if delta == 0 {
			continue
		}
		e.mgr.Dispatch(reducer.Action{Type: reducer.ActionGrantCapacity, Payload: reducer.GrantCapacityPayload{ID: depID, Delta: delta}})
		e.bus.Emit(bus.TopicDeploymentCapacity, game.DeploymentCapacityEvent{ID: depID, Delta: delta, Source: source})
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
