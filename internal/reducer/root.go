package reducer

import "github.com/oversight-games/ascent/internal/game"

// Root fans one action out to every slice reducer independently and
// assembles a new aggregate only when at least one slice changed.
//
// When no slice reducer produced a new pointer, the input aggregate is
// returned unchanged, so identity comparison at the state manager detects
// pure no-op dispatches.
func Root(old *game.GameState, a Action) *game.GameState {
	meta := ReduceMeta(old.Meta, a)
	resources := ReduceResources(old.Resources, a)
	research := ReduceResearch(old.Research, a)
	deployments := ReduceDeployments(old.Deployments, a)
	competitors := ReduceCompetitors(old.Competitors, a)
	world := ReduceWorld(old.World, a)

	if meta == old.Meta &&
		resources == old.Resources &&
		research == old.Research &&
		deployments == old.Deployments &&
		competitors == old.Competitors &&
		world == old.World {
		return old
	}

	return &game.GameState{
		Meta:        meta,
		Resources:   resources,
		Research:    research,
		Deployments: deployments,
		Competitors: competitors,
		World:       world,
	}
}
