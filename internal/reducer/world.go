package reducer

import "github.com/oversight-games/ascent/internal/game"

// ReduceDeployments is the deployments slice reducer.
func ReduceDeployments(old *game.Deployments, a Action) *game.Deployments {
	switch a.Type {
	case ActionActivateDeployment:
		p, ok := a.Payload.(ActivateDeploymentPayload)
		if !ok || p.Deployment == nil || p.Deployment.ID == "" {
			return old
		}
		next := old.Clone()
		next.Active[p.Deployment.ID] = p.Deployment
		return next

	case ActionUnlockDeployment:
		p, ok := a.Payload.(UnlockDeploymentPayload)
		if !ok || p.ID == "" || old.Unlocked[p.ID] {
			return old
		}
		next := old.Clone()
		next.Unlocked[p.ID] = true
		return next

	case ActionGrantCapacity:
		p, ok := a.Payload.(GrantCapacityPayload)
		if !ok || p.ID == "" || p.Delta == 0 {
			return old
		}
		next := old.Clone()
		next.Capacity[p.ID] += p.Delta
		return next

	default:
		return old
	}
}

// ReduceCompetitors is the competitors slice reducer. Merges are trivial
// field overwrites.
func ReduceCompetitors(old *game.Competitors, a Action) *game.Competitors {
	p, ok := a.Payload.(MergeCompetitorPayload)
	if a.Type != ActionMergeCompetitor || !ok || p.ID == "" {
		return old
	}
	next := old.Clone()
	org, exists := next.Orgs[p.ID]
	if !exists {
		org = &game.Organization{ID: p.ID, Fields: map[string]float64{}}
		next.Orgs[p.ID] = org
	}
	if p.Name != "" {
		org.Name = p.Name
	}
	for k, v := range p.Fields {
		org.Fields[k] = v
	}
	return next
}

// ReduceWorld is the world slice reducer.
func ReduceWorld(old *game.World, a Action) *game.World {
	p, ok := a.Payload.(MergeWorldPayload)
	if a.Type != ActionMergeWorld || !ok {
		return old
	}
	next := old.Clone()
	if p.Region == "" {
		for k, v := range p.Fields {
			next.Fields[k] = v
		}
		return next
	}
	region, exists := next.Regions[p.Region]
	if !exists {
		region = &game.Region{ID: p.Region, Fields: map[string]float64{}}
		next.Regions[p.Region] = region
	}
	if p.Name != "" {
		region.Name = p.Name
	}
	for k, v := range p.Fields {
		region.Fields[k] = v
	}
	return next
}
