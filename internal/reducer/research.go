package reducer

import "github.com/oversight-games/ascent/internal/game"

// ReduceResearch is the research slice reducer.
//
// Status guards live here as well as in the engine: a malformed or stale
// action never violates completion monotonicity or the node lifecycle,
// because the reducer returns its input unchanged instead of applying it.
func ReduceResearch(old *game.Research, a Action) *game.Research {
	switch a.Type {
	case ActionInitNodes:
		p, ok := a.Payload.(InitNodesPayload)
		if !ok || len(p.Nodes) == 0 {
			return old
		}
		next := game.NewResearch()
		for id, node := range p.Nodes {
			next.Nodes[id] = node
		}
		return next

	case ActionStartResearch:
		p, ok := a.Payload.(StartResearchPayload)
		if !ok || p.Compute <= 0 {
			return old
		}
		node, exists := old.Nodes[p.ID]
		if !exists || node.Status != game.StatusUnlocked {
			return old
		}
		next := old.Clone()
		started := node.Clone()
		started.Status = game.StatusInProgress
		started.ComputeAllocated = p.Compute
		next.Nodes[p.ID] = started
		next.Active = append(next.Active, p.ID)
		return next

	case ActionCancelResearch:
		p, ok := a.Payload.(CancelResearchPayload)
		if !ok {
			return old
		}
		node, exists := old.Nodes[p.ID]
		if !exists || node.Status != game.StatusInProgress {
			return old
		}
		next := old.Clone()
		cancelled := node.Clone()
		cancelled.Status = game.StatusUnlocked
		cancelled.ComputeAllocated = 0
		// Progress is preserved: partial work is resumable.
		next.Nodes[p.ID] = cancelled
		next.Active = removeID(next.Active, p.ID)
		return next

	case ActionAllocateNodeCompute:
		p, ok := a.Payload.(AllocateNodeComputePayload)
		if !ok || p.Amount <= 0 {
			return old
		}
		node, exists := old.Nodes[p.ID]
		if !exists || node.Status != game.StatusInProgress {
			return old
		}
		next := old.Clone()
		boosted := node.Clone()
		boosted.ComputeAllocated += p.Amount
		next.Nodes[p.ID] = boosted
		return next

	case ActionApplyProgress:
		p, ok := a.Payload.(ApplyProgressPayload)
		if !ok || (len(p.Progress) == 0 && len(p.Completed) == 0) {
			return old
		}
		next := old.Clone()
		changed := false
		for id, progress := range p.Progress {
			node, exists := next.Nodes[id]
			if !exists || node.Status != game.StatusInProgress {
				continue
			}
			// Progress is non-decreasing while InProgress.
			if progress < node.Progress {
				continue
			}
			advanced := node.Clone()
			advanced.Progress = game.Clamp01(progress)
			if rate, ok := p.Rates[id]; ok {
				advanced.EffectiveComputeRate = rate
			}
			next.Nodes[id] = advanced
			changed = true
		}
		completedSet := next.CompletedSet()
		for _, id := range p.Completed {
			node, exists := next.Nodes[id]
			if !exists || node.Status != game.StatusInProgress || completedSet[id] {
				continue
			}
			done := node.Clone()
			done.Status = game.StatusCompleted
			done.Progress = 1
			done.ComputeAllocated = 0
			next.Nodes[id] = done
			next.Active = removeID(next.Active, id)
			next.Completed = append(next.Completed, id)
			changed = true
		}
		if !changed {
			return old
		}
		return next

	case ActionSetStatuses:
		p, ok := a.Payload.(SetStatusesPayload)
		if !ok || len(p.Statuses) == 0 {
			return old
		}
		var next *game.Research
		for id, status := range p.Statuses {
			base := old
			if next != nil {
				base = next
			}
			node, exists := base.Nodes[id]
			if !exists || node.Status == status {
				continue
			}
			// Only Locked ⇄ Unlocked flips are legal here; terminal and
			// in-flight nodes are untouchable by propagation.
			if node.Status == game.StatusCompleted || node.Status == game.StatusInProgress {
				continue
			}
			if status != game.StatusLocked && status != game.StatusUnlocked {
				continue
			}
			if next == nil {
				next = old.Clone()
			}
			flipped := next.Nodes[id].Clone()
			flipped.Status = status
			next.Nodes[id] = flipped
		}
		if next == nil {
			return old
		}
		return next

	case ActionSetBoosts:
		p, ok := a.Payload.(SetBoostsPayload)
		if !ok {
			return old
		}
		next := old.Clone()
		next.CategoryBoosts = make(map[string]float64, len(p.CategoryBoosts))
		for cat, boost := range p.CategoryBoosts {
			next.CategoryBoosts[cat] = boost
		}
		for id, node := range next.Nodes {
			boosts := p.NodeBoosts[id]
			if len(boosts) == 0 && len(node.DeploymentBoosts) == 0 {
				continue
			}
			updated := node.Clone()
			updated.DeploymentBoosts = make(map[string]float64, len(boosts))
			for dep, boost := range boosts {
				updated.DeploymentBoosts[dep] = boost
			}
			next.Nodes[id] = updated
		}
		return next

	default:
		return old
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
