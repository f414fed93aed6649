package reducer

import "github.com/oversight-games/ascent/internal/game"

// ReduceResources is the resources slice reducer.
//
// Pool allocation invariant: an allocate transition that would push the
// allocation sum past the pool total is rejected wholesale (input returned
// unchanged). The systems validate before dispatching; the reducer is the
// last line of defense for compute conservation.
func ReduceResources(old *game.Resources, a Action) *game.Resources {
	switch a.Type {
	case ActionSetComputeTotal:
		p, ok := a.Payload.(SetComputeTotalPayload)
		if !ok || p.Total < 0 || p.Total == old.Computing.Total {
			return old
		}
		next := old.Clone()
		next.Computing.Total = p.Total
		return next

	case ActionGrantFunding:
		p, ok := a.Payload.(GrantFundingPayload)
		if !ok || p.Amount == 0 {
			return old
		}
		next := old.Clone()
		next.Funding.Balance += p.Amount
		return next

	case ActionGrantData:
		p, ok := a.Payload.(GrantDataPayload)
		if !ok {
			return old
		}
		next := old.Clone()
		if p.Tier > next.Data.Tier {
			next.Data.Tier = p.Tier
		}
		for _, set := range p.Sets {
			next.Data.SpecializedSets[set] = true
		}
		for typ, rec := range p.Types {
			cur := next.Data.Types[typ]
			cur.Amount += rec.Amount
			if rec.Quality > cur.Quality {
				cur.Quality = rec.Quality
			}
			next.Data.Types[typ] = cur
		}
		return next

	case ActionAllocatePool:
		p, ok := a.Payload.(AllocatePoolPayload)
		if !ok || p.Consumer == "" || p.Amount <= 0 {
			return old
		}
		if old.Computing.Available() < p.Amount {
			return old
		}
		next := old.Clone()
		next.Computing.Allocations[p.Consumer] += p.Amount
		return next

	case ActionDeallocatePool:
		p, ok := a.Payload.(DeallocatePoolPayload)
		if !ok {
			return old
		}
		if _, exists := old.Computing.Allocations[p.Consumer]; !exists {
			return old
		}
		next := old.Clone()
		delete(next.Computing.Allocations, p.Consumer)
		return next

	case ActionApplyEffects:
		p, ok := a.Payload.(ApplyEffectsPayload)
		if !ok || p.Bundle.ComputingEfficiency == old.Computing.Efficiency {
			return old
		}
		next := old.Clone()
		next.Computing.Efficiency = p.Bundle.ComputingEfficiency
		return next

	case ActionTurnIncome:
		p, ok := a.Payload.(TurnIncomePayload)
		if !ok {
			return old
		}
		next := old.Clone()
		next.Funding.Balance += p.Funding
		if len(p.Influence) > 0 {
			applyInfluence(next.Influence, p.Influence, "turn income", p.Turn, p.Timestamp)
		}
		if p.DataQuality != 0 {
			for typ, rec := range next.Data.Types {
				rec.Quality = game.Clamp01(rec.Quality + p.DataQuality)
				next.Data.Types[typ] = rec
			}
		}
		return next

	case ActionGrowInfluence:
		p, ok := a.Payload.(GrowInfluencePayload)
		if !ok || len(p.Deltas) == 0 {
			return old
		}
		next := old.Clone()
		applyInfluence(next.Influence, p.Deltas, p.Reason, p.Turn, p.Timestamp)
		return next

	case ActionSpendResources:
		p, ok := a.Payload.(SpendPayload)
		if !ok {
			return old
		}
		next := old.Clone()
		next.Funding.Balance -= p.Cost.Funding
		if len(p.Cost.Influence) > 0 {
			deltas := make(map[game.InfluenceChannel]float64, len(p.Cost.Influence))
			for ch, amount := range p.Cost.Influence {
				deltas[ch] = -amount
			}
			applyInfluence(next.Influence, deltas, p.Reason, p.Turn, p.Timestamp)
		}
		for _, req := range p.Cost.DataTypes {
			if req.Amount == 0 {
				continue
			}
			rec := next.Data.Types[req.Type]
			rec.Amount -= req.Amount
			if rec.Amount < 0 {
				rec.Amount = 0
			}
			next.Data.Types[req.Type] = rec
		}
		next.Audit = append(next.Audit, game.AuditEntry{
			ID:        p.AuditID,
			Reason:    p.Reason,
			Turn:      p.Turn,
			Recurring: p.Recurring,
			Timestamp: p.Timestamp,
		})
		return next

	default:
		return old
	}
}

// applyInfluence mutates a cloned influence record: clamps every channel to
// [0,100] and appends a bounded history entry recording the previous full
// snapshot and the per-channel deltas.
func applyInfluence(inf *game.Influence, deltas map[game.InfluenceChannel]float64, reason string, turn int, timestamp int64) {
	previous := make(map[game.InfluenceChannel]float64, len(inf.Channels))
	for ch, v := range inf.Channels {
		previous[ch] = v
	}
	applied := make(map[game.InfluenceChannel]float64, len(deltas))
	for _, ch := range game.InfluenceChannels {
		d, ok := deltas[ch]
		if !ok || d == 0 {
			continue
		}
		inf.Channels[ch] = game.ClampInfluence(inf.Channels[ch] + d)
		applied[ch] = d
	}
	inf.History = append(inf.History, game.InfluenceRecord{
		Turn:      turn,
		Previous:  previous,
		Deltas:    applied,
		Reason:    reason,
		Timestamp: timestamp,
	})
	if len(inf.History) > game.InfluenceHistoryLimit {
		inf.History = inf.History[len(inf.History)-game.InfluenceHistoryLimit:]
	}
}
