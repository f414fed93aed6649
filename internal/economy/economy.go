// Package economy implements affordability checks, atomic spending, the
// compute pool bookkeeping, and the derived effect bundle.
//
// The effect bundle is recomputed from scratch on every recomputation
// call by folding over all active effect sources. It is never updated
// incrementally, so it cannot drift, and it is the sole channel by which
// deployments affect resource growth and research speed.
package economy

import (
	"log/slog"
	"sort"
	"time"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/manager"
	"github.com/oversight-games/ascent/internal/reducer"
)

// Economy is the resource system.
type Economy struct {
	logger *slog.Logger
	bus    *bus.Bus
	mgr    *manager.Manager
	ids    IDGenerator
	now    func() time.Time

	unsubs []func()
}

// Option configures an Economy.
type Option func(*Economy)

// WithClock injects the time source used for audit and history
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Economy) {
		e.now = now
	}
}

// New creates an economy. All collaborators are injected.
func New(logger *slog.Logger, b *bus.Bus, mgr *manager.Manager, ids IDGenerator, opts ...Option) *Economy {
	e := &Economy{logger: logger, bus: b, mgr: mgr, ids: ids, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind subscribes the economy to its consumed topics. Call before binding
// the research engine so deployment activations are committed to state
// before research derives boosts from them.
func (e *Economy) Bind() {
	e.unsubs = append(e.unsubs,
		e.bus.Subscribe(bus.TopicResourceAllocate, func(payload any) {
			if req, ok := payload.(game.AllocationRequest); ok {
				e.handleAllocate(req)
			}
		}),
		e.bus.Subscribe(bus.TopicResourceDeallocate, func(payload any) {
			if req, ok := payload.(game.DeallocationRequest); ok {
				e.mgr.Dispatch(reducer.Action{Type: reducer.ActionDeallocatePool, Payload: reducer.DeallocatePoolPayload{Consumer: req.Consumer}})
			}
		}),
		e.bus.Subscribe(bus.TopicResourceEffect, func(any) {
			// A completed node declared a multiplier; fold it in by
			// re-deriving the whole bundle from state.
			e.RecomputeEffects()
		}),
		e.bus.Subscribe(bus.TopicDeploymentActive, func(payload any) {
			if dep, ok := payload.(*game.Deployment); ok {
				e.handleDeploymentActive(dep)
			}
		}),
		e.bus.Subscribe(bus.TopicTurnStart, func(any) { e.applyTurnIncome() }),
	)
}

// Close unsubscribes the economy from the bus.
func (e *Economy) Close() {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
}

// CanAfford is a structural predicate over an optional-field cost
// descriptor: every present field must be simultaneously satisfiable,
// absent fields are vacuously true. No mutation.
func (e *Economy) CanAfford(cost game.Cost) bool {
	state := e.mgr.Current()
	res := state.Resources

	if cost.Compute > 0 && res.Computing.Available() < cost.Compute {
		return false
	}
	if cost.Funding > 0 && res.Funding.Balance < cost.Funding {
		return false
	}
	for ch, required := range cost.Influence {
		if res.Influence.Channels[ch] < required {
			return false
		}
	}
	if cost.DataTier > 0 && res.Data.Tier < cost.DataTier {
		return false
	}
	for _, set := range cost.SpecializedSets {
		if !res.Data.SpecializedSets[set] {
			return false
		}
	}
	for _, req := range cost.DataTypes {
		rec := res.Data.Types[req.Type]
		if rec.Amount < req.Amount || rec.Quality < req.MinQuality {
			return false
		}
	}
	return true
}

// SpendResources re-validates affordability and, if affordable, applies
// all deductions in one transition together with an audit entry.
// All-or-nothing: an unaffordable cost returns false, emits a failure
// event, and mutates nothing.
func (e *Economy) SpendResources(cost game.Cost, reason string) bool {
	if !e.CanAfford(cost) {
		e.logger.Warn("spend rejected: unaffordable", "reason", reason)
		e.bus.Emit(bus.TopicResourceSpendFailed, game.SpendFailedEvent{Reason: reason, Cost: cost})
		return false
	}

	auditID := e.ids.NewID()
	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionSpendResources, Payload: reducer.SpendPayload{
		Cost:      cost,
		AuditID:   auditID,
		Reason:    reason,
		Turn:      e.mgr.Current().Meta.Turn,
		Recurring: false,
		Timestamp: e.now().UnixMilli(),
	}})
	e.bus.Emit(bus.TopicResourcesSpent, game.SpentEvent{AuditID: auditID, Reason: reason, Cost: cost})
	e.logger.Info("resources spent", "reason", reason, "audit", auditID)
	return true
}

// GrowInfluence applies per-channel influence deltas with clamping and a
// history entry.
func (e *Economy) GrowInfluence(deltas map[game.InfluenceChannel]float64, reason string) {
	if len(deltas) == 0 {
		return
	}
	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionGrowInfluence, Payload: reducer.GrowInfluencePayload{
		Deltas:    deltas,
		Reason:    reason,
		Turn:      e.mgr.Current().Meta.Turn,
		Timestamp: e.now().UnixMilli(),
	}})
}

// RecomputeEffects re-derives the effect bundle from scratch: active
// deployments (sorted by id) and completed research nodes (completion
// order) each fold their declared effects in. The bundle's computing
// efficiency is installed into the resources slice and the full bundle is
// announced on resource:effects:updated.
func (e *Economy) RecomputeEffects() game.EffectBundle {
	state := e.mgr.Current()
	bundle := game.NeutralEffects()

	depIDs := make([]string, 0, len(state.Deployments.Active))
	for id := range state.Deployments.Active {
		depIDs = append(depIDs, id)
	}
	sort.Strings(depIDs)
	for _, id := range depIDs {
		bundle.Fold(state.Deployments.Active[id].Effects)
	}

	for _, id := range state.Research.Completed {
		if node, exists := state.Research.Nodes[id]; exists {
			bundle.Fold(node.Def.Effects)
		}
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionApplyEffects, Payload: reducer.ApplyEffectsPayload{Bundle: bundle}})
	e.bus.Emit(bus.TopicResourceEffectsUpdated, bundle)
	return bundle
}

// handleAllocate validates and commits a compute pool allocation request.
// Validation failure is non-fatal: log and drop, no mutation. Requesters
// that need confirmation read the allocation back from state.
func (e *Economy) handleAllocate(req game.AllocationRequest) {
	if req.Consumer == "" || req.Amount <= 0 {
		e.logger.Warn("allocation rejected: bad request", "consumer", req.Consumer, "amount", req.Amount)
		return
	}
	available := e.mgr.Current().Resources.Computing.Available()
	if available < req.Amount {
		e.logger.Warn("allocation rejected: insufficient pool",
			"consumer", req.Consumer,
			"requested", req.Amount,
			"available", available,
		)
		return
	}
	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionAllocatePool, Payload: reducer.AllocatePoolPayload{
		Consumer: req.Consumer,
		Amount:   req.Amount,
	}})
}

// handleDeploymentActive records an externally activated deployment and
// re-derives the effect bundle from the new source set.
func (e *Economy) handleDeploymentActive(dep *game.Deployment) {
	if dep == nil || dep.ID == "" {
		e.logger.Warn("deployment activation rejected: missing id")
		return
	}
	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionActivateDeployment, Payload: reducer.ActivateDeploymentPayload{Deployment: dep}})
	e.RecomputeEffects()
	e.logger.Info("deployment active", "deployment", dep.ID)
}

// applyTurnIncome applies one turn's derived income: flat generation
// bonuses scaled by their multipliers, plus the data-quality bonus as a
// per-turn quality improvement.
func (e *Economy) applyTurnIncome() {
	bundle := e.RecomputeEffects()

	funding := bundle.FundingGeneration * bundle.FundingMultiplier
	influence := make(map[game.InfluenceChannel]float64)
	for _, ch := range game.InfluenceChannels {
		if gen := bundle.InfluenceGeneration[ch]; gen != 0 {
			influence[ch] = gen * bundle.InfluenceMultipliers[ch]
		}
	}
	if funding == 0 && len(influence) == 0 && bundle.DataQualityBonus == 0 {
		return
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionTurnIncome, Payload: reducer.TurnIncomePayload{
		Funding:     funding,
		Influence:   influence,
		DataQuality: bundle.DataQualityBonus,
		Turn:        e.mgr.Current().Meta.Turn,
		Timestamp:   e.now().UnixMilli(),
	}})
}
