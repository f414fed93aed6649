// Package research implements the dependency-graph state machine and the
// per-turn progress simulation.
//
// The engine never mutates state directly: it translates bus events and
// operation calls into dispatched actions, and reads whatever state it
// needs from the manager. Node status and progress are only ever written
// through the research reducer.
package research

import (
	"log/slog"
	"sort"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/content"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/manager"
	"github.com/oversight-games/ascent/internal/reducer"
)

// Engine drives the research dependency graph.
type Engine struct {
	logger *slog.Logger
	bus    *bus.Bus
	mgr    *manager.Manager
	risk   RiskSource

	unsubs []func()
}

// New creates a research engine. All collaborators are injected; the
// engine holds no global state.
func New(logger *slog.Logger, b *bus.Bus, mgr *manager.Manager, risk RiskSource) *Engine {
	return &Engine{logger: logger, bus: b, mgr: mgr, risk: risk}
}

// Bind subscribes the engine to its consumed topics. Call once at game
// assembly, after the economy is bound: both systems react to
// deployment:active, and the economy must record the deployment into
// state before boosts are recomputed from it.
func (e *Engine) Bind() {
	e.unsubs = append(e.unsubs,
		e.bus.Subscribe(bus.TopicTurnEnding, func(any) { e.ProcessTurn() }),
		e.bus.Subscribe(bus.TopicActionStart, func(payload any) {
			if req, ok := payload.(game.StartResearchRequest); ok {
				e.StartResearch(req.ID, req.Compute)
			}
		}),
		e.bus.Subscribe(bus.TopicActionCancel, func(payload any) {
			if req, ok := payload.(game.CancelResearchRequest); ok {
				e.CancelResearch(req.ID)
			}
		}),
		e.bus.Subscribe(bus.TopicActionAllocate, func(payload any) {
			if req, ok := payload.(game.AllocateComputeRequest); ok {
				e.AllocateCompute(req.ID, req.Amount)
			}
		}),
		e.bus.Subscribe(bus.TopicDeploymentActive, func(any) { e.RecomputeBoosts() }),
		e.bus.Subscribe(bus.TopicStateLoaded, func(any) {
			// A loaded snapshot has no lineage; re-derive everything that
			// is normally maintained incrementally.
			e.UpdateUnlocks()
			e.RecomputeBoosts()
		}),
	)
}

// Close unsubscribes the engine from the bus.
func (e *Engine) Close() {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
}

// InitNodes installs the runtime nodes for a validated content pack and
// runs the first unlock-propagation pass, flipping prerequisite-free
// roots to Unlocked.
func (e *Engine) InitNodes(pack *content.Pack) {
	nodes := content.BuildNodes(pack)
	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionInitNodes, Payload: reducer.InitNodesPayload{Nodes: nodes}})
	e.UpdateUnlocks()

	unlocked := 0
	for _, node := range e.mgr.Current().Research.Nodes {
		if node.Status == game.StatusUnlocked {
			unlocked++
		}
	}
	e.bus.Emit(bus.TopicResearchInitialized, InitializedEvent{Nodes: len(nodes), Unlocked: unlocked})
	e.logger.Info("research initialized", "nodes", len(nodes), "unlocked", unlocked)
}

// consumerID is the compute-pool consumer key for a node.
func consumerID(nodeID string) string {
	return "research:" + nodeID
}

// StartResearch transitions an Unlocked node to InProgress with an
// initial compute allocation.
//
// Allocation is resolved synchronously: the engine checks pool headroom,
// requests the allocation on the bus, and confirms it landed in state
// before transitioning the node. A failed or unconfirmed allocation
// aborts the start with no mutation.
func (e *Engine) StartResearch(id string, computeAmount float64) bool {
	state := e.mgr.Current()
	node, exists := state.Research.Nodes[id]
	if !exists {
		e.logger.Warn("start research rejected: unknown node", "node", id)
		return false
	}
	if node.Status != game.StatusUnlocked {
		e.logger.Warn("start research rejected: wrong status", "node", id, "status", node.Status)
		return false
	}
	if computeAmount <= 0 {
		e.logger.Warn("start research rejected: non-positive compute", "node", id, "compute", computeAmount)
		return false
	}
	if state.Resources.Computing.Available() < computeAmount {
		e.logger.Warn("start research rejected: insufficient compute",
			"node", id,
			"requested", computeAmount,
			"available", state.Resources.Computing.Available(),
		)
		return false
	}

	consumer := consumerID(id)
	e.bus.Emit(bus.TopicResourceAllocate, game.AllocationRequest{Consumer: consumer, Amount: computeAmount})
	if e.mgr.Current().Resources.Computing.Allocations[consumer] < computeAmount {
		e.logger.Warn("start research aborted: allocation not confirmed", "node", id, "compute", computeAmount)
		return false
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionStartResearch, Payload: reducer.StartResearchPayload{ID: id, Compute: computeAmount}})
	e.bus.Emit(bus.TopicResearchStarted, StartedEvent{ID: id, Compute: computeAmount})
	e.logger.Info("research started", "node", id, "compute", computeAmount)
	return true
}

// CancelResearch reverts an InProgress node to Unlocked, releasing its
// compute claim and preserving partial progress.
func (e *Engine) CancelResearch(id string) bool {
	node, exists := e.mgr.Current().Research.Nodes[id]
	if !exists {
		e.logger.Warn("cancel research rejected: unknown node", "node", id)
		return false
	}
	if node.Status != game.StatusInProgress {
		e.logger.Warn("cancel research rejected: wrong status", "node", id, "status", node.Status)
		return false
	}

	e.bus.Emit(bus.TopicResourceDeallocate, game.DeallocationRequest{Consumer: consumerID(id)})
	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionCancelResearch, Payload: reducer.CancelResearchPayload{ID: id}})
	e.bus.Emit(bus.TopicResearchCancelled, CancelledEvent{ID: id, Progress: node.Progress})
	e.logger.Info("research cancelled", "node", id, "progress", node.Progress)
	return true
}

// AllocateCompute increases an InProgress node's allocation, requesting
// the corresponding pool allocation synchronously.
func (e *Engine) AllocateCompute(id string, amount float64) bool {
	state := e.mgr.Current()
	node, exists := state.Research.Nodes[id]
	if !exists {
		e.logger.Warn("allocate compute rejected: unknown node", "node", id)
		return false
	}
	if node.Status != game.StatusInProgress {
		e.logger.Warn("allocate compute rejected: wrong status", "node", id, "status", node.Status)
		return false
	}
	if amount <= 0 {
		e.logger.Warn("allocate compute rejected: non-positive amount", "node", id, "amount", amount)
		return false
	}
	if state.Resources.Computing.Available() < amount {
		e.logger.Warn("allocate compute rejected: insufficient compute",
			"node", id,
			"requested", amount,
			"available", state.Resources.Computing.Available(),
		)
		return false
	}

	consumer := consumerID(id)
	before := state.Resources.Computing.Allocations[consumer]
	e.bus.Emit(bus.TopicResourceAllocate, game.AllocationRequest{Consumer: consumer, Amount: amount})
	if e.mgr.Current().Resources.Computing.Allocations[consumer] < before+amount {
		e.logger.Warn("allocate compute aborted: allocation not confirmed", "node", id, "amount", amount)
		return false
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionAllocateNodeCompute, Payload: reducer.AllocateNodeComputePayload{ID: id, Amount: amount}})
	total := node.ComputeAllocated + amount
	e.bus.Emit(bus.TopicResearchComputeAlloc, ComputeAllocatedEvent{ID: id, Amount: amount, Total: total})
	return true
}

// CanAffordResearch is a pure predicate over compute availability,
// influence sufficiency and required-deployment presence. No mutation, no
// logging.
func (e *Engine) CanAffordResearch(id string) bool {
	state := e.mgr.Current()
	node, exists := state.Research.Nodes[id]
	if !exists {
		return false
	}
	if state.Resources.Computing.Available() <= 0 {
		return false
	}
	for ch, required := range node.Def.Cost.Influence {
		if state.Resources.Influence.Channels[ch] < required {
			return false
		}
	}
	for _, dep := range node.Def.RequiredDeployments {
		if !state.Deployments.Unlocked[dep] {
			return false
		}
	}
	return true
}

// UpdateUnlocks runs one unlock-propagation pass: every node outside
// {InProgress, Completed} is flipped to Unlocked iff all prerequisites
// are completed and no exclusion is completed, to Locked otherwise. All
// flips from the pass land in a single state update.
func (e *Engine) UpdateUnlocks() {
	state := e.mgr.Current()
	res := state.Research
	completed := res.CompletedSet()

	ids := make([]string, 0, len(res.Nodes))
	for id := range res.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	changes := make(map[string]game.NodeStatus)
	for _, id := range ids {
		node := res.Nodes[id]
		if node.Status == game.StatusInProgress || node.Status == game.StatusCompleted {
			continue
		}
		want := game.StatusUnlocked
		for _, dep := range node.Def.Prerequisites {
			if !completed[dep] {
				want = game.StatusLocked
				break
			}
		}
		if want == game.StatusUnlocked {
			for _, excl := range node.Def.Excludes {
				if completed[excl] {
					want = game.StatusLocked
					break
				}
			}
		}
		if node.Status != want {
			changes[id] = want
		}
	}
	if len(changes) == 0 {
		return
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionSetStatuses, Payload: reducer.SetStatusesPayload{Statuses: changes}})

	event := StatusesEvent{Changes: make([]StatusChange, 0, len(changes))}
	for _, id := range ids {
		if status, ok := changes[id]; ok {
			event.Changes = append(event.Changes, StatusChange{ID: id, Status: status})
		}
	}
	e.bus.Emit(bus.TopicResearchStatusesUpdated, event)
}

// RecomputeBoosts re-derives the category and per-node boost mappings
// from the active deployments and installs them in the research slice.
// Always from scratch, like the effect bundle.
func (e *Engine) RecomputeBoosts() {
	deployments := e.mgr.Current().Deployments

	depIDs := make([]string, 0, len(deployments.Active))
	for id := range deployments.Active {
		depIDs = append(depIDs, id)
	}
	sort.Strings(depIDs)

	categories := make(map[string]float64)
	nodeBoosts := make(map[string]map[string]float64)
	for _, depID := range depIDs {
		effects := deployments.Active[depID].Effects
		for cat, boost := range effects.CategoryBoosts {
			categories[cat] += boost
		}
		for nodeID, boost := range effects.NodeBoosts {
			if nodeBoosts[nodeID] == nil {
				nodeBoosts[nodeID] = make(map[string]float64)
			}
			nodeBoosts[nodeID][depID] = boost
		}
	}

	e.mgr.Dispatch(reducer.Action{Type: reducer.ActionSetBoosts, Payload: reducer.SetBoostsPayload{
		CategoryBoosts: categories,
		NodeBoosts:     nodeBoosts,
	}})
	e.bus.Emit(bus.TopicResearchBoostsUpdated, BoostsEvent{Categories: len(categories), Nodes: len(nodeBoosts)})
}
