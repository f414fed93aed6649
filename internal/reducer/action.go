// Package reducer defines the action vocabulary and the pure slice
// reducers that compose into the core's single state transition function.
//
// Every reducer maps (old slice, action) → new slice and obeys the no-op
// identity law: when an action does not apply to a slice, the reducer
// returns its input pointer unchanged. Identity-based change detection in
// the state manager depends on this.
//
// Reducers never read or write another slice and never call each other;
// cross-slice effects happen only through bus events driving further
// dispatches from the systems.
package reducer

import "github.com/oversight-games/ascent/internal/game"

// ActionType names one state transition.
type ActionType string

const (
	// Meta slice.
	ActionAdvanceTurn ActionType = "meta/advance_turn"
	ActionTouchSaved  ActionType = "meta/touch_saved"

	// Resources slice.
	ActionSetComputeTotal ActionType = "resources/set_compute_total"
	ActionGrantFunding    ActionType = "resources/grant_funding"
	ActionGrantData       ActionType = "resources/grant_data"
	ActionAllocatePool    ActionType = "resources/allocate_pool"
	ActionDeallocatePool  ActionType = "resources/deallocate_pool"
	ActionApplyEffects    ActionType = "resources/apply_effects"
	ActionTurnIncome      ActionType = "resources/turn_income"
	ActionGrowInfluence   ActionType = "resources/grow_influence"
	ActionSpendResources  ActionType = "resources/spend"

	// Research slice.
	ActionInitNodes           ActionType = "research/init_nodes"
	ActionStartResearch       ActionType = "research/start"
	ActionCancelResearch      ActionType = "research/cancel"
	ActionAllocateNodeCompute ActionType = "research/allocate_compute"
	ActionApplyProgress       ActionType = "research/apply_progress"
	ActionSetStatuses         ActionType = "research/set_statuses"
	ActionSetBoosts           ActionType = "research/set_boosts"

	// Deployments slice.
	ActionActivateDeployment ActionType = "deployments/activate"
	ActionUnlockDeployment   ActionType = "deployments/unlock"
	ActionGrantCapacity      ActionType = "deployments/grant_capacity"

	// Competitors / world slices.
	ActionMergeCompetitor ActionType = "competitors/merge"
	ActionMergeWorld      ActionType = "world/merge"
)

// Action is one dispatched state transition request.
type Action struct {
	Type    ActionType
	Payload any
}

// AdvanceTurnPayload advances the turn counter and game time.
type AdvanceTurnPayload struct {
	Phase     string
	Timestamp int64
}

// TouchSavedPayload records a successful save timestamp.
type TouchSavedPayload struct {
	Timestamp int64
}

// SetComputeTotalPayload sets the compute pool capacity.
type SetComputeTotalPayload struct {
	Total float64
}

// GrantFundingPayload adds funding to the balance.
type GrantFundingPayload struct {
	Amount float64
}

// GrantDataPayload raises the data tier, adds specialized sets, and merges
// typed data records (amounts add; quality takes the maximum).
type GrantDataPayload struct {
	Tier  int
	Sets  []string
	Types map[string]game.DataTypeRecord
}

// AllocatePoolPayload adds amount to a consumer's pool allocation.
type AllocatePoolPayload struct {
	Consumer string
	Amount   float64
}

// DeallocatePoolPayload releases a consumer's entire pool allocation.
type DeallocatePoolPayload struct {
	Consumer string
}

// ApplyEffectsPayload installs the derived effect bundle's computing
// efficiency multiplier into the resources slice.
type ApplyEffectsPayload struct {
	Bundle game.EffectBundle
}

// TurnIncomePayload applies one turn's derived income in a single
// transition.
type TurnIncomePayload struct {
	Funding     float64
	Influence   map[game.InfluenceChannel]float64
	DataQuality float64
	Turn        int
	Timestamp   int64
}

// GrowInfluencePayload applies per-channel influence deltas with clamping
// and a history entry.
type GrowInfluencePayload struct {
	Deltas    map[game.InfluenceChannel]float64
	Reason    string
	Turn      int
	Timestamp int64
}

// SpendPayload applies all deductions of one affordable cost together with
// an audit entry. All-or-nothing: affordability is validated before
// dispatch.
type SpendPayload struct {
	Cost      game.Cost
	AuditID   string
	Reason    string
	Turn      int
	Recurring bool
	Timestamp int64
}

// InitNodesPayload installs the node records created from content
// definitions at game start.
type InitNodesPayload struct {
	Nodes map[string]*game.ResearchNode
}

// StartResearchPayload transitions an unlocked node to InProgress.
type StartResearchPayload struct {
	ID      string
	Compute float64
}

// CancelResearchPayload reverts an InProgress node to Unlocked,
// preserving progress.
type CancelResearchPayload struct {
	ID string
}

// AllocateNodeComputePayload increases an InProgress node's allocation.
type AllocateNodeComputePayload struct {
	ID     string
	Amount float64
}

// ApplyProgressPayload applies one turn's progress pass: per-node progress
// values, per-node effective rates, and the nodes that crossed 1.0.
type ApplyProgressPayload struct {
	Progress  map[string]float64
	Rates     map[string]float64
	Completed []string
}

// SetStatusesPayload applies a batch of Locked/Unlocked flips from one
// unlock-propagation pass in a single transition.
type SetStatusesPayload struct {
	Statuses map[string]game.NodeStatus
}

// SetBoostsPayload replaces the derived category boosts and per-node
// deployment boost mappings.
type SetBoostsPayload struct {
	CategoryBoosts map[string]float64
	NodeBoosts     map[string]map[string]float64
}

// ActivateDeploymentPayload records an externally activated deployment.
type ActivateDeploymentPayload struct {
	Deployment *game.Deployment
}

// UnlockDeploymentPayload marks a deployment as unlocked.
type UnlockDeploymentPayload struct {
	ID string
}

// GrantCapacityPayload adds deployment capacity.
type GrantCapacityPayload struct {
	ID    string
	Delta int
}

// MergeCompetitorPayload shallow-merges fields into one organization.
type MergeCompetitorPayload struct {
	ID     string
	Name   string
	Fields map[string]float64
}

// MergeWorldPayload shallow-merges fields into the world, optionally
// scoped to a region.
type MergeWorldPayload struct {
	Region string
	Name   string
	Fields map[string]float64
}
