package game

// Bus payload contracts shared across systems. The bus itself is
// payload-agnostic; these types pin down what travels on the topics both
// systems touch.

// StartResearchRequest is the payload of action:start_research.
type StartResearchRequest struct {
	ID      string
	Compute float64
}

// CancelResearchRequest is the payload of action:cancel_research.
type CancelResearchRequest struct {
	ID string
}

// AllocateComputeRequest is the payload of
// action:allocate_research_compute.
type AllocateComputeRequest struct {
	ID     string
	Amount float64
}

// AllocationRequest is the payload of resource:allocate: a consumer asks
// the economy for pool capacity.
type AllocationRequest struct {
	Consumer string
	Amount   float64
}

// DeallocationRequest is the payload of resource:deallocate.
type DeallocationRequest struct {
	Consumer string
}

// EffectKind names one typed effect emitted on research completion.
type EffectKind string

const (
	EffectComputeEfficiency   EffectKind = "compute_efficiency"
	EffectInfluenceMultiplier EffectKind = "influence_multiplier"
)

// EffectEvent is the payload of resource:effect.
type EffectEvent struct {
	Kind    EffectKind
	Channel InfluenceChannel
	Value   float64
	Source  string
}

// DeploymentUnlockEvent is the payload of deployment:unlock.
type DeploymentUnlockEvent struct {
	ID     string
	Source string
}

// DeploymentCapacityEvent is the payload of deployment:capacity.
type DeploymentCapacityEvent struct {
	ID     string
	Delta  int
	Source string
}

// RiskEvent is the payload of game:event for a successful risk draw.
type RiskEvent struct {
	Type     string
	NodeID   string
	Severity string
	Roll     float64
}

// RiskEventType is the Type carried by research risk events.
const RiskEventType = "research_risk"

// SpentEvent is the payload of resources:spent.
type SpentEvent struct {
	AuditID string
	Reason  string
	Cost    Cost
}

// SpendFailedEvent is the payload of resource:spend:failed.
type SpendFailedEvent struct {
	Reason string
	Cost   Cost
}
