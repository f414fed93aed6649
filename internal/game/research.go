package game

// DefaultComputeCost is the progress denominator used when a node's
// definition leaves the compute cost unset.
const DefaultComputeCost = 100.0

// Research is the research slice of the aggregate state.
type Research struct {
	// Nodes maps node id to its runtime record. Nodes are created once at
	// game start from content definitions and never deleted.
	Nodes map[string]*ResearchNode `json:"nodes"`
	// Active is the ordered list of node ids currently in progress.
	Active []string `json:"active"`
	// Completed lists completed node ids in completion order.
	Completed []string `json:"completed"`
	// CategoryBoosts holds the additive research-speed boost per category,
	// derived from active deployments.
	CategoryBoosts map[string]float64 `json:"categoryBoosts"`
	// DataFocus and DataBudget steer data-driven research selection.
	DataFocus  string  `json:"dataFocus,omitempty"`
	DataBudget float64 `json:"dataBudget"`
}

// ResearchNode is one node in the dependency graph.
//
// INVARIANTS:
//   - Progress is non-decreasing while InProgress.
//   - Completed is terminal.
//   - Status is Unlocked iff every prerequisite is completed and no
//     exclusion is completed (maintained by unlock propagation).
type ResearchNode struct {
	ID               string     `json:"id"`
	Status           NodeStatus `json:"status"`
	Progress         float64    `json:"progress"`
	ComputeAllocated float64    `json:"computeAllocated"`
	Def              NodeDef    `json:"def"`
	// EffectiveComputeRate is the per-turn progress rate derived on the
	// last progress pass, kept for observers.
	EffectiveComputeRate float64 `json:"effectiveComputeRate"`
	// DeploymentBoosts maps deployment id to that deployment's
	// node-specific multiplicative boost for this node.
	DeploymentBoosts map[string]float64 `json:"deploymentBoosts,omitempty"`
}

// Clone returns a copy of the node with its own boost map.
func (n *ResearchNode) Clone() *ResearchNode {
	out := *n
	out.DeploymentBoosts = cloneFloatMap(n.DeploymentBoosts)
	return &out
}

// ComputeCost returns the progress denominator, applying the default when
// the definition leaves it unset.
func (n *ResearchNode) ComputeCost() float64 {
	if n.Def.Cost.Compute <= 0 {
		return DefaultComputeCost
	}
	return n.Def.Cost.Compute
}

// NewResearch constructs an empty research slice with all maps present.
func NewResearch() *Research {
	return &Research{
		Nodes:          map[string]*ResearchNode{},
		CategoryBoosts: map[string]float64{},
	}
}

// Clone returns a copy of the research slice. Node records are shared;
// the research reducer clones individual nodes before modifying them.
func (r *Research) Clone() *Research {
	out := &Research{
		Nodes:          make(map[string]*ResearchNode, len(r.Nodes)),
		Active:         append([]string(nil), r.Active...),
		Completed:      append([]string(nil), r.Completed...),
		CategoryBoosts: cloneFloatMap(r.CategoryBoosts),
		DataFocus:      r.DataFocus,
		DataBudget:     r.DataBudget,
	}
	for k, v := range r.Nodes {
		out.Nodes[k] = v
	}
	return out
}

// CompletedSet returns the completed node ids as a set.
func (r *Research) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(r.Completed))
	for _, id := range r.Completed {
		set[id] = true
	}
	return set
}
