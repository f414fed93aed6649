package game

// NodeDef is the static content definition of a research node.
// Definitions are loaded once at game start and never change afterwards.
type NodeDef struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`

	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Excludes      []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`

	Cost    Cost    `json:"cost" yaml:"cost"`
	Effects Effects `json:"effects,omitempty" yaml:"effects,omitempty"`
	Risk    Risk    `json:"risk,omitempty" yaml:"risk,omitempty"`

	// RequiredDeployments must all be unlocked before the node is
	// considered affordable.
	RequiredDeployments []string `json:"requiredDeployments,omitempty" yaml:"requiredDeployments,omitempty"`

	Position Position `json:"position,omitempty" yaml:"position,omitempty"`
}

// DeploymentDef is the static content definition of a deployment.
type DeploymentDef struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Effects     Effects `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Cost is an optional-field cost descriptor. A zero field means the
// requirement is absent and therefore vacuously satisfied.
type Cost struct {
	// Compute is a capacity requirement against the shared pool, not a
	// consumed amount. For research nodes it doubles as the progress
	// denominator.
	Compute float64 `json:"compute,omitempty" yaml:"compute,omitempty"`

	Funding   float64                      `json:"funding,omitempty" yaml:"funding,omitempty"`
	Influence map[InfluenceChannel]float64 `json:"influence,omitempty" yaml:"influence,omitempty"`

	DataTier        int                   `json:"dataTier,omitempty" yaml:"dataTier,omitempty"`
	SpecializedSets []string              `json:"specializedSets,omitempty" yaml:"specializedSets,omitempty"`
	DataTypes       []DataTypeRequirement `json:"dataTypes,omitempty" yaml:"dataTypes,omitempty"`
}

// DataTypeRequirement requires a minimum quality and amount of one data type.
type DataTypeRequirement struct {
	Type       string  `json:"type" yaml:"type"`
	Amount     float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	MinQuality float64 `json:"minQuality,omitempty" yaml:"minQuality,omitempty"`
}

// Effects declares the deltas an effect source (completed research node or
// active deployment) contributes. Multiplier fields are deltas composed as
// Π(1+δ) by the effect bundle; bonus and generation fields compose
// additively.
type Effects struct {
	ComputeEfficiency    float64                      `json:"computeEfficiency,omitempty" yaml:"computeEfficiency,omitempty"`
	FundingMultiplier    float64                      `json:"fundingMultiplier,omitempty" yaml:"fundingMultiplier,omitempty"`
	InfluenceMultipliers map[InfluenceChannel]float64 `json:"influenceMultipliers,omitempty" yaml:"influenceMultipliers,omitempty"`

	DataQualityBonus    float64                      `json:"dataQualityBonus,omitempty" yaml:"dataQualityBonus,omitempty"`
	FundingGeneration   float64                      `json:"fundingGeneration,omitempty" yaml:"fundingGeneration,omitempty"`
	InfluenceGeneration map[InfluenceChannel]float64 `json:"influenceGeneration,omitempty" yaml:"influenceGeneration,omitempty"`

	// UnlockDeployments and DeploymentCapacity are research-only effects.
	UnlockDeployments  []string       `json:"unlockDeployments,omitempty" yaml:"unlockDeployments,omitempty"`
	DeploymentCapacity map[string]int `json:"deploymentCapacity,omitempty" yaml:"deploymentCapacity,omitempty"`

	// CategoryBoosts and NodeBoosts are deployment-only effects feeding
	// the research progress formula.
	CategoryBoosts map[string]float64 `json:"categoryBoosts,omitempty" yaml:"categoryBoosts,omitempty"`
	NodeBoosts     map[string]float64 `json:"nodeBoosts,omitempty" yaml:"nodeBoosts,omitempty"`
}

// Risk configures the optional stochastic draw performed on completion.
type Risk struct {
	Probability float64 `json:"probability,omitempty" yaml:"probability,omitempty"`
	Severity    string  `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// Position is the node's layout hint for external renderers.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}
