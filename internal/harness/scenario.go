package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oversight-games/ascent/internal/game"
)

// Scenario is a scripted run against an assembled game. Scenarios are
// authored in YAML; every step is one of the externally triggered inputs
// the core reacts to.
type Scenario struct {
	Name  string `yaml:"name"`
	Setup Setup  `yaml:"setup,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Setup seeds starting resources before the first step.
type Setup struct {
	ComputeTotal float64                          `yaml:"computeTotal,omitempty"`
	Funding      float64                          `yaml:"funding,omitempty"`
	Influence    map[game.InfluenceChannel]float64 `yaml:"influence,omitempty"`
}

// Step is one scripted input. Exactly one field must be set.
type Step struct {
	BeginTurn          bool          `yaml:"beginTurn,omitempty"`
	EndTurn            bool          `yaml:"endTurn,omitempty"`
	StartResearch      *StartStep    `yaml:"startResearch,omitempty"`
	CancelResearch     string        `yaml:"cancelResearch,omitempty"`
	AllocateCompute    *AllocateStep `yaml:"allocateCompute,omitempty"`
	ActivateDeployment string        `yaml:"activateDeployment,omitempty"`
	Spend              *SpendStep    `yaml:"spend,omitempty"`
	Save               string        `yaml:"save,omitempty"`
	Load               string        `yaml:"load,omitempty"`
}

// StartStep starts research on a node.
type StartStep struct {
	ID      string  `yaml:"id"`
	Compute float64 `yaml:"compute"`
}

// AllocateStep adds compute to an in-progress node.
type AllocateStep struct {
	ID     string  `yaml:"id"`
	Amount float64 `yaml:"amount"`
}

// SpendStep spends resources for a reason.
type SpendStep struct {
	Cost   game.Cost `yaml:"cost"`
	Reason string    `yaml:"reason"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	return &sc, nil
}

// Run executes a scenario: setup, init, then every step in order.
// The game must be assembled but not yet initialized, so the recorder
// can be subscribed ahead of the initialization events.
func (sc *Scenario) Run(g *Game) error {
	g.Grant(sc.Setup.ComputeTotal, sc.Setup.Funding, sc.Setup.Influence)
	g.Init()

	for i, step := range sc.Steps {
		if err := sc.runStep(g, step); err != nil {
			return fmt.Errorf("scenario %s step %d: %w", sc.Name, i+1, err)
		}
	}
	return nil
}

func (sc *Scenario) runStep(g *Game, step Step) error {
	switch {
	case step.BeginTurn:
		g.BeginTurn()
	case step.EndTurn:
		g.EndTurn()
	case step.StartResearch != nil:
		g.Research.StartResearch(step.StartResearch.ID, step.StartResearch.Compute)
	case step.CancelResearch != "":
		g.Research.CancelResearch(step.CancelResearch)
	case step.AllocateCompute != nil:
		g.Research.AllocateCompute(step.AllocateCompute.ID, step.AllocateCompute.Amount)
	case step.ActivateDeployment != "":
		if !g.ActivateDeployment(step.ActivateDeployment) {
			return fmt.Errorf("unknown deployment %q", step.ActivateDeployment)
		}
	case step.Spend != nil:
		g.Economy.SpendResources(step.Spend.Cost, step.Spend.Reason)
	case step.Save != "":
		g.Manager.SaveState(contextBackground(), step.Save)
	case step.Load != "":
		g.Manager.LoadState(contextBackground(), step.Load)
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}
