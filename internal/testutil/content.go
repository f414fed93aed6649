package testutil

import (
	"github.com/oversight-games/ascent/internal/content"
	"github.com/oversight-games/ascent/internal/game"
)

// FixturePack returns a small content pack used across package tests:
//
//   - scaling-laws: no prerequisites, computeCost 100
//   - distributed-training: prerequisite scaling-laws
//   - closed-weights / open-weights: mutually exclusive, both gated on
//     scaling-laws
//   - scaling-laws unlocks the inference-cluster deployment, which boosts
//     the capabilities category
func FixturePack() *content.Pack {
	return &content.Pack{
		Nodes: []game.NodeDef{
			{
				ID:       "scaling-laws",
				Name:     "Scaling Laws",
				Category: "capabilities",
				Cost:     game.Cost{Compute: 100},
				Effects: game.Effects{
					UnlockDeployments: []string{"inference-cluster"},
				},
			},
			{
				ID:            "distributed-training",
				Name:          "Distributed Training",
				Category:      "capabilities",
				Prerequisites: []string{"scaling-laws"},
				Cost:          game.Cost{Compute: 200},
			},
			{
				ID:            "closed-weights",
				Name:          "Closed Weights",
				Category:      "strategy",
				Prerequisites: []string{"scaling-laws"},
				Excludes:      []string{"open-weights"},
				Cost:          game.Cost{Compute: 100},
			},
			{
				ID:            "open-weights",
				Name:          "Open Weights",
				Category:      "strategy",
				Prerequisites: []string{"scaling-laws"},
				Excludes:      []string{"closed-weights"},
				Cost:          game.Cost{Compute: 100},
			},
		},
		Deployments: []game.DeploymentDef{
			{
				ID:   "inference-cluster",
				Name: "Inference Cluster",
				Effects: game.Effects{
					CategoryBoosts: map[string]float64{"capabilities": 0.5},
				},
			},
		},
	}
}
