package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oversight-games/ascent/internal/game"
)

// Validate performs structural validation of an assembled pack:
// unique ids, no dangling node or deployment references, and an acyclic
// prerequisite graph.
func Validate(pack *Pack) error {
	nodeIDs := make(map[string]bool, len(pack.Nodes))
	for _, def := range pack.Nodes {
		if nodeIDs[def.ID] {
			return fmt.Errorf("duplicate node id %q", def.ID)
		}
		nodeIDs[def.ID] = true
	}

	deployIDs := make(map[string]bool, len(pack.Deployments))
	for _, def := range pack.Deployments {
		if deployIDs[def.ID] {
			return fmt.Errorf("duplicate deployment id %q", def.ID)
		}
		deployIDs[def.ID] = true
	}

	for _, def := range pack.Nodes {
		for _, dep := range def.Prerequisites {
			if !nodeIDs[dep] {
				return fmt.Errorf("node %q: unknown prerequisite %q", def.ID, dep)
			}
			if dep == def.ID {
				return fmt.Errorf("node %q: prerequisite references itself", def.ID)
			}
		}
		for _, excl := range def.Excludes {
			if !nodeIDs[excl] {
				return fmt.Errorf("node %q: unknown exclusion %q", def.ID, excl)
			}
			if excl == def.ID {
				return fmt.Errorf("node %q: exclusion references itself", def.ID)
			}
		}
		for _, dep := range def.RequiredDeployments {
			if !deployIDs[dep] {
				return fmt.Errorf("node %q: unknown required deployment %q", def.ID, dep)
			}
		}
		for _, dep := range def.Effects.UnlockDeployments {
			if !deployIDs[dep] {
				return fmt.Errorf("node %q: unlocks unknown deployment %q", def.ID, dep)
			}
		}
		for dep := range def.Effects.DeploymentCapacity {
			if !deployIDs[dep] {
				return fmt.Errorf("node %q: grants capacity for unknown deployment %q", def.ID, dep)
			}
		}
	}

	if cycle := findPrerequisiteCycle(pack.Nodes); cycle != nil {
		return fmt.Errorf("prerequisite cycle: %s", strings.Join(cycle, " -> "))
	}
	return nil
}

// findPrerequisiteCycle runs a colored depth-first search over the
// prerequisite graph and returns the first cycle path found, or nil for a
// DAG. Roots are visited in sorted order so the reported cycle is
// deterministic.
func findPrerequisiteCycle(nodes []game.NodeDef) []string {
	prereqs := make(map[string][]string, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, def := range nodes {
		prereqs[def.ID] = def.Prerequisites
		ids = append(ids, def.ID)
	}
	sort.Strings(ids)

	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(nodes))
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = gray
		path = append(path, id)
		for _, dep := range prereqs[id] {
			switch color[dep] {
			case gray:
				// Close the loop for the report.
				for i, onPath := range path {
					if onPath == dep {
						return append(append([]string(nil), path[i:]...), dep)
					}
				}
				return []string{dep, id, dep}
			case white:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	for _, id := range ids {
		if color[id] == white {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// BuildNodes creates the runtime node records for a validated pack.
// Every node starts Locked; the research engine's first unlock propagation
// pass flips roots to Unlocked.
func BuildNodes(pack *Pack) map[string]*game.ResearchNode {
	nodes := make(map[string]*game.ResearchNode, len(pack.Nodes))
	for _, def := range pack.Nodes {
		nodes[def.ID] = &game.ResearchNode{
			ID:     def.ID,
			Status: game.StatusLocked,
			Def:    def,
		}
	}
	return nodes
}

// DeploymentByID returns the deployment definition index of a pack.
func DeploymentByID(pack *Pack) map[string]game.DeploymentDef {
	out := make(map[string]game.DeploymentDef, len(pack.Deployments))
	for _, def := range pack.Deployments {
		out[def.ID] = def
	}
	return out
}
