// internal/engine/pathway/graph.go
package pathway

import (
	"fmt"
	"sort"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

type edge struct {
	to     string
	weight float64
}

// Node is one visa in the transition graph with its outgoing edges.
type Node struct {
	ID    string
	Visa  models.Visa
	edges []edge
}

// Graph is the weighted visa transition graph.
type Graph struct {
	nodes map[string]*Node
}

// BuildGraph creates nodes for every visa and attaches directed edges.
// Edges referencing an unknown source visa are dropped; edges without a
// weight default to 1.
func BuildGraph(visas []models.Visa, edges []models.PathwayEdge) *Graph {
	g := &Graph{nodes: make(map[string]*Node, len(visas))}

	for _, visa := range visas {
		g.nodes[visa.Slug] = &Node{ID: visa.Slug, Visa: visa}
	}

	for _, e := range edges {
		from, ok := g.nodes[e.FromVisaSlug]
		if !ok {
			continue
		}
		weight := e.Weight
		if weight <= 0 {
			weight = 1
		}
		from.edges = append(from.edges, edge{to: e.ToVisaSlug, weight: weight})
	}

	return g
}

// Node returns the node for a slug, or nil when absent.
func (g *Graph) Node(slug string) *Node {
	return g.nodes[slug]
}

// Slugs returns all node identifiers in sorted order.
func (g *Graph) Slugs() []string {
	slugs := make([]string, 0, len(g.nodes))
	for slug := range g.nodes {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// EdgesFromSteps derives transition edges from the precomputed residence
// pathway step table: steps sharing a visa_name form one pathway, and
// consecutive step_order entries become weight-1 edges.
func EdgesFromSteps(steps []models.PathwayStep) []models.PathwayEdge {
	groups := make(map[string][]models.PathwayStep)
	var names []string
	for _, step := range steps {
		if _, seen := groups[step.VisaName]; !seen {
			names = append(names, step.VisaName)
		}
		groups[step.VisaName] = append(groups[step.VisaName], step)
	}
	sort.Strings(names)

	var edges []models.PathwayEdge
	for _, name := range names {
		group := groups[name]
		sort.Slice(group, func(i, j int) bool { return group[i].StepOrder < group[j].StepOrder })
		for i := 0; i < len(group)-1; i++ {
			edges = append(edges, models.PathwayEdge{
				ID:           fmt.Sprintf("%s-%s", group[i].StepName, group[i+1].StepName),
				FromVisaSlug: group[i].StepName,
				ToVisaSlug:   group[i+1].StepName,
				Weight:       1,
				Rationale:    fmt.Sprintf("Natural progression from %s to %s", group[i].StepName, group[i+1].StepName),
			})
		}
	}
	return edges
}
