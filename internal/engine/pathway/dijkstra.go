// internal/engine/pathway/dijkstra.go
package pathway

import (
	"math"
	"sort"
)

// PathResult is a found route through the visa graph.
type PathResult struct {
	Path        []string `json:"path"`
	TotalWeight float64  `json:"totalWeight"`
}

// FindShortestPath runs Dijkstra from start toward any of the goal slugs.
// When several goals are reachable the winner is picked by a deterministic
// cascade: minimum total weight, then fewest hops, then lexicographically
// smallest goal slug. Returns nil when no goal is reachable; callers treat
// that as an expected outcome, not a failure.
func (g *Graph) FindShortestPath(start string, goals []string) *PathResult {
	distances := make(map[string]float64, len(g.nodes))
	previous := make(map[string]string, len(g.nodes))
	unvisited := make(map[string]bool, len(g.nodes))

	for slug := range g.nodes {
		distances[slug] = math.Inf(1)
		unvisited[slug] = true
	}
	if _, ok := g.nodes[start]; !ok {
		return nil
	}
	distances[start] = 0

	for len(unvisited) > 0 {
		current, minDist := "", math.Inf(1)
		// Map iteration order is random; scan sorted for reproducibility.
		candidates := make([]string, 0, len(unvisited))
		for slug := range unvisited {
			candidates = append(candidates, slug)
		}
		sort.Strings(candidates)
		for _, slug := range candidates {
			if d := distances[slug]; d < minDist {
				minDist = d
				current = slug
			}
		}
		if current == "" {
			break
		}
		delete(unvisited, current)

		for _, e := range g.nodes[current].edges {
			if !unvisited[e.to] {
				continue
			}
			next := distances[current] + e.weight
			if next < distances[e.to] {
				distances[e.to] = next
				previous[e.to] = current
			}
		}
	}

	var best *PathResult
	bestGoal := ""
	for _, goal := range goals {
		dist, ok := distances[goal]
		if !ok || math.IsInf(dist, 1) {
			continue
		}
		path := reconstructPath(previous, start, goal)
		if len(path) == 0 {
			continue
		}
		better := best == nil ||
			dist < best.TotalWeight ||
			(dist == best.TotalWeight && len(path) < len(best.Path)) ||
			(dist == best.TotalWeight && len(path) == len(best.Path) && goal < bestGoal)
		if better {
			best = &PathResult{Path: path, TotalWeight: dist}
			bestGoal = goal
		}
	}

	return best
}

func reconstructPath(previous map[string]string, start, end string) []string {
	if start == end {
		return []string{start}
	}

	var reversed []string
	current := end
	for current != "" {
		reversed = append(reversed, current)
		if current == start {
			break
		}
		current = previous[current]
	}

	if len(reversed) == 0 || reversed[len(reversed)-1] != start {
		return nil
	}

	path := make([]string, len(reversed))
	for i, slug := range reversed {
		path[len(reversed)-1-i] = slug
	}
	return path
}
