package vars

import (
	"slices"
	"sort"
	"strings"

	"bennypowers.dev/cvf/internal/collections"
)

// Warner receives non-fatal problems as they are found.
type Warner interface {
	AddWarning(err error)
}

// ReferenceGraph is the directed graph of variable references implied by
// a merged mapping.
type ReferenceGraph struct {
	// adjacency list: variable name -> names its value references
	edges map[string][]string
	// all defined names, sorted for deterministic walks
	nodes []string
}

// BuildReferenceGraph scans every value in the mapping for var()
// references at any depth. Referenced names with no definition stay in
// the edge lists; they are graph leaves.
func BuildReferenceGraph(mapping Mapping) *ReferenceGraph {
	g := &ReferenceGraph{
		edges: make(map[string][]string, len(mapping)),
		nodes: make([]string, 0, len(mapping)),
	}
	for name, value := range mapping {
		g.nodes = append(g.nodes, name)
		if deps := ReferencedNames(value); len(deps) > 0 {
			g.edges[name] = deps
		}
	}
	sort.Strings(g.nodes)
	return g
}

// DetectCycles returns the set of variable names participating in any
// reference cycle of the mapping. Each key is walked with its own path
// and pruning happens only on current-path membership, so overlapping
// cycles report every participant. One warning naming the chain is
// recorded per distinct cycle. Cycles are judged purely on the name
// graph; a fallback that would break the loop at use time does not
// exempt its variable.
func DetectCycles(mapping Mapping, warn Warner) collections.Set[string] {
	g := BuildReferenceGraph(mapping)
	cyclic := collections.NewSet[string]()
	warned := collections.NewSet[string]()

	for _, node := range g.nodes {
		g.collectCycles(node, nil, cyclic, warned, warn)
	}
	return cyclic
}

// collectCycles extends the path with node and follows every reference.
// A dependency already on the path closes a cycle there; everything else
// recurses. The current path is the only pruning state.
func (g *ReferenceGraph) collectCycles(
	node string,
	path []string,
	cyclic, warned collections.Set[string],
	warn Warner,
) {
	path = append(path, node)
	for _, dep := range g.edges[node] {
		if i := slices.Index(path, dep); i >= 0 {
			g.markCycle(path[i:], dep, cyclic, warned, warn)
			continue
		}
		// Undefined names have no outgoing edges, so the walk
		// treats them as leaves without special casing.
		g.collectCycles(dep, path, cyclic, warned, warn)
	}
}

// markCycle records one closed cycle: every name on the path segment
// from the first visit of the revisited name onward. Each participant's
// own walk rediscovers the same loop, so warnings deduplicate on
// membership.
func (g *ReferenceGraph) markCycle(
	segment []string,
	revisited string,
	cyclic, warned collections.Set[string],
	warn Warner,
) {
	cyclic.Add(segment...)

	members := append([]string{}, segment...)
	sort.Strings(members)
	key := strings.Join(members, " ")
	if warned.Has(key) {
		return
	}
	warned.Add(key)

	if warn != nil {
		chain := append(append([]string{}, segment...), revisited)
		warn.AddWarning(&CircularReferenceError{Name: revisited, Chain: chain})
	}
}
