package community

import (
	"fmt"
	"sort"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

const (
	AlgorithmComponents       = "components"
	AlgorithmLabelPropagation = "label_propagation"

	commonPredicateLimit = 3
)

type ClusterDetector interface {
	Detect(entities []model.Entity, relations []model.Relation) []model.ClusterInfo
}

// NewDetector returns the detector for the configured algorithm, falling back
// to connected components.
func NewDetector(algorithm string) ClusterDetector {
	if algorithm == AlgorithmLabelPropagation {
		return NewLabelPropagationDetector()
	}
	return &ComponentDetector{}
}

// DetectClusters partitions entities into connected components.
func DetectClusters(entities []model.Entity, relations []model.Relation) []model.ClusterInfo {
	return (&ComponentDetector{}).Detect(entities, relations)
}

// ComponentDetector treats the entity graph as undirected and reports every
// connected component, singletons included. Relations with a relation-typed
// endpoint do not link entities here.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(entities []model.Entity, relations []model.Relation) []model.ClusterInfo {
	known := make(map[string]bool, len(entities))
	for _, e := range entities {
		known[e.ID] = true
	}

	adj := make(map[string][]string)
	for _, r := range relations {
		s, ok := r.SubjectEntityID()
		if !ok || !known[s] {
			continue
		}
		o, ok := r.ObjectEntityID()
		if !ok || !known[o] {
			continue
		}
		adj[s] = append(adj[s], o)
		adj[o] = append(adj[o], s)
	}

	visited := make(map[string]bool, len(entities))
	var components [][]string

	for _, e := range entities {
		if visited[e.ID] {
			continue
		}
		components = append(components, d.dfs(e.ID, adj, visited))
	}

	return summarize(components, relations)
}

// dfs walks with an explicit stack so deep chains cannot exhaust the
// goroutine stack. Neighbors are pushed in reverse to visit them in
// adjacency order.
func (d *ComponentDetector) dfs(start string, adj map[string][]string, visited map[string]bool) []string {
	var component []string
	stack := []string{start}

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[u] {
			continue
		}
		visited[u] = true
		component = append(component, u)

		neighbors := adj[u]
		for i := len(neighbors) - 1; i >= 0; i-- {
			if !visited[neighbors[i]] {
				stack = append(stack, neighbors[i])
			}
		}
	}

	return component
}

// summarize turns entity partitions into ClusterInfo, sorted by size with
// discovery order kept on ties.
func summarize(components [][]string, relations []model.Relation) []model.ClusterInfo {
	clusters := make([]model.ClusterInfo, 0, len(components))

	for i, members := range components {
		inside := make(map[string]bool, len(members))
		for _, id := range members {
			inside[id] = true
		}

		relationIDs := []string{}
		predicateCounts := make(map[string]int)
		var predicateOrder []string

		for _, r := range relations {
			s, sok := r.SubjectEntityID()
			o, ook := r.ObjectEntityID()
			if !(sok && inside[s]) && !(ook && inside[o]) {
				continue
			}
			relationIDs = append(relationIDs, r.ID)
			if _, ok := predicateCounts[r.Predicate]; !ok {
				predicateOrder = append(predicateOrder, r.Predicate)
			}
			predicateCounts[r.Predicate]++
		}

		n := len(members)
		density := 0.0
		if n > 1 {
			density = float64(len(relationIDs)) / float64(n*(n-1))
		}

		clusters = append(clusters, model.ClusterInfo{
			ID:               fmt.Sprintf("cluster-%d", i),
			Entities:         members,
			Relations:        relationIDs,
			Density:          density,
			CommonPredicates: topPredicates(predicateOrder, predicateCounts, commonPredicateLimit),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].Entities) > len(clusters[j].Entities)
	})

	return clusters
}

func topPredicates(order []string, counts map[string]int, limit int) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
