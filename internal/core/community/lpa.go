package community

import (
	"sort"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

// LabelPropagationDetector splits entities into communities with the Label
// Propagation Algorithm. Unlike ComponentDetector it can separate loosely
// bridged groups inside one connected component.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(entities []model.Entity, relations []model.Relation) []model.ClusterInfo {
	if len(entities) == 0 {
		return []model.ClusterInfo{}
	}

	// Undirected, weighted by the number of relations between two entities.
	adj := make(map[string]map[string]int, len(entities))
	for _, e := range entities {
		adj[e.ID] = make(map[string]int)
	}

	for _, r := range relations {
		s, ok := r.SubjectEntityID()
		if !ok {
			continue
		}
		o, ok := r.ObjectEntityID()
		if !ok {
			continue
		}
		if _, known := adj[s]; !known {
			continue
		}
		if _, known := adj[o]; !known {
			continue
		}
		adj[s][o]++
		adj[o][s]++
	}

	labels := make(map[string]string, len(entities))
	for _, e := range entities {
		labels[e.ID] = e.ID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, e := range entities {
			neighbors := adj[e.ID]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Lexicographically largest label wins ties so runs are stable.
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[e.ID] != bestLabel {
				labels[e.ID] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	// Group in input order so cluster ids and member order are reproducible.
	index := make(map[string]int)
	var components [][]string
	for _, e := range entities {
		label := labels[e.ID]
		i, ok := index[label]
		if !ok {
			i = len(components)
			index[label] = i
			components = append(components, nil)
		}
		components[i] = append(components[i], e.ID)
	}

	return summarize(components, relations)
}
