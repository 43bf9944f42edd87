package importance

import (
	"sort"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

const (
	connectionWeight = 0.4
	centralityWeight = 0.6
	incomingWeight   = 1.5
)

// AnalyzeEntityImportance scores every entity by how connected it is.
// Incoming links weigh more than outgoing ones. The result has one entry per
// entity, sorted by score descending with input order kept on ties.
func AnalyzeEntityImportance(entities []model.Entity, relations []model.Relation) []model.EntityScore {
	incoming := make(map[string]int, len(entities))
	outgoing := make(map[string]int, len(entities))

	for _, r := range relations {
		if s, ok := r.SubjectEntityID(); ok {
			outgoing[s]++
		}
		if o, ok := r.ObjectEntityID(); ok {
			incoming[o]++
		}
	}

	denominator := float64(len(entities) - 1)
	if denominator < 1 {
		denominator = 1
	}

	scores := make([]model.EntityScore, 0, len(entities))
	for _, e := range entities {
		in, out := incoming[e.ID], outgoing[e.ID]
		connections := in + out
		centrality := (float64(in)*incomingWeight + float64(out)) / denominator

		scores = append(scores, model.EntityScore{
			Entity:          e,
			Score:           float64(connections)*connectionWeight + centrality*centralityWeight,
			Connections:     connections,
			CentralityScore: centrality,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return scores
}

// ByEntity indexes scores by entity id.
func ByEntity(scores []model.EntityScore) map[string]model.EntityScore {
	m := make(map[string]model.EntityScore, len(scores))
	for _, s := range scores {
		m[s.Entity.ID] = s
	}
	return m
}
