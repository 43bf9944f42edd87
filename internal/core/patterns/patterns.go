package patterns

import (
	"sort"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

// FindRelationPatterns groups relations by exact predicate and reports how
// often each one occurs and which entities take part in it. Relation-typed
// endpoints count towards the total but add no participants.
func FindRelationPatterns(relations []model.Relation) []model.RelationPattern {
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	patterns := []model.RelationPattern{}

	for _, r := range relations {
		i, ok := index[r.Predicate]
		if !ok {
			i = len(patterns)
			index[r.Predicate] = i
			patterns = append(patterns, model.RelationPattern{Predicate: r.Predicate, Entities: []string{}})
			seen[r.Predicate] = make(map[string]struct{})
		}

		p := &patterns[i]
		p.Count++

		participants := seen[r.Predicate]
		if s, ok := r.SubjectEntityID(); ok {
			if _, dup := participants[s]; !dup {
				participants[s] = struct{}{}
				p.Entities = append(p.Entities, s)
			}
		}
		if o, ok := r.ObjectEntityID(); ok {
			if _, dup := participants[o]; !dup {
				participants[o] = struct{}{}
				p.Entities = append(p.Entities, o)
			}
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Count > patterns[j].Count
	})

	return patterns
}
