package suggest

import (
	"fmt"
	"sort"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

const (
	PredicatePotentiallyRelated = "potentially-related"
	PredicateSameType           = "same-type"

	MinConfidence  = 0.3
	MaxSuggestions = 10

	sharedThreshold     = 2
	sharedWeight        = 0.2
	sharedMaxConfidence = 0.9
	sameTypeConfidence  = 0.3

	// connectsPredicate is the only predicate the pair guard recognises.
	// Pairs linked under any other predicate still get shared-neighbor
	// suggestions.
	connectsPredicate = "connects"
)

// SuggestRelations proposes relations between entity pairs that look related
// but are not linked yet. Two heuristics run per ordered pair: shared
// neighbors under the same predicate, and both entities carrying facial data.
func SuggestRelations(entities []model.Entity, relations []model.Relation) []model.SuggestedRelation {
	outgoing := make(map[string]map[string]map[string]struct{}) // subject -> predicate -> targets
	guarded := make(map[string]struct{})
	linked := make(map[[2]string]struct{})

	for _, r := range relations {
		s, ok := r.SubjectEntityID()
		if !ok {
			continue
		}
		o, ok := r.ObjectEntityID()
		if !ok {
			continue
		}

		if outgoing[s] == nil {
			outgoing[s] = make(map[string]map[string]struct{})
		}
		if outgoing[s][r.Predicate] == nil {
			outgoing[s][r.Predicate] = make(map[string]struct{})
		}
		outgoing[s][r.Predicate][o] = struct{}{}

		guarded[connectionKey(s, o, r.Predicate)] = struct{}{}
		linked[[2]string{s, o}] = struct{}{}
	}

	var suggestions []model.SuggestedRelation

	for _, e1 := range entities {
		for _, e2 := range entities {
			if e1.ID == e2.ID {
				continue
			}
			if _, ok := guarded[connectionKey(e1.ID, e2.ID, connectsPredicate)]; ok {
				continue
			}

			if shared := sharedConnections(outgoing[e1.ID], outgoing[e2.ID]); shared >= sharedThreshold {
				suggestions = append(suggestions, model.SuggestedRelation{
					SubjectID:  e1.ID,
					ObjectID:   e2.ID,
					Predicate:  PredicatePotentiallyRelated,
					Confidence: min(float64(shared)*sharedWeight, sharedMaxConfidence),
					Reason:     fmt.Sprintf("Share %d common connections", shared),
				})
			}

			if e1.HasFacialData() && e2.HasFacialData() && !isLinked(linked, e1.ID, e2.ID) {
				suggestions = append(suggestions, model.SuggestedRelation{
					SubjectID:  e1.ID,
					ObjectID:   e2.ID,
					Predicate:  PredicateSameType,
					Confidence: sameTypeConfidence,
					Reason:     "Both entities contain facial data",
				})
			}
		}
	}

	filtered := make([]model.SuggestedRelation, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Confidence >= MinConfidence {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})

	if len(filtered) > MaxSuggestions {
		filtered = filtered[:MaxSuggestions]
	}
	return filtered
}

func connectionKey(subject, object, predicate string) string {
	return subject + "\x00" + predicate + "\x00" + object
}

func sharedConnections(a, b map[string]map[string]struct{}) int {
	shared := 0
	for predicate, targetsA := range a {
		targetsB, ok := b[predicate]
		if !ok {
			continue
		}
		for target := range targetsA {
			if _, ok := targetsB[target]; ok {
				shared++
			}
		}
	}
	return shared
}

func isLinked(linked map[[2]string]struct{}, a, b string) bool {
	if _, ok := linked[[2]string{a, b}]; ok {
		return true
	}
	_, ok := linked[[2]string{b, a}]
	return ok
}
