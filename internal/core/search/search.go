package search

import (
	"sort"
	"strings"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

const (
	idMatchScore      = 1.0
	typeMatchScore    = 0.5
	predicateHitScore = 0.3
	facialKeyword     = "facial"
	textKeyword       = "text"
)

// ScoreEntities scores every entity against the query and returns the hits
// with a positive score, best first.
func ScoreEntities(entities []model.Entity, relations []model.Relation, query string) []model.SearchHit {
	q := strings.ToLower(query)
	if q == "" {
		return []model.SearchHit{}
	}

	// Predicate hits per entity, counted once per touching relation.
	predicateHits := make(map[string]int)
	for _, r := range relations {
		if !strings.Contains(strings.ToLower(r.Predicate), q) {
			continue
		}
		s, sok := r.SubjectEntityID()
		o, ook := r.ObjectEntityID()
		if sok {
			predicateHits[s]++
		}
		if ook && (!sok || o != s) {
			predicateHits[o]++
		}
	}

	wantsFacial := strings.Contains(q, facialKeyword)
	wantsText := strings.Contains(q, textKeyword)

	hits := make([]model.SearchHit, 0)
	for _, e := range entities {
		score := 0.0
		if strings.Contains(strings.ToLower(e.ID), q) {
			score += idMatchScore
		}
		if wantsFacial && e.HasFacialData() {
			score += typeMatchScore
		}
		if wantsText && e.HasTextData() {
			score += typeMatchScore
		}
		score += float64(predicateHits[e.ID]) * predicateHitScore

		if score > 0 {
			hits = append(hits, model.SearchHit{Entity: e, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}

// SearchEntities returns the entities matching query, best first.
func SearchEntities(entities []model.Entity, relations []model.Relation, query string) []model.Entity {
	hits := ScoreEntities(entities, relations, query)
	out := make([]model.Entity, len(hits))
	for i, h := range hits {
		out[i] = h.Entity
	}
	return out
}

// RelationsTouching returns the relations with a direct entity endpoint in
// the given set, in input order.
func RelationsTouching(entities []model.Entity, relations []model.Relation) []model.Relation {
	ids := make(map[string]bool, len(entities))
	for _, e := range entities {
		ids[e.ID] = true
	}

	out := make([]model.Relation, 0)
	for _, r := range relations {
		s, sok := r.SubjectEntityID()
		o, ook := r.ObjectEntityID()
		if (sok && ids[s]) || (ook && ids[o]) {
			out = append(out, r)
		}
	}
	return out
}
