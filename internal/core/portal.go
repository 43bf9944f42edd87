package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/investi-gate/portal-sub000/internal/core/community"
	"github.com/investi-gate/portal-sub000/internal/core/importance"
	"github.com/investi-gate/portal-sub000/internal/core/layout"
	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/core/patterns"
	"github.com/investi-gate/portal-sub000/internal/core/search"
	"github.com/investi-gate/portal-sub000/internal/core/suggest"
	"github.com/investi-gate/portal-sub000/internal/logger"
	"github.com/investi-gate/portal-sub000/internal/store"
)

type AnalysisType string

const (
	AnalysisAll         AnalysisType = "all"
	AnalysisImportance  AnalysisType = "importance"
	AnalysisPatterns    AnalysisType = "patterns"
	AnalysisClusters    AnalysisType = "clusters"
	AnalysisSuggestions AnalysisType = "suggestions"
)

var ErrUnknownAnalysisType = errors.New("unknown analysis type")

func ParseAnalysisType(s string) (AnalysisType, error) {
	switch t := AnalysisType(s); t {
	case AnalysisAll, AnalysisImportance, AnalysisPatterns, AnalysisClusters, AnalysisSuggestions:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAnalysisType, s)
}

// Portal runs the analytics over snapshots of a GraphStore. Each call loads
// a fresh snapshot; nothing is cached between calls.
type Portal struct {
	Store         store.GraphStore
	Clusters      community.ClusterDetector
	LayoutOptions layout.Options
}

func NewPortal(s store.GraphStore, clusters community.ClusterDetector, opts layout.Options) *Portal {
	if clusters == nil {
		clusters = &community.ComponentDetector{}
	}
	return &Portal{
		Store:         s,
		Clusters:      clusters,
		LayoutOptions: opts,
	}
}

func (p *Portal) Analyze(ctx context.Context, t AnalysisType) (model.AnalysisResults, error) {
	if _, err := ParseAnalysisType(string(t)); err != nil {
		return model.AnalysisResults{}, err
	}
	entities, relations, err := store.Snapshot(ctx, p.Store)
	if err != nil {
		return model.AnalysisResults{}, err
	}

	var res model.AnalysisResults
	if t == AnalysisAll || t == AnalysisImportance {
		res.EntityScores = importance.AnalyzeEntityImportance(entities, relations)
	}
	if t == AnalysisAll || t == AnalysisPatterns {
		res.RelationPatterns = patterns.FindRelationPatterns(relations)
	}
	if t == AnalysisAll || t == AnalysisClusters {
		res.Clusters = p.Clusters.Detect(entities, relations)
		if res.Clusters == nil {
			res.Clusters = []model.ClusterInfo{}
		}
	}
	if t == AnalysisAll || t == AnalysisSuggestions {
		res.SuggestedRelations = suggest.SuggestRelations(entities, relations)
	}

	logger.Debug("Analysis finished", "type", t, "entities", len(entities), "relations", len(relations))
	return res, nil
}

type SearchResult struct {
	Entities []model.Entity
	// Relations touching any returned entity; nil unless requested.
	Relations []model.Relation
}

// Search ranks entities against query and keeps the best limit of them.
func (p *Portal) Search(ctx context.Context, query string, limit int, includeRelations bool) (SearchResult, error) {
	entities, relations, err := store.Snapshot(ctx, p.Store)
	if err != nil {
		return SearchResult{}, err
	}

	found := search.SearchEntities(entities, relations, query)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	res := SearchResult{Entities: found}
	if includeRelations {
		res.Relations = search.RelationsTouching(found, relations)
	}
	return res, nil
}

// Layout positions every entity and relation and returns the renderer edges.
func (p *Portal) Layout(ctx context.Context) (model.GraphLayout, error) {
	entities, relations, err := store.Snapshot(ctx, p.Store)
	if err != nil {
		return model.GraphLayout{}, err
	}
	scores := importance.AnalyzeEntityImportance(entities, relations)
	return model.GraphLayout{
		Nodes: layout.CalculateGraphLayout(entities, relations, scores, p.LayoutOptions),
		Edges: layout.BuildEdges(entities, relations),
	}, nil
}
