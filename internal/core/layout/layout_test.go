package layout

import (
	"math"
	"testing"

	"github.com/investi-gate/portal-sub000/internal/core/importance"
	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rel(id, predicate, subject, object string) model.Relation {
	return model.Relation{
		ID:        id,
		Predicate: predicate,
		Subject:   model.EntityRef(subject),
		Object:    model.EntityRef(object),
	}
}

func entities(ids ...string) []model.Entity {
	out := make([]model.Entity, len(ids))
	for i, id := range ids {
		out[i] = model.Entity{ID: id}
	}
	return out
}

func positions(nodes []model.LayoutNode) map[string]model.Position {
	m := make(map[string]model.Position, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n.Position
	}
	return m
}

func TestCalculateGraphLayout_Chain(t *testing.T) {
	nodes := entities("A", "B", "C")
	edges := []model.Relation{
		rel("r1", "knows", "A", "B"),
		rel("r2", "works_with", "B", "C"),
	}

	out := CalculateGraphLayout(nodes, edges, nil, DefaultOptions())

	require.Len(t, out, 5)
	pos := positions(out)
	assert.Equal(t, model.Position{X: 0, Y: 0}, pos["A"])
	assert.Equal(t, model.Position{X: 0, Y: 500}, pos["B"])
	assert.Equal(t, model.Position{X: 0, Y: 1000}, pos["C"])
	assert.Equal(t, model.Position{X: 0, Y: 250}, pos["r1"])
	assert.Equal(t, model.Position{X: 0, Y: 750}, pos["r2"])

	// Entities first, then relations, both in input order.
	assert.Equal(t, model.NodeEntity, out[0].Kind)
	assert.Equal(t, "r1", out[3].ID)
	assert.Equal(t, model.NodeRelation, out[3].Kind)
	assert.Equal(t, "knows", out[3].Data.Label)
	assert.Equal(t, 4, out[2].Data.Depth)
}

func TestCalculateGraphLayout_ComponentsSideBySide(t *testing.T) {
	nodes := entities("S1", "S2", "S3", "H", "X", "Y")
	edges := []model.Relation{
		rel("r1", "reports_to", "S1", "H"),
		rel("r2", "reports_to", "S2", "H"),
		rel("r3", "reports_to", "S3", "H"),
		rel("r4", "knows", "X", "Y"),
	}

	pos := positions(CalculateGraphLayout(nodes, edges, nil, DefaultOptions()))

	// Every spoke is a root on the first level.
	assert.Equal(t, model.Position{X: 0, Y: 0}, pos["S1"])
	assert.Equal(t, model.Position{X: 250, Y: 0}, pos["S2"])
	assert.Equal(t, model.Position{X: 500, Y: 0}, pos["S3"])
	assert.Equal(t, model.Position{X: 0, Y: 500}, pos["H"])
	assert.Equal(t, model.Position{X: 125, Y: 250}, pos["r2"])
	assert.Equal(t, model.Position{X: 250, Y: 250}, pos["r3"])

	// Widest level spans 500, plus 400 between components.
	assert.Equal(t, model.Position{X: 900, Y: 0}, pos["X"])
	assert.Equal(t, model.Position{X: 900, Y: 500}, pos["Y"])
	assert.Equal(t, model.Position{X: 900, Y: 250}, pos["r4"])
}

func TestCalculateGraphLayout_CustomSpacing(t *testing.T) {
	nodes := entities("A", "B", "C", "D")
	edges := []model.Relation{rel("r1", "knows", "A", "B")}
	opts := Options{NodeSpacing: 100, LevelHeight: 80, ComponentSpacing: 50}

	pos := positions(CalculateGraphLayout(nodes, edges, nil, opts))

	assert.Equal(t, model.Position{X: 0, Y: 160}, pos["B"])
	assert.Equal(t, model.Position{X: 50, Y: 0}, pos["C"])
	assert.Equal(t, model.Position{X: 100, Y: 0}, pos["D"])
}

func TestCalculateGraphLayout_CycleFallsBackToBestConnected(t *testing.T) {
	nodes := entities("A", "B")
	edges := []model.Relation{
		rel("r1", "follows", "A", "B"),
		rel("r2", "follows", "B", "A"),
	}

	out := CalculateGraphLayout(nodes, edges, nil, DefaultOptions())

	pos := positions(out)
	assert.Equal(t, 0, out[0].Data.Depth)
	assert.Equal(t, model.Position{X: 0, Y: 0}, pos["A"])
	assert.Equal(t, model.Position{X: 0, Y: 500}, pos["B"])
	assert.Equal(t, model.Position{X: 0, Y: 250}, pos["r1"])
	assert.Equal(t, model.Position{X: 0, Y: 250}, pos["r2"])
}

func TestCalculateGraphLayout_MetaRelation(t *testing.T) {
	nodes := entities("A", "B", "C")
	edges := []model.Relation{
		rel("r1", "knows", "A", "B"),
		{ID: "r2", Predicate: "contradicts", Subject: model.RelationRef("r1"), Object: model.EntityRef("C")},
	}

	pos := positions(CalculateGraphLayout(nodes, edges, nil, DefaultOptions()))

	assert.Equal(t, model.Position{X: 0, Y: 250}, pos["r1"])
	assert.Equal(t, model.Position{X: 0, Y: 750}, pos["C"])
	// Midpoint of r1 and C.
	assert.Equal(t, model.Position{X: 0, Y: 500}, pos["r2"])
}

func TestCalculateGraphLayout_FallbackSlots(t *testing.T) {
	nodes := entities("A")
	edges := []model.Relation{
		rel("r1", "mentions", "A", "ghost"),
		{ID: "r2", Predicate: "broken"},
	}

	out := CalculateGraphLayout(nodes, edges, nil, DefaultOptions())

	pos := positions(out)
	assert.Equal(t, model.Position{X: 0, Y: 0}, pos["A"])
	// One resolved endpoint: next free slot on its level.
	assert.Equal(t, model.Position{X: 0, Y: 250}, pos["r1"])
	// No endpoints at all: its own component.
	assert.Equal(t, model.Position{X: 400, Y: 0}, pos["r2"])
}

func TestCalculateGraphLayout_SpanCountsEntitiesOnly(t *testing.T) {
	nodes := entities("A", "B")
	edges := []model.Relation{
		rel("r1", "mentions", "A", "ghost1"),
		rel("r2", "mentions", "A", "ghost2"),
		rel("r3", "mentions", "A", "ghost3"),
	}

	out := CalculateGraphLayout(nodes, edges, nil, DefaultOptions())

	pos := positions(out)
	assert.Equal(t, model.Position{X: 0, Y: 250}, pos["r1"])
	assert.Equal(t, model.Position{X: 250, Y: 250}, pos["r2"])
	assert.Equal(t, model.Position{X: 500, Y: 250}, pos["r3"])
	// The first component has one entity per level, so its span is 0.
	assert.Equal(t, model.Position{X: 400, Y: 0}, pos["B"])
}

func TestCalculateGraphLayout_ScoresOnlyAffectImportance(t *testing.T) {
	nodes := entities("A", "B", "C")
	edges := []model.Relation{
		rel("r1", "knows", "A", "B"),
		rel("r2", "knows", "C", "B"),
	}
	scores := importance.AnalyzeEntityImportance(nodes, edges)

	withScores := CalculateGraphLayout(nodes, edges, scores, DefaultOptions())
	without := CalculateGraphLayout(nodes, edges, nil, DefaultOptions())

	require.Len(t, withScores, len(without))
	for i := range without {
		assert.Equal(t, without[i].Position, withScores[i].Position)
	}
	byID := importance.ByEntity(scores)
	assert.Equal(t, byID["B"].Score, withScores[1].Data.Importance)
	assert.Equal(t, 2, withScores[1].Data.Connections)
	assert.Zero(t, without[1].Data.Importance)
}

func TestCalculateGraphLayout_EveryNodeOnceAndFinite(t *testing.T) {
	nodes := entities("A", "B", "C", "D", "E")
	edges := []model.Relation{
		rel("r1", "knows", "A", "B"),
		rel("r2", "knows", "B", "C"),
		rel("r3", "knows", "C", "A"),
		{ID: "r4", Predicate: "contradicts", Subject: model.RelationRef("r1"), Object: model.RelationRef("r3")},
		{ID: "r5", Predicate: "about", Subject: model.RelationRef("r4"), Object: model.EntityRef("D")},
		rel("r6", "dangling", "E", "nobody"),
		{ID: "r7", Predicate: "self", Subject: model.RelationRef("r7"), Object: model.RelationRef("r7")},
		{ID: "r8"},
	}

	out := CalculateGraphLayout(nodes, edges, nil, DefaultOptions())

	require.Len(t, out, len(nodes)+len(edges))
	seen := make(map[string]int)
	for _, n := range out {
		seen[string(n.Kind)+":"+n.ID]++
		assert.False(t, math.IsNaN(n.Position.X) || math.IsInf(n.Position.X, 0), n.ID)
		assert.False(t, math.IsNaN(n.Position.Y) || math.IsInf(n.Position.Y, 0), n.ID)
	}
	for _, e := range nodes {
		assert.Equal(t, 1, seen["entity:"+e.ID])
	}
	for _, r := range edges {
		assert.Equal(t, 1, seen["relation:"+r.ID])
	}

	// Same input, same output.
	assert.Equal(t, out, CalculateGraphLayout(nodes, edges, nil, DefaultOptions()))
}

func TestCalculateGraphLayout_Empty(t *testing.T) {
	assert.Empty(t, CalculateGraphLayout(nil, nil, nil, DefaultOptions()))
}

func TestBuildEdges(t *testing.T) {
	nodes := entities("A", "B")
	edges := []model.Relation{
		rel("r1", "knows", "A", "B"),
		{ID: "r2", Predicate: "doubts", Subject: model.RelationRef("r1"), Object: model.EntityRef("ghost")},
		{ID: "r3"},
	}

	out := BuildEdges(nodes, edges)

	assert.Equal(t, []model.LayoutEdge{
		{ID: "r1-subject", Source: "A", Target: "r1"},
		{ID: "r1-object", Source: "r1", Target: "B", Label: "knows"},
		{ID: "r2-subject", Source: "r1", Target: "r2"},
	}, out)
}
