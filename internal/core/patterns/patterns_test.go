package patterns

import (
	"testing"

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

func TestFindRelationPatterns_Scenario(t *testing.T) {
	relations := []model.Relation{
		rel("r1", "knows", "A", "B"),
		rel("r2", "works_with", "B", "C"),
	}

	patterns := FindRelationPatterns(relations)
	require.Len(t, patterns, 2)

	assert.Equal(t, model.RelationPattern{Predicate: "knows", Count: 1, Entities: []string{"A", "B"}}, patterns[0])
	assert.Equal(t, model.RelationPattern{Predicate: "works_with", Count: 1, Entities: []string{"B", "C"}}, patterns[1])
}

func TestFindRelationPatterns_OrderAndCaseSensitivity(t *testing.T) {
	relations := []model.Relation{
		rel("r1", "Knows", "A", "B"),
		rel("r2", "knows", "A", "C"),
		rel("r3", "knows", "C", "A"),
		rel("r4", "knows", "B", "A"),
	}

	patterns := FindRelationPatterns(relations)
	require.Len(t, patterns, 2)
	assert.Equal(t, "knows", patterns[0].Predicate)
	assert.Equal(t, 3, patterns[0].Count)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, patterns[0].Entities)
	assert.Equal(t, "Knows", patterns[1].Predicate)
}

func TestFindRelationPatterns_MetaRelations(t *testing.T) {
	relations := []model.Relation{
		rel("r1", "knows", "A", "B"),
		{ID: "r2", Predicate: "contradicts", Subject: model.RelationRef("r1"), Object: model.RelationRef("r1")},
		{ID: "r3", Predicate: "contradicts", Subject: model.RelationRef("r1"), Object: model.EntityRef("C")},
	}

	patterns := FindRelationPatterns(relations)
	require.Len(t, patterns, 2)
	assert.Equal(t, "contradicts", patterns[0].Predicate)
	assert.Equal(t, 2, patterns[0].Count)
	assert.Equal(t, []string{"C"}, patterns[0].Entities)
}

func TestFindRelationPatterns_CountsSumToTotal(t *testing.T) {
	relations := []model.Relation{
		rel("r1", "a", "X", "Y"),
		rel("r2", "b", "X", "Y"),
		rel("r3", "a", "Y", "Z"),
		{ID: "r4", Predicate: "c"},
		rel("r5", "", "Z", "X"),
	}

	total := 0
	for _, p := range FindRelationPatterns(relations) {
		total += p.Count
	}
	assert.Equal(t, len(relations), total)
	assert.Empty(t, FindRelationPatterns(nil))
	assert.NotNil(t, FindRelationPatterns(nil))
}
