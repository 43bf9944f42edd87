package memory

import (
	"context"
	"testing"

	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ store.GraphStore = (*Store)(nil)

func seed(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := New()
	for _, id := range []string{"A", "B", "C"} {
		_, err := s.CreateEntity(ctx, model.Entity{ID: id, TextDataID: model.Ref("t-" + id)})
		require.NoError(t, err)
	}
	relations := []model.Relation{
		{ID: "r1", Predicate: "knows", Subject: model.EntityRef("A"), Object: model.EntityRef("B")},
		{ID: "r2", Predicate: "knows", Subject: model.EntityRef("B"), Object: model.EntityRef("C")},
		{ID: "r3", Predicate: "supports", Subject: model.RelationRef("r1"), Object: model.EntityRef("C")},
		{ID: "r4", Predicate: "contradicts", Subject: model.RelationRef("r3"), Object: model.RelationRef("r2")},
	}
	for _, r := range relations {
		_, err := s.CreateRelation(ctx, r)
		require.NoError(t, err)
	}
	return s
}

func relationIDs(t *testing.T, s *Store) []string {
	t.Helper()
	relations, err := s.ListRelations(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(relations))
	for _, r := range relations {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestCreateEntity(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreateEntity(ctx, model.Entity{})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	e, err := s.CreateEntity(ctx, model.Entity{FacialDataID: model.Ref("f1")})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	got, err := s.GetEntity(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = s.GetEntity(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateRelationRejectsDanglingEndpoint(t *testing.T) {
	ctx := context.Background()
	s := seed(t)

	_, err := s.CreateRelation(ctx, model.Relation{Predicate: "knows", Subject: model.EntityRef("A"), Object: model.EntityRef("Z")})
	assert.ErrorIs(t, err, store.ErrUnknownEndpoint)

	_, err = s.CreateRelation(ctx, model.Relation{Predicate: "knows", Subject: model.RelationRef("r9"), Object: model.EntityRef("A")})
	assert.ErrorIs(t, err, store.ErrUnknownEndpoint)

	_, err = s.CreateRelation(ctx, model.Relation{Predicate: "knows", Subject: model.EntityRef("A")})
	assert.ErrorIs(t, err, store.ErrInvalidRelation)
}

func TestDeleteEntityCascades(t *testing.T) {
	ctx := context.Background()
	s := seed(t)

	require.NoError(t, s.DeleteEntity(ctx, "A"))

	// r1 touches A, r3 is about r1, r4 is about r3.
	assert.Equal(t, []string{"r2"}, relationIDs(t, s))

	entities, err := s.ListEntities(ctx)
	require.NoError(t, err)
	assert.Len(t, entities, 2)

	assert.ErrorIs(t, s.DeleteEntity(ctx, "A"), store.ErrNotFound)
}

func TestDeleteRelationCascades(t *testing.T) {
	ctx := context.Background()
	s := seed(t)

	require.NoError(t, s.DeleteRelation(ctx, "r2"))
	assert.Equal(t, []string{"r1", "r3"}, relationIDs(t, s))

	assert.ErrorIs(t, s.DeleteRelation(ctx, "r2"), store.ErrNotFound)
}

func TestUpdateRelation(t *testing.T) {
	ctx := context.Background()
	s := seed(t)

	before, err := s.GetRelation(ctx, "r2")
	require.NoError(t, err)

	updated, err := s.UpdateRelation(ctx, model.Relation{
		ID:        "r2",
		Predicate: "employs",
		Subject:   model.EntityRef("C"),
		Object:    model.EntityRef("A"),
	})
	require.NoError(t, err)
	assert.Equal(t, "employs", updated.Predicate)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)

	_, err = s.UpdateRelation(ctx, model.Relation{ID: "r2", Predicate: "x", Subject: model.RelationRef("r2"), Object: model.EntityRef("A")})
	assert.ErrorIs(t, err, store.ErrInvalidRelation)

	_, err = s.UpdateRelation(ctx, model.Relation{ID: "r2", Predicate: "x", Subject: model.EntityRef("Z"), Object: model.EntityRef("A")})
	assert.ErrorIs(t, err, store.ErrUnknownEndpoint)

	_, err = s.UpdateRelation(ctx, model.Relation{ID: "nope", Predicate: "x", Subject: model.EntityRef("A"), Object: model.EntityRef("B")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := seed(t)

	entities, err := s.ListEntities(ctx)
	require.NoError(t, err)
	entities[0].ID = "mutated"

	got, err := s.GetEntity(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)
}
