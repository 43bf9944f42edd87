//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/store"
)

func TestPostgresCascade(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, url)
	require.NoError(t, err)
	defer s.Close(ctx)

	id := func() string { return uuid.New().String() }
	a, err := s.CreateEntity(ctx, model.Entity{ID: id(), TextDataID: model.Ref("t")})
	require.NoError(t, err)
	b, err := s.CreateEntity(ctx, model.Entity{ID: id(), FacialDataID: model.Ref("f")})
	require.NoError(t, err)

	r1, err := s.CreateRelation(ctx, model.Relation{Predicate: "knows", Subject: model.EntityRef(a.ID), Object: model.EntityRef(b.ID)})
	require.NoError(t, err)
	r2, err := s.CreateRelation(ctx, model.Relation{Predicate: "supports", Subject: model.RelationRef(r1.ID), Object: model.EntityRef(b.ID)})
	require.NoError(t, err)

	_, err = s.CreateRelation(ctx, model.Relation{Predicate: "knows", Subject: model.EntityRef(a.ID), Object: model.EntityRef(id())})
	assert.ErrorIs(t, err, store.ErrUnknownEndpoint)

	require.NoError(t, s.DeleteEntity(ctx, a.ID))

	_, err = s.GetRelation(ctx, r1.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetRelation(ctx, r2.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteEntity(ctx, b.ID))
}
