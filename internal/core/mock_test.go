package core

import (
	"context"

	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/store"
)

// MockStore serves a fixed snapshot. Writes are not supported.
type MockStore struct {
	Entities  []model.Entity
	Relations []model.Relation
	Err       error
	Lists     int
}

func (m *MockStore) ListEntities(ctx context.Context) ([]model.Entity, error) {
	m.Lists++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entities, nil
}

func (m *MockStore) GetEntity(ctx context.Context, id string) (model.Entity, error) {
	for _, e := range m.Entities {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entity{}, store.ErrNotFound
}

func (m *MockStore) CreateEntity(ctx context.Context, entity model.Entity) (model.Entity, error) {
	return model.Entity{}, m.Err
}

func (m *MockStore) DeleteEntity(ctx context.Context, id string) error {
	return m.Err
}

func (m *MockStore) ListRelations(ctx context.Context) ([]model.Relation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Relations, nil
}

func (m *MockStore) GetRelation(ctx context.Context, id string) (model.Relation, error) {
	for _, r := range m.Relations {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Relation{}, store.ErrNotFound
}

func (m *MockStore) CreateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	return model.Relation{}, m.Err
}

func (m *MockStore) UpdateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	return model.Relation{}, m.Err
}

func (m *MockStore) DeleteRelation(ctx context.Context, id string) error {
	return m.Err
}

func (m *MockStore) Close(ctx context.Context) error {
	return nil
}
