package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/store"
)

// Store keeps the graph in process memory, in insertion order.
type Store struct {
	mu        sync.RWMutex
	entities  []model.Entity
	relations []model.Relation
}

func New() *Store {
	return &Store{}
}

func (s *Store) ListEntities(ctx context.Context) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Entity, len(s.entities))
	copy(out, s.entities)
	return out, nil
}

func (s *Store) GetEntity(ctx context.Context, id string) (model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.entityIndex(id); i >= 0 {
		return s.entities[i], nil
	}
	return model.Entity{}, store.ErrNotFound
}

func (s *Store) CreateEntity(ctx context.Context, entity model.Entity) (model.Entity, error) {
	e, err := store.PrepareEntity(entity)
	if err != nil {
		return model.Entity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entityIndex(e.ID) >= 0 {
		return model.Entity{}, fmt.Errorf("%w: id %s already exists", store.ErrInvalidEntity, e.ID)
	}
	s.entities = append(s.entities, e)
	return e, nil
}

func (s *Store) DeleteEntity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.entityIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.entities = append(s.entities[:i], s.entities[i+1:]...)
	s.dropRelations(store.Dependents(s.relations, model.EntityRef(id)))
	return nil
}

func (s *Store) ListRelations(ctx context.Context) ([]model.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Relation, len(s.relations))
	copy(out, s.relations)
	return out, nil
}

func (s *Store) GetRelation(ctx context.Context, id string) (model.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.relationIndex(id); i >= 0 {
		return s.relations[i], nil
	}
	return model.Relation{}, store.ErrNotFound
}

func (s *Store) CreateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	r, err := store.PrepareRelation(relation)
	if err != nil {
		return model.Relation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relationIndex(r.ID) >= 0 {
		return model.Relation{}, fmt.Errorf("%w: id %s already exists", store.ErrInvalidRelation, r.ID)
	}
	if !s.exists(r.Subject) || !s.exists(r.Object) {
		return model.Relation{}, store.ErrUnknownEndpoint
	}
	s.relations = append(s.relations, r)
	return r, nil
}

func (s *Store) UpdateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.relationIndex(relation.ID)
	if i < 0 {
		return model.Relation{}, store.ErrNotFound
	}
	relation.CreatedAt = s.relations[i].CreatedAt
	r, err := store.PrepareRelation(relation)
	if err != nil {
		return model.Relation{}, err
	}
	if !s.exists(r.Subject) || !s.exists(r.Object) {
		return model.Relation{}, store.ErrUnknownEndpoint
	}
	s.relations[i] = r
	return r, nil
}

func (s *Store) DeleteRelation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.relationIndex(id) < 0 {
		return store.ErrNotFound
	}
	s.dropRelations(append(store.Dependents(s.relations, model.RelationRef(id)), id))
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) entityIndex(id string) int {
	for i, e := range s.entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) relationIndex(id string) int {
	for i, r := range s.relations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) exists(ref model.EndpointRef) bool {
	if ref.IsEntity() {
		return s.entityIndex(ref.ID) >= 0
	}
	return s.relationIndex(ref.ID) >= 0
}

func (s *Store) dropRelations(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.relations[:0]
	for _, r := range s.relations {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	s.relations = kept
}
