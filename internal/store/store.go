package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/investi-gate/portal-sub000/internal/core/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidEntity   = errors.New("entity must reference at least one type payload")
	ErrInvalidRelation = errors.New("invalid relation")
	ErrUnknownEndpoint = errors.New("relation endpoint does not exist")
)

// GraphStore persists entities and relations. Deletes cascade to every
// relation that references the deleted node directly or through other
// relations.
type GraphStore interface {
	ListEntities(ctx context.Context) ([]model.Entity, error)
	GetEntity(ctx context.Context, id string) (model.Entity, error)
	CreateEntity(ctx context.Context, entity model.Entity) (model.Entity, error)
	DeleteEntity(ctx context.Context, id string) error

	ListRelations(ctx context.Context) ([]model.Relation, error)
	GetRelation(ctx context.Context, id string) (model.Relation, error)
	CreateRelation(ctx context.Context, relation model.Relation) (model.Relation, error)
	UpdateRelation(ctx context.Context, relation model.Relation) (model.Relation, error)
	DeleteRelation(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

// Snapshot loads every entity and relation for a single analytics run.
func Snapshot(ctx context.Context, s GraphStore) ([]model.Entity, []model.Relation, error) {
	entities, err := s.ListEntities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entities: %w", err)
	}
	relations, err := s.ListRelations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list relations: %w", err)
	}
	return entities, relations, nil
}

// PrepareEntity validates a new entity and fills in id and timestamp.
func PrepareEntity(e model.Entity) (model.Entity, error) {
	if !e.HasAnyType() {
		return model.Entity{}, ErrInvalidEntity
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e, nil
}

// PrepareRelation validates a relation and fills in id and timestamp.
func PrepareRelation(r model.Relation) (model.Relation, error) {
	if err := r.Validate(); err != nil {
		return model.Relation{}, fmt.Errorf("%w: %v", ErrInvalidRelation, err)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	self := model.RelationRef(r.ID)
	if r.Subject == self || r.Object == self {
		return model.Relation{}, fmt.Errorf("%w: relation cannot reference itself", ErrInvalidRelation)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r, nil
}

// Dependents returns the ids of relations that reference root, directly or
// through a chain of relations about relations, in input order.
func Dependents(relations []model.Relation, root model.EndpointRef) []string {
	doomed := map[model.EndpointRef]bool{root: true}

	for changed := true; changed; {
		changed = false
		for _, r := range relations {
			ref := model.RelationRef(r.ID)
			if doomed[ref] {
				continue
			}
			if doomed[r.Subject] || doomed[r.Object] {
				doomed[ref] = true
				changed = true
			}
		}
	}

	var ids []string
	for _, r := range relations {
		ref := model.RelationRef(r.ID)
		if ref != root && doomed[ref] {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
