// Package memgraph stores the investigation graph in Memgraph. Entities and
// relations are both nodes; a relation links to its endpoints through
// SUBJECT and OBJECT edges.
package memgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/driver"
	"github.com/investi-gate/portal-sub000/internal/store"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// timeLayout has a fixed width so that ORDER BY on the stored string sorts
// chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	driver driver.GraphDriver
}

func New(d driver.GraphDriver) *Store {
	return &Store{driver: d}
}

func (s *Store) ListEntities(ctx context.Context) ([]model.Entity, error) {
	res, err := s.driver.ExecuteQuery(ctx, driver.ListEntitiesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	entities := make([]model.Entity, 0, len(res.Records))
	for _, rec := range res.Records {
		entities = append(entities, entityFromRecord(rec))
	}
	return entities, nil
}

func (s *Store) GetEntity(ctx context.Context, id string) (model.Entity, error) {
	res, err := s.driver.ExecuteQuery(ctx, driver.GetEntityQuery, map[string]any{"id": id})
	if err != nil {
		return model.Entity{}, fmt.Errorf("failed to get entity %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return model.Entity{}, store.ErrNotFound
	}
	return entityFromRecord(res.Records[0]), nil
}

func (s *Store) CreateEntity(ctx context.Context, entity model.Entity) (model.Entity, error) {
	e, err := store.PrepareEntity(entity)
	if err != nil {
		return model.Entity{}, err
	}
	params := map[string]any{
		"id":               e.ID,
		"facial_data_id":   nullable(e.FacialDataID),
		"text_data_id":     nullable(e.TextDataID),
		"image_data_id":    nullable(e.ImageDataID),
		"image_portion_id": nullable(e.ImagePortionID),
		"created_at":       e.CreatedAt.UTC().Format(timeLayout),
	}
	if _, err := s.driver.ExecuteQuery(ctx, driver.CreateEntityQuery, params); err != nil {
		return model.Entity{}, fmt.Errorf("failed to create entity: %w", err)
	}
	return e, nil
}

func (s *Store) DeleteEntity(ctx context.Context, id string) error {
	if _, err := s.GetEntity(ctx, id); err != nil {
		return err
	}
	query := driver.CascadeDeleteQuery(driver.LabelEntity)
	if _, err := s.driver.ExecuteQuery(ctx, query, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("failed to delete entity %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListRelations(ctx context.Context) ([]model.Relation, error) {
	res, err := s.driver.ExecuteQuery(ctx, driver.ListRelationsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}
	relations := make([]model.Relation, 0, len(res.Records))
	for _, rec := range res.Records {
		relations = append(relations, relationFromRecord(rec))
	}
	return relations, nil
}

func (s *Store) GetRelation(ctx context.Context, id string) (model.Relation, error) {
	res, err := s.driver.ExecuteQuery(ctx, driver.GetRelationQuery, map[string]any{"id": id})
	if err != nil {
		return model.Relation{}, fmt.Errorf("failed to get relation %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return model.Relation{}, store.ErrNotFound
	}
	return relationFromRecord(res.Records[0]), nil
}

func (s *Store) CreateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	r, err := store.PrepareRelation(relation)
	if err != nil {
		return model.Relation{}, err
	}
	query := driver.CreateRelationQuery(label(r.Subject), label(r.Object))
	res, err := s.driver.ExecuteQuery(ctx, query, relationParams(r))
	if err != nil {
		return model.Relation{}, fmt.Errorf("failed to create relation: %w", err)
	}
	if len(res.Records) == 0 {
		return model.Relation{}, store.ErrUnknownEndpoint
	}
	return r, nil
}

func (s *Store) UpdateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	existing, err := s.GetRelation(ctx, relation.ID)
	if err != nil {
		return model.Relation{}, err
	}
	relation.CreatedAt = existing.CreatedAt
	r, err := store.PrepareRelation(relation)
	if err != nil {
		return model.Relation{}, err
	}
	query := driver.UpdateRelationQuery(label(r.Subject), label(r.Object))
	res, err := s.driver.ExecuteQuery(ctx, query, relationParams(r))
	if err != nil {
		return model.Relation{}, fmt.Errorf("failed to update relation %s: %w", r.ID, err)
	}
	if len(res.Records) == 0 {
		return model.Relation{}, store.ErrUnknownEndpoint
	}
	return r, nil
}

func (s *Store) DeleteRelation(ctx context.Context, id string) error {
	if _, err := s.GetRelation(ctx, id); err != nil {
		return err
	}
	query := driver.CascadeDeleteQuery(driver.LabelRelation)
	if _, err := s.driver.ExecuteQuery(ctx, query, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("failed to delete relation %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func label(ref model.EndpointRef) string {
	if ref.IsRelation() {
		return driver.LabelRelation
	}
	return driver.LabelEntity
}

func relationParams(r model.Relation) map[string]any {
	subjectEntity, subjectRelation := r.Subject.Split()
	objectEntity, objectRelation := r.Object.Split()
	return map[string]any{
		"id":                  r.ID,
		"predicate":           r.Predicate,
		"subject_id":          r.Subject.ID,
		"object_id":           r.Object.ID,
		"subject_entity_id":   nullable(subjectEntity),
		"subject_relation_id": nullable(subjectRelation),
		"object_entity_id":    nullable(objectEntity),
		"object_relation_id":  nullable(objectRelation),
		"created_at":          r.CreatedAt.UTC().Format(timeLayout),
	}
}

// nullable turns a nil reference into an untyped nil so the driver sends a
// Cypher null instead of a typed nil pointer.
func nullable(ref *string) any {
	if ref == nil {
		return nil
	}
	return *ref
}

func entityFromRecord(rec *neo4j.Record) model.Entity {
	return model.Entity{
		ID:             stringValue(rec, "id"),
		FacialDataID:   model.Ref(stringValue(rec, "facial_data_id")),
		TextDataID:     model.Ref(stringValue(rec, "text_data_id")),
		ImageDataID:    model.Ref(stringValue(rec, "image_data_id")),
		ImagePortionID: model.Ref(stringValue(rec, "image_portion_id")),
		CreatedAt:      timeValue(rec, "created_at"),
	}
}

func relationFromRecord(rec *neo4j.Record) model.Relation {
	return model.Relation{
		ID:        stringValue(rec, "id"),
		Predicate: stringValue(rec, "predicate"),
		Subject: model.JoinRef(
			model.Ref(stringValue(rec, "subject_entity_id")),
			model.Ref(stringValue(rec, "subject_relation_id")),
		),
		Object: model.JoinRef(
			model.Ref(stringValue(rec, "object_entity_id")),
			model.Ref(stringValue(rec, "object_relation_id")),
		),
		CreatedAt: timeValue(rec, "created_at"),
	}
}

func stringValue(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func timeValue(rec *neo4j.Record, key string) time.Time {
	v, _ := rec.Get(key)
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		parsed, err := time.Parse(timeLayout, t)
		if err != nil {
			return time.Time{}
		}
		return parsed.UTC()
	}
	return time.Time{}
}
