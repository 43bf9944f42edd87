// Package postgres stores the investigation graph in PostgreSQL. Foreign keys
// with ON DELETE CASCADE give the transitive cascade, CHECK constraints hold
// the exactly-one endpoint rule.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/investi-gate/portal-sub000/internal/core/model"
	"github.com/investi-gate/portal-sub000/internal/logger"
	"github.com/investi-gate/portal-sub000/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

type Store struct {
	pool *pgxpool.Pool
}

// Open migrates the schema and connects a pool.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to Postgres")
	return &Store{pool: pool}, nil
}

// Migrate applies the embedded migrations.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

const (
	entityColumns   = "id, facial_data_id, text_data_id, image_data_id, image_portion_id, created_at"
	relationColumns = "id, predicate, subject_entity_id, subject_relation_id, object_entity_id, object_relation_id, created_at"
)

func (s *Store) ListEntities(ctx context.Context) ([]model.Entity, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+entityColumns+" FROM entities ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	entities, err := pgx.CollectRows(rows, scanEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entities: %w", err)
	}
	return entities, nil
}

func (s *Store) GetEntity(ctx context.Context, id string) (model.Entity, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+entityColumns+" FROM entities WHERE id = $1", id)
	if err != nil {
		return model.Entity{}, fmt.Errorf("failed to get entity %s: %w", id, err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, scanEntity)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Entity{}, store.ErrNotFound
	}
	if err != nil {
		return model.Entity{}, fmt.Errorf("failed to scan entity %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) CreateEntity(ctx context.Context, entity model.Entity) (model.Entity, error) {
	e, err := store.PrepareEntity(entity)
	if err != nil {
		return model.Entity{}, err
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO entities (id, facial_data_id, text_data_id, image_data_id, image_portion_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		e.ID, e.FacialDataID, e.TextDataID, e.ImageDataID, e.ImagePortionID, e.CreatedAt,
	).Scan(&e.CreatedAt)
	if err != nil {
		return model.Entity{}, mapError(err, "failed to create entity")
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func (s *Store) DeleteEntity(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM entities WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete entity %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListRelations(ctx context.Context) ([]model.Relation, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+relationColumns+" FROM relations ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}
	relations, err := pgx.CollectRows(rows, scanRelation)
	if err != nil {
		return nil, fmt.Errorf("failed to scan relations: %w", err)
	}
	return relations, nil
}

func (s *Store) GetRelation(ctx context.Context, id string) (model.Relation, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+relationColumns+" FROM relations WHERE id = $1", id)
	if err != nil {
		return model.Relation{}, fmt.Errorf("failed to get relation %s: %w", id, err)
	}
	r, err := pgx.CollectExactlyOneRow(rows, scanRelation)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Relation{}, store.ErrNotFound
	}
	if err != nil {
		return model.Relation{}, fmt.Errorf("failed to scan relation %s: %w", id, err)
	}
	return r, nil
}

func (s *Store) CreateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	r, err := store.PrepareRelation(relation)
	if err != nil {
		return model.Relation{}, err
	}
	subjectEntity, subjectRelation := r.Subject.Split()
	objectEntity, objectRelation := r.Object.Split()
	err = s.pool.QueryRow(ctx,
		`INSERT INTO relations (id, predicate, subject_entity_id, subject_relation_id, object_entity_id, object_relation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		r.ID, r.Predicate, subjectEntity, subjectRelation, objectEntity, objectRelation, r.CreatedAt,
	).Scan(&r.CreatedAt)
	if err != nil {
		return model.Relation{}, mapError(err, "failed to create relation")
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

func (s *Store) UpdateRelation(ctx context.Context, relation model.Relation) (model.Relation, error) {
	r, err := store.PrepareRelation(relation)
	if err != nil {
		return model.Relation{}, err
	}
	subjectEntity, subjectRelation := r.Subject.Split()
	objectEntity, objectRelation := r.Object.Split()
	err = s.pool.QueryRow(ctx,
		`UPDATE relations
		SET predicate = $2,
			subject_entity_id = $3,
			subject_relation_id = $4,
			object_entity_id = $5,
			object_relation_id = $6
		WHERE id = $1
		RETURNING created_at`,
		r.ID, r.Predicate, subjectEntity, subjectRelation, objectEntity, objectRelation,
	).Scan(&r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Relation{}, store.ErrNotFound
	}
	if err != nil {
		return model.Relation{}, mapError(err, "failed to update relation "+r.ID)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

func (s *Store) DeleteRelation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM relations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete relation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func scanEntity(row pgx.CollectableRow) (model.Entity, error) {
	var e model.Entity
	err := row.Scan(&e.ID, &e.FacialDataID, &e.TextDataID, &e.ImageDataID, &e.ImagePortionID, &e.CreatedAt)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, err
}

func scanRelation(row pgx.CollectableRow) (model.Relation, error) {
	var (
		r                              model.Relation
		subjectEntity, subjectRelation *string
		objectEntity, objectRelation   *string
	)
	err := row.Scan(&r.ID, &r.Predicate, &subjectEntity, &subjectRelation, &objectEntity, &objectRelation, &r.CreatedAt)
	r.Subject = model.JoinRef(subjectEntity, subjectRelation)
	r.Object = model.JoinRef(objectEntity, objectRelation)
	r.CreatedAt = r.CreatedAt.UTC()
	return r, err
}

// mapError turns constraint violations into the store's sentinel errors.
func mapError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrUnknownEndpoint, pgErr.ConstraintName)
		case codeCheckViolation:
			if pgErr.TableName == "entities" {
				return store.ErrInvalidEntity
			}
			return fmt.Errorf("%w: %s", store.ErrInvalidRelation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
