package model

import (
	"encoding/json"
	"errors"
	"time"
)

type EndpointKind string

const (
	EndpointEntity   EndpointKind = "entity"
	EndpointRelation EndpointKind = "relation"
)

var (
	ErrInvalidSubject = errors.New("relation must have exactly one subject reference")
	ErrInvalidObject  = errors.New("relation must have exactly one object reference")
)

// EndpointRef is one side of a relation: either an entity or another relation.
// The zero value is invalid and marks a relation side that had zero or two
// references set on the wire.
type EndpointRef struct {
	Kind EndpointKind `json:"kind"`
	ID   string       `json:"id"`
}

func EntityRef(id string) EndpointRef   { return EndpointRef{Kind: EndpointEntity, ID: id} }
func RelationRef(id string) EndpointRef { return EndpointRef{Kind: EndpointRelation, ID: id} }

func (r EndpointRef) Valid() bool {
	return r.ID != "" && (r.Kind == EndpointEntity || r.Kind == EndpointRelation)
}

func (r EndpointRef) IsEntity() bool   { return r.Valid() && r.Kind == EndpointEntity }
func (r EndpointRef) IsRelation() bool { return r.Valid() && r.Kind == EndpointRelation }

// Relation is a directed, labeled edge. Relations can point at relations,
// which makes them first-class nodes of the graph.
type Relation struct {
	ID        string
	Predicate string
	Subject   EndpointRef
	Object    EndpointRef
	CreatedAt time.Time
}

// Valid reports whether both sides carry exactly one reference.
func (r Relation) Valid() bool {
	return r.Subject.Valid() && r.Object.Valid()
}

func (r Relation) Validate() error {
	if !r.Subject.Valid() {
		return ErrInvalidSubject
	}
	if !r.Object.Valid() {
		return ErrInvalidObject
	}
	return nil
}

// SubjectEntityID returns the subject id when the subject is an entity.
func (r Relation) SubjectEntityID() (string, bool) {
	if r.Subject.IsEntity() {
		return r.Subject.ID, true
	}
	return "", false
}

// ObjectEntityID returns the object id when the object is an entity.
func (r Relation) ObjectEntityID() (string, bool) {
	if r.Object.IsEntity() {
		return r.Object.ID, true
	}
	return "", false
}

// Touches reports whether the entity appears directly on either side.
func (r Relation) Touches(entityID string) bool {
	s, ok := r.SubjectEntityID()
	if ok && s == entityID {
		return true
	}
	o, ok := r.ObjectEntityID()
	return ok && o == entityID
}

// relationWire is the storage/API shape with nullable sibling fields.
type relationWire struct {
	ID                string    `json:"id"`
	Predicate         string    `json:"predicate"`
	SubjectEntityID   *string   `json:"subject_entity_id"`
	SubjectRelationID *string   `json:"subject_relation_id"`
	ObjectEntityID    *string   `json:"object_entity_id"`
	ObjectRelationID  *string   `json:"object_relation_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (r Relation) MarshalJSON() ([]byte, error) {
	w := relationWire{
		ID:        r.ID,
		Predicate: r.Predicate,
		CreatedAt: r.CreatedAt,
	}
	w.SubjectEntityID, w.SubjectRelationID = r.Subject.Split()
	w.ObjectEntityID, w.ObjectRelationID = r.Object.Split()
	return json.Marshal(w)
}

func (r *Relation) UnmarshalJSON(data []byte) error {
	var w relationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.ID = w.ID
	r.Predicate = w.Predicate
	r.CreatedAt = w.CreatedAt
	r.Subject = JoinRef(w.SubjectEntityID, w.SubjectRelationID)
	r.Object = JoinRef(w.ObjectEntityID, w.ObjectRelationID)
	return nil
}

// Split breaks a ref into the (entity, relation) nullable pair used by
// storage rows and the JSON API.
func (r EndpointRef) Split() (entityID, relationID *string) {
	switch {
	case r.IsEntity():
		return Ref(r.ID), nil
	case r.IsRelation():
		return nil, Ref(r.ID)
	}
	return nil, nil
}

// JoinRef builds a ref from a nullable pair. Zero or two populated fields
// yield the invalid zero ref.
func JoinRef(entityID, relationID *string) EndpointRef {
	e, rel := isSet(entityID), isSet(relationID)
	switch {
	case e && !rel:
		return EntityRef(*entityID)
	case rel && !e:
		return RelationRef(*relationID)
	}
	return EndpointRef{}
}
