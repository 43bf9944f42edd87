package driver

import "fmt"

// Labels and edge types of the stored graph. A relation is a node of its own
// with one SUBJECT and one OBJECT edge, so relations can point at relations.
const (
	LabelEntity   = "Entity"
	LabelRelation = "Relation"
)

var IndexQueries = []string{
	"CREATE INDEX ON :Entity(id);",
	"CREATE INDEX ON :Relation(id);",
	"CREATE CONSTRAINT ON (n:Entity) ASSERT n.id IS UNIQUE;",
	"CREATE CONSTRAINT ON (n:Relation) ASSERT n.id IS UNIQUE;",
}

const (
	CreateEntityQuery = `
		CREATE (n:Entity {
			id: $id,
			facial_data_id: $facial_data_id,
			text_data_id: $text_data_id,
			image_data_id: $image_data_id,
			image_portion_id: $image_portion_id,
			created_at: $created_at
		})
		RETURN n.id AS id
	`

	entityColumns = `
		n.id AS id,
		n.facial_data_id AS facial_data_id,
		n.text_data_id AS text_data_id,
		n.image_data_id AS image_data_id,
		n.image_portion_id AS image_portion_id,
		n.created_at AS created_at
	`

	ListEntitiesQuery = `
		MATCH (n:Entity)
		RETURN` + entityColumns + `
		ORDER BY n.created_at, n.id
	`

	GetEntityQuery = `
		MATCH (n:Entity {id: $id})
		RETURN` + entityColumns

	relationColumns = `
		r.id AS id,
		r.predicate AS predicate,
		r.subject_entity_id AS subject_entity_id,
		r.subject_relation_id AS subject_relation_id,
		r.object_entity_id AS object_entity_id,
		r.object_relation_id AS object_relation_id,
		r.created_at AS created_at
	`

	ListRelationsQuery = `
		MATCH (r:Relation)
		RETURN` + relationColumns + `
		ORDER BY r.created_at, r.id
	`

	GetRelationQuery = `
		MATCH (r:Relation {id: $id})
		RETURN` + relationColumns

	createRelationTemplate = `
		MATCH (s:%s {id: $subject_id}), (o:%s {id: $object_id})
		CREATE (r:Relation {
			id: $id,
			predicate: $predicate,
			subject_entity_id: $subject_entity_id,
			subject_relation_id: $subject_relation_id,
			object_entity_id: $object_entity_id,
			object_relation_id: $object_relation_id,
			created_at: $created_at
		})
		CREATE (r)-[:SUBJECT]->(s), (r)-[:OBJECT]->(o)
		RETURN r.id AS id
	`

	updateRelationTemplate = `
		MATCH (r:Relation {id: $id})
		MATCH (s:%s {id: $subject_id}), (o:%s {id: $object_id})
		OPTIONAL MATCH (r)-[old:SUBJECT|OBJECT]->()
		DELETE old
		WITH DISTINCT r, s, o
		SET r.predicate = $predicate,
			r.subject_entity_id = $subject_entity_id,
			r.subject_relation_id = $subject_relation_id,
			r.object_entity_id = $object_entity_id,
			r.object_relation_id = $object_relation_id
		CREATE (r)-[:SUBJECT]->(s), (r)-[:OBJECT]->(o)
		RETURN r.id AS id
	`

	// Only Relation nodes have outgoing SUBJECT/OBJECT edges, so the
	// variable-length match collects exactly the relations that depend on n.
	cascadeDeleteTemplate = `
		MATCH (n:%s {id: $id})
		OPTIONAL MATCH (r:Relation)-[:SUBJECT|OBJECT*1..]->(n)
		WITH n, collect(DISTINCT r) AS dependents
		FOREACH (d IN dependents | DETACH DELETE d)
		DETACH DELETE n
	`
)

// CreateRelationQuery matches both endpoints by label; no row comes back when
// either endpoint is missing.
func CreateRelationQuery(subjectLabel, objectLabel string) string {
	return fmt.Sprintf(createRelationTemplate, subjectLabel, objectLabel)
}

func UpdateRelationQuery(subjectLabel, objectLabel string) string {
	return fmt.Sprintf(updateRelationTemplate, subjectLabel, objectLabel)
}

func CascadeDeleteQuery(label string) string {
	return fmt.Sprintf(cascadeDeleteTemplate, label)
}
