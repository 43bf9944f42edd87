package model

type NodeKind string

const (
	NodeEntity   NodeKind = "entity"
	NodeRelation NodeKind = "relation"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload handed to the renderer. Exactly one of Entity or
// Relation is set, matching Kind.
type NodeData struct {
	Entity      *Entity   `json:"entity,omitempty"`
	Relation    *Relation `json:"relation,omitempty"`
	Label       string    `json:"label"`
	Importance  float64   `json:"importance"`
	Connections int       `json:"connections"`
	Depth       int       `json:"depth"`
}

type LayoutNode struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// LayoutEdge connects a relation node with one of its endpoints:
// subject -> relation and relation -> object.
type LayoutEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

type GraphLayout struct {
	Nodes []LayoutNode `json:"nodes"`
	Edges []LayoutEdge `json:"edges"`
}
