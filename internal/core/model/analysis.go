package model

type EntityScore struct {
	Entity          Entity  `json:"entity"`
	Score           float64 `json:"score"`
	Connections     int     `json:"connections"`
	CentralityScore float64 `json:"centralityScore"`
}

type RelationPattern struct {
	Predicate string   `json:"predicate"`
	Count     int      `json:"count"`
	Entities  []string `json:"entities"` // distinct participant entity ids, first-seen order
}

type ClusterInfo struct {
	ID               string   `json:"id"`
	Entities         []string `json:"entities"`
	Relations        []string `json:"relations"`
	Density          float64  `json:"density"`
	CommonPredicates []string `json:"commonPredicates"`
}

// AnalysisResults mirrors the /analyze response. Parts that were not
// requested stay nil and are left out; a requested part is always present,
// empty or not.
type AnalysisResults struct {
	EntityScores       []EntityScore       `json:"entityScores,omitzero"`
	RelationPatterns   []RelationPattern   `json:"relationPatterns,omitzero"`
	Clusters           []ClusterInfo       `json:"clusters,omitzero"`
	SuggestedRelations []SuggestedRelation `json:"suggestedRelations,omitzero"`
}
