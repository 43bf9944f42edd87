package model

type SuggestedRelation struct {
	SubjectID  string  `json:"subjectId"`
	ObjectID   string  `json:"objectId"`
	Predicate  string  `json:"predicate"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}
