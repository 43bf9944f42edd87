package model

// SearchHit is a keyword search match before scores are stripped for the API.
type SearchHit struct {
	Entity Entity  `json:"entity"`
	Score  float64 `json:"score"`
}
