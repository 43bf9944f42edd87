package memgraph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executed struct {
	Query  string
	Params map[string]any
}

// MockDriver answers queries from a queue of results in call order. Once the
// queue is empty it returns an empty result.
type MockDriver struct {
	Results  []neo4j.EagerResult
	Err      error
	Executed []executed
	Closed   bool
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executed{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if len(m.Results) == 0 {
		return neo4j.EagerResult{}, nil
	}
	res := m.Results[0]
	m.Results = m.Results[1:]
	return res, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

func rows(keys []string, values ...[]any) neo4j.EagerResult {
	records := make([]*neo4j.Record, 0, len(values))
	for _, v := range values {
		records = append(records, &neo4j.Record{Keys: keys, Values: v})
	}
	return neo4j.EagerResult{Keys: keys, Records: records}
}

var (
	entityKeys   = []string{"id", "facial_data_id", "text_data_id", "image_data_id", "image_portion_id", "created_at"}
	relationKeys = []string{"id", "predicate", "subject_entity_id", "subject_relation_id", "object_entity_id", "object_relation_id", "created_at"}
)
