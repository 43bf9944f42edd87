package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResultsJSON(t *testing.T) {
	data, err := json.Marshal(AnalysisResults{Clusters: []ClusterInfo{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"clusters":[]}`, string(data))

	data, err = json.Marshal(AnalysisResults{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
