package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts_UnmarshalNumbersAndStrings(t *testing.T) {
	doc := `{
  "testCounts": {"totalTests": 10, "testsExecuted": "9", "testsPassed": 8.0, "testsFailed": null},
  "priorityIssues": true,
  "priorityCounts": {"p0": 2, "p3": "1"},
  "severityIssues": true,
  "severityCounts": {"s1": 4}
}`

	var sub ReviewSubmission
	require.NoError(t, json.Unmarshal([]byte(doc), &sub))

	assert.Equal(t, TestCounts{Total: "10", Executed: "9", Passed: "8.0", Failed: ""}, sub.TestCounts)
	require.NotNil(t, sub.PriorityCounts)
	assert.Equal(t, PriorityCounts{P0: "2", P3: "1"}, *sub.PriorityCounts)
	require.NotNil(t, sub.SeverityCounts)
	assert.Equal(t, "4", sub.SeverityCounts.S1)
}

func TestCounts_UnmarshalRejectsObjects(t *testing.T) {
	var tc TestCounts
	assert.Error(t, json.Unmarshal([]byte(`{"totalTests": {"n": 1}}`), &tc))
	assert.Error(t, json.Unmarshal([]byte(`{"totalTests": true}`), &tc))
}
