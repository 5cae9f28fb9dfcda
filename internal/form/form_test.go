package form

import (
	"mime/multipart"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/prr/internal/models"
)

func baseValues() url.Values {
	return url.Values{
		"project":       {"payments"},
		"sprint":        {"Sprint 14"},
		"startDate":     {"2026-03-02"},
		"endDate":       {"2026-03-13"},
		"codeReview":    {"pass"},
		"approverName":  {"R. Iyer"},
		"sonarQube":     {"fail"},
		"approvalType":  {"conditional"},
		"issueNotes":    {"flaky login test"},
		"totalTests":    {"10"},
		"testsExecuted": {"8"},
		"testsPassed":   {"7"},
		"testsFailed":   {"1"},
		"prUrl":         {"https://git.example.com/p/1"},
		"commitId":      {"abc123"},
		"redmineUrl":    {"https://redmine.example.com/issues/2"},
	}
}

func TestFromValues_Fields(t *testing.T) {
	sub := FromValues(baseValues(), nil)

	assert.Equal(t, "payments", sub.Project)
	assert.Equal(t, models.ReviewStatusPass, sub.CodeReviewStatus)
	assert.Equal(t, models.ReviewStatusFail, sub.SonarQubeStatus)
	assert.Equal(t, models.ApprovalConditional, sub.ApprovalType)
	assert.Equal(t, "flaky login test", sub.IssueNotes)
	assert.Equal(t, models.TestCounts{Total: "10", Executed: "8", Passed: "7", Failed: "1"}, sub.TestCounts)
	assert.Equal(t, "abc123", sub.CommitID)
	assert.Nil(t, sub.SonarReportFile)
	assert.Empty(t, sub.VAPTReportFiles)
	assert.False(t, sub.PriorityIssues)
	assert.Nil(t, sub.PriorityCounts)
}

func TestFromValues_Checkboxes(t *testing.T) {
	v := baseValues()
	v.Set("priorityIssues", "on")
	v.Set("p0", "2")
	v.Set("p3", "5")
	v.Set("s1", "9") // ignored: severity box unchecked

	sub := FromValues(v, nil)
	assert.True(t, sub.PriorityIssues)
	require.NotNil(t, sub.PriorityCounts)
	assert.Equal(t, models.PriorityCounts{P0: "2", P3: "5"}, *sub.PriorityCounts)
	assert.False(t, sub.SeverityIssues)
	assert.Nil(t, sub.SeverityCounts)
}

func TestFromValues_FileHeadersKeepNamesInOrder(t *testing.T) {
	files := map[string][]*multipart.FileHeader{
		"sonarReport": {{Filename: "sonar.html"}},
		"vaptReport":  {{Filename: "a.txt"}, {Filename: "b.txt"}},
	}

	sub := FromValues(baseValues(), files)
	require.NotNil(t, sub.SonarReportFile)
	assert.Equal(t, "sonar.html", sub.SonarReportFile.Name)
	assert.Equal(t, []models.FileRef{{Name: "a.txt"}, {Name: "b.txt"}}, sub.VAPTReportFiles)
}

func TestFromValues_EmptyFileInput(t *testing.T) {
	files := map[string][]*multipart.FileHeader{
		"sonarReport": {{Filename: ""}},
	}
	sub := FromValues(baseValues(), files)
	assert.Nil(t, sub.SonarReportFile)
}

func TestFromValues_FileNamesAsValues(t *testing.T) {
	v := baseValues()
	v["vaptReport"] = []string{"x.pdf", "y.pdf"}
	v.Set("sonarReport", "s.pdf")

	sub := FromValues(v, nil)
	assert.Equal(t, "s.pdf", sub.SonarFileName())
	assert.Len(t, sub.VAPTReportFiles, 2)
}

const sampleYAML = `
project: payments
sprint: "Sprint 14"
startDate: "2026-03-02"
endDate: "2026-03-13"
codeReview: pass
approverName: R. Iyer
sonarQube: pass
sonarReport:
  name: sonar.pdf
vaptReport:
  - name: a.txt
  - name: b.txt
approvalType: non-conditional
priorityIssues: false
priorityCounts:
  p0: "3"
severityIssues: true
severityCounts:
  s2: "1"
testCounts:
  totalTests: "10"
  testsExecuted: "10"
  testsPassed: "9"
  testsFailed: "1"
prUrl: https://git.example.com/p/1
commitId: abc123
redmineUrl: https://redmine.example.com/issues/2
`

func TestFromYAML(t *testing.T) {
	sub, err := FromYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "payments", sub.Project)
	assert.Equal(t, "sonar.pdf", sub.SonarFileName())
	assert.Equal(t, []models.FileRef{{Name: "a.txt"}, {Name: "b.txt"}}, sub.VAPTReportFiles)
	assert.Equal(t, models.ApprovalNonConditional, sub.ApprovalType)
	assert.Nil(t, sub.PriorityCounts, "counts without their flag are dropped")
	require.NotNil(t, sub.SeverityCounts)
	assert.Equal(t, "1", sub.SeverityCounts.S2)
	assert.Equal(t, "9", sub.TestCounts.Passed)
}

func TestFromYAML_UnknownField(t *testing.T) {
	_, err := FromYAML(strings.NewReader("project: x\nbogus: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode submission")
}

func TestFromYAML_Empty(t *testing.T) {
	_, err := FromYAML(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestToYAML_RoundTrip(t *testing.T) {
	sub, err := FromYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	data, err := ToYAML(sub)
	require.NoError(t, err)
	assert.Contains(t, string(data), "project: payments")

	again, err := FromYAML(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, sub, again)
}
