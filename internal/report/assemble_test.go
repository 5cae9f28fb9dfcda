package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/joescharf/prr/internal/models"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC)

func testAssembler(opts ...Option) *Assembler {
	base := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithLocation(time.UTC),
	}
	return NewAssembler(append(base, opts...)...)
}

func sampleSubmission() *models.ReviewSubmission {
	return &models.ReviewSubmission{
		Project:          "payments",
		Sprint:           "Sprint 14",
		StartDate:        "2026-03-02",
		EndDate:          "2026-03-13",
		CodeReviewStatus: models.ReviewStatusPass,
		ApproverName:     "R. Iyer",
		SonarQubeStatus:  models.ReviewStatusFail,
		SonarReportFile:  &models.FileRef{Name: "sonar.pdf"},
		VAPTReportFiles:  []models.FileRef{{Name: "a.txt"}, {Name: "b.txt"}},
		ApprovalType:     models.ApprovalConditional,
		IssueNotes:       "login flake tracked separately",
		PriorityIssues:   true,
		PriorityCounts:   &models.PriorityCounts{P0: "1", P2: "4"},
		SeverityIssues:   true,
		SeverityCounts:   &models.SeverityCounts{S1: "2"},
		TestCounts:       models.TestCounts{Total: "120", Executed: "110", Passed: "100", Failed: "10"},
		PRURL:            "https://git.example.com/payments/pull/42",
		CommitID:         "9f1c2ab",
		RedmineURL:       "https://redmine.example.com/issues/881",
	}
}

func fieldMap(s *Section) map[string]Field {
	m := make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		m[f.Label] = f
	}
	return m
}

func TestAssemble_SectionOrder(t *testing.T) {
	doc := testAssembler().Assemble(sampleSubmission())

	assert.Equal(t, DocumentTitle, doc.Title)
	assert.Equal(t, []string{
		SectionProjectDetails,
		SectionCodeReview,
		SectionSonarQube,
		SectionVAPT,
		SectionTestResults,
		SectionPriority,
		SectionSeverity,
		SectionReferenceLinks,
		SectionGenerationInfo,
	}, doc.Titles())
}

func TestAssemble_OptionalSectionsOmitted(t *testing.T) {
	sub := sampleSubmission()
	sub.PriorityIssues = false
	sub.SeverityIssues = false

	doc := testAssembler().Assemble(sub)

	_, ok := doc.Section(SectionPriority)
	assert.False(t, ok, "priority section should be absent even with counts present")
	_, ok = doc.Section(SectionSeverity)
	assert.False(t, ok)
	assert.Len(t, doc.Sections, 7)
}

func TestAssemble_ProjectDetails(t *testing.T) {
	doc := testAssembler().Assemble(sampleSubmission())
	s, ok := doc.Section(SectionProjectDetails)
	require.True(t, ok)

	fields := fieldMap(s)
	assert.Equal(t, "payments", fields["Project"].Value)
	assert.Equal(t, "Sprint 14", fields["Sprint"].Value)
	assert.Equal(t, "2026-03-02 to 2026-03-13", fields["Duration"].Value)
}

func TestAssemble_ApproverOnlyWhenPresent(t *testing.T) {
	sub := sampleSubmission()
	doc := testAssembler().Assemble(sub)
	s, _ := doc.Section(SectionCodeReview)
	assert.Equal(t, "R. Iyer", fieldMap(s)["Approver"].Value)

	sub.ApproverName = ""
	doc = testAssembler().Assemble(sub)
	s, _ = doc.Section(SectionCodeReview)
	require.Len(t, s.Fields, 1)
	assert.Equal(t, "Status", s.Fields[0].Label)
	assert.Equal(t, "pass", s.Fields[0].Value)
}

func TestAssemble_SonarFileOnlyWhenPresent(t *testing.T) {
	sub := sampleSubmission()
	doc := testAssembler().Assemble(sub)
	s, _ := doc.Section(SectionSonarQube)
	f := fieldMap(s)["Report File"]
	assert.Equal(t, "sonar.pdf", f.Value)
	assert.Equal(t, StyleFile, f.Style)

	for _, ref := range []*models.FileRef{nil, {Name: ""}} {
		sub.SonarReportFile = ref
		doc = testAssembler().Assemble(sub)
		s, _ = doc.Section(SectionSonarQube)
		assert.Len(t, s.Fields, 1)
	}
}

func TestAssemble_VAPTFilesInOrder(t *testing.T) {
	doc := testAssembler().Assemble(sampleSubmission())
	s, ok := doc.Section(SectionVAPT)
	require.True(t, ok)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "a.txt", s.Fields[0].Value)
	assert.Equal(t, "b.txt", s.Fields[1].Value)
}

func TestAssemble_VAPTEmptyKeepsHeader(t *testing.T) {
	sub := sampleSubmission()
	sub.VAPTReportFiles = nil

	doc := testAssembler().Assemble(sub)
	s, ok := doc.Section(SectionVAPT)
	require.True(t, ok)
	assert.Empty(t, s.Fields)
}

func TestAssemble_ApprovalLabel(t *testing.T) {
	sub := sampleSubmission()

	sub.ApprovalType = models.ApprovalConditional
	s, _ := testAssembler().Assemble(sub).Section(SectionTestResults)
	assert.Equal(t, "Conditional Approval", s.Fields[0].Value)

	sub.ApprovalType = models.ApprovalNonConditional
	s, _ = testAssembler().Assemble(sub).Section(SectionTestResults)
	assert.Equal(t, "Non-Conditional Approval", s.Fields[0].Value)
}

func TestAssemble_TestResultsTable(t *testing.T) {
	s, _ := testAssembler().Assemble(sampleSubmission()).Section(SectionTestResults)
	require.NotNil(t, s.Table)
	assert.Equal(t, []string{"Total Tests", "Executed", "Passed", "Failed"}, s.Table.Headers)
	assert.Equal(t, [][]string{{"120", "110", "100", "10"}}, s.Table.Rows)
}

func TestAssemble_NumbersRenderedAsGiven(t *testing.T) {
	sub := sampleSubmission()
	sub.TestCounts = models.TestCounts{Total: "5", Executed: "9", Passed: "x", Failed: "-1"}

	s, _ := testAssembler().Assemble(sub).Section(SectionTestResults)
	assert.Equal(t, [][]string{{"5", "9", "x", "-1"}}, s.Table.Rows)
}

func TestAssemble_IssueCountsDefaultToZero(t *testing.T) {
	doc := testAssembler().Assemble(sampleSubmission())

	p, ok := doc.Section(SectionPriority)
	require.True(t, ok)
	assert.Equal(t, []string{"P0", "P1", "P2", "P3"}, p.Table.Headers)
	assert.Equal(t, [][]string{{"1", "0", "4", "0"}}, p.Table.Rows)

	s, ok := doc.Section(SectionSeverity)
	require.True(t, ok)
	assert.Equal(t, []string{"S0", "S1", "S2", "S3"}, s.Table.Headers)
	assert.Equal(t, [][]string{{"0", "2", "0", "0"}}, s.Table.Rows)
}

func TestAssemble_FlagWithoutCounts(t *testing.T) {
	sub := sampleSubmission()
	sub.PriorityCounts = nil

	p, ok := testAssembler().Assemble(sub).Section(SectionPriority)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"0", "0", "0", "0"}}, p.Table.Rows)
}

func TestAssemble_ReferenceLinks(t *testing.T) {
	s, _ := testAssembler().Assemble(sampleSubmission()).Section(SectionReferenceLinks)
	fields := fieldMap(s)

	assert.Equal(t, StyleLink, fields["PR URL"].Style)
	assert.Equal(t, "https://git.example.com/payments/pull/42", fields["PR URL"].Value)
	assert.Equal(t, StylePlain, fields["Commit ID"].Style)
	assert.Equal(t, StyleLink, fields["Redmine URL"].Style)
}

func TestAssemble_GenerationTimestamp(t *testing.T) {
	doc := testAssembler().Assemble(sampleSubmission())
	assert.Equal(t, fixedTime, doc.GeneratedAt)

	s, _ := doc.Section(SectionGenerationInfo)
	assert.Equal(t, "3/14/2026, 9:30:05 AM", fieldMap(s)["Generated On"].Value)

	doc = testAssembler(WithLocale(language.BritishEnglish)).Assemble(sampleSubmission())
	s, _ = doc.Section(SectionGenerationInfo)
	assert.Equal(t, "14/03/2026, 09:30:05", fieldMap(s)["Generated On"].Value)
}

func TestAssemble_Idempotent(t *testing.T) {
	a := testAssembler()
	sub := sampleSubmission()

	first := a.Assemble(sub)
	second := a.Assemble(sub)
	assert.Equal(t, first, second)

	h1, err := HTML(first)
	require.NoError(t, err)
	h2, err := HTML(second)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestFormatTimestamp_Locales(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "3/14/2026, 9:30:05 AM"},
		{"en-GB", "14/03/2026, 09:30:05"},
		{"de-DE", "14.3.2026, 09:30:05"},
		{"fr", "14/03/2026 09:30:05"},
		{"ja-JP", "2026/3/14 09:30:05"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(fixedTime, ParseLocale(tt.locale)))
		})
	}
}

func TestParseLocale_Invalid(t *testing.T) {
	assert.Equal(t, DefaultLocale, ParseLocale("not a locale!"))
}
