package review

import "github.com/joescharf/prr/internal/models"

// FieldID names a form field. Values match the input names of the review form.
type FieldID string

const (
	FieldProject       FieldID = "project"
	FieldSprint        FieldID = "sprint"
	FieldStartDate     FieldID = "startDate"
	FieldEndDate       FieldID = "endDate"
	FieldCodeReview    FieldID = "codeReview"
	FieldApproverName  FieldID = "approverName"
	FieldSonarQube     FieldID = "sonarQube"
	FieldSonarReport   FieldID = "sonarReport"
	FieldVAPTReport    FieldID = "vaptReport"
	FieldApprovalType  FieldID = "approvalType"
	FieldIssueNotes    FieldID = "issueNotes"
	FieldTotalTests    FieldID = "totalTests"
	FieldTestsExecuted FieldID = "testsExecuted"
	FieldTestsPassed   FieldID = "testsPassed"
	FieldTestsFailed   FieldID = "testsFailed"
	FieldPRURL         FieldID = "prUrl"
	FieldCommitID      FieldID = "commitId"
	FieldRedmineURL    FieldID = "redmineUrl"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindDate
	kindURL
	kindNumber
	kindFile
)

// field describes one entry of the form schema.
type field struct {
	ID       FieldID
	Label    string
	Kind     fieldKind
	Required func(s *models.ReviewSubmission) bool
	Value    func(s *models.ReviewSubmission) string
}

func always(*models.ReviewSubmission) bool { return true }

func never(*models.ReviewSubmission) bool { return false }

// schema lists the form fields in the order they appear on the form.
var schema = []field{
	{FieldProject, "Project", kindText, always, func(s *models.ReviewSubmission) string { return s.Project }},
	{FieldSprint, "Sprint", kindText, always, func(s *models.ReviewSubmission) string { return s.Sprint }},
	{FieldStartDate, "Start Date", kindDate, always, func(s *models.ReviewSubmission) string { return s.StartDate }},
	{FieldEndDate, "End Date", kindDate, always, func(s *models.ReviewSubmission) string { return s.EndDate }},
	{FieldCodeReview, "Code Review", kindText, always, func(s *models.ReviewSubmission) string { return string(s.CodeReviewStatus) }},
	{FieldApproverName, "Approver Name", kindText,
		func(s *models.ReviewSubmission) bool { return s.CodeReviewStatus == models.ReviewStatusPass },
		func(s *models.ReviewSubmission) string { return s.ApproverName }},
	{FieldSonarQube, "Sonar Qube", kindText, always, func(s *models.ReviewSubmission) string { return string(s.SonarQubeStatus) }},
	{FieldSonarReport, "Sonar Qube Report", kindFile, never, func(s *models.ReviewSubmission) string { return s.SonarFileName() }},
	{FieldVAPTReport, "VAPT Report", kindFile, never, func(*models.ReviewSubmission) string { return "" }},
	{FieldApprovalType, "Approval Type", kindText, always, func(s *models.ReviewSubmission) string { return string(s.ApprovalType) }},
	{FieldIssueNotes, "Issue Notes", kindText, never, func(s *models.ReviewSubmission) string { return s.IssueNotes }},
	{FieldTotalTests, "Total Tests", kindNumber, always, func(s *models.ReviewSubmission) string { return s.TestCounts.Total }},
	{FieldTestsExecuted, "Tests Executed", kindNumber, always, func(s *models.ReviewSubmission) string { return s.TestCounts.Executed }},
	{FieldTestsPassed, "Tests Passed", kindNumber, always, func(s *models.ReviewSubmission) string { return s.TestCounts.Passed }},
	{FieldTestsFailed, "Tests Failed", kindNumber, always, func(s *models.ReviewSubmission) string { return s.TestCounts.Failed }},
	{FieldPRURL, "PR URL", kindURL, always, func(s *models.ReviewSubmission) string { return s.PRURL }},
	{FieldCommitID, "Commit ID", kindText, always, func(s *models.ReviewSubmission) string { return s.CommitID }},
	{FieldRedmineURL, "Redmine URL", kindURL, always, func(s *models.ReviewSubmission) string { return s.RedmineURL }},
}

// Label returns the human readable label for a field id, or the id itself if unknown.
func Label(id FieldID) string {
	for _, f := range schema {
		if f.ID == id {
			return f.Label
		}
	}
	return string(id)
}

// RequiredFields returns the ids of fields that are unconditionally required.
func RequiredFields() []FieldID {
	var ids []FieldID
	empty := &models.ReviewSubmission{}
	for _, f := range schema {
		if f.Kind != kindFile && f.Required(empty) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}
