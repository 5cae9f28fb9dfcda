package models

// ReviewStatus is the outcome selected for the code review and Sonar Qube checks.
type ReviewStatus string

const (
	ReviewStatusPass    ReviewStatus = "pass"
	ReviewStatusFail    ReviewStatus = "fail"
	ReviewStatusPending ReviewStatus = "pending"
)

// ApprovalType selects whether the release is approved with conditions.
type ApprovalType string

const (
	ApprovalConditional    ApprovalType = "conditional"
	ApprovalNonConditional ApprovalType = "non-conditional"
)

// FileRef identifies an uploaded file by name. File contents are never carried.
type FileRef struct {
	Name string `json:"name" yaml:"name"`
}

// TestCounts holds the raw test numbers as entered on the form.
type TestCounts struct {
	Total    string `json:"totalTests" yaml:"totalTests"`
	Executed string `json:"testsExecuted" yaml:"testsExecuted"`
	Passed   string `json:"testsPassed" yaml:"testsPassed"`
	Failed   string `json:"testsFailed" yaml:"testsFailed"`
}

// PriorityCounts holds the raw P0-P3 open issue counts.
type PriorityCounts struct {
	P0 string `json:"p0,omitempty" yaml:"p0,omitempty"`
	P1 string `json:"p1,omitempty" yaml:"p1,omitempty"`
	P2 string `json:"p2,omitempty" yaml:"p2,omitempty"`
	P3 string `json:"p3,omitempty" yaml:"p3,omitempty"`
}

// SeverityCounts holds the raw S0-S3 open issue counts.
type SeverityCounts struct {
	S0 string `json:"s0,omitempty" yaml:"s0,omitempty"`
	S1 string `json:"s1,omitempty" yaml:"s1,omitempty"`
	S2 string `json:"s2,omitempty" yaml:"s2,omitempty"`
	S3 string `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// ReviewSubmission is one filled-in project review form.
//
// Numeric values stay as the strings the form delivered so that the rendered
// report shows them as entered. Validation does its own coercion.
type ReviewSubmission struct {
	Project   string `json:"project" yaml:"project"`
	Sprint    string `json:"sprint" yaml:"sprint"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`

	CodeReviewStatus ReviewStatus `json:"codeReview" yaml:"codeReview"`
	ApproverName     string       `json:"approverName,omitempty" yaml:"approverName,omitempty"`

	SonarQubeStatus ReviewStatus `json:"sonarQube" yaml:"sonarQube"`
	SonarReportFile *FileRef     `json:"sonarReport,omitempty" yaml:"sonarReport,omitempty"`

	VAPTReportFiles []FileRef `json:"vaptReport,omitempty" yaml:"vaptReport,omitempty"`

	ApprovalType ApprovalType `json:"approvalType" yaml:"approvalType"`
	IssueNotes   string       `json:"issueNotes,omitempty" yaml:"issueNotes,omitempty"`

	PriorityIssues bool            `json:"priorityIssues" yaml:"priorityIssues"`
	PriorityCounts *PriorityCounts `json:"priorityCounts,omitempty" yaml:"priorityCounts,omitempty"`

	SeverityIssues bool            `json:"severityIssues" yaml:"severityIssues"`
	SeverityCounts *SeverityCounts `json:"severityCounts,omitempty" yaml:"severityCounts,omitempty"`

	TestCounts TestCounts `json:"testCounts" yaml:"testCounts"`

	PRURL      string `json:"prUrl" yaml:"prUrl"`
	CommitID   string `json:"commitId" yaml:"commitId"`
	RedmineURL string `json:"redmineUrl" yaml:"redmineUrl"`
}

// SonarFileName returns the Sonar Qube report file name, or "" when none was attached.
func (s *ReviewSubmission) SonarFileName() string {
	if s.SonarReportFile == nil {
		return ""
	}
	return s.SonarReportFile.Name
}
