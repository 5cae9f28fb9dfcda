// Package form decodes review submissions from browser form posts and YAML files.
package form

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"

	"gopkg.in/yaml.v3"

	"github.com/joescharf/prr/internal/models"
)

// FromValues builds a submission from posted form values. File inputs are read
// from files when present (only the file name is kept); a plain value with the
// same input name is accepted as a file name for clients that post names only.
func FromValues(values url.Values, files map[string][]*multipart.FileHeader) *models.ReviewSubmission {
	sub := &models.ReviewSubmission{
		Project:          values.Get("project"),
		Sprint:           values.Get("sprint"),
		StartDate:        values.Get("startDate"),
		EndDate:          values.Get("endDate"),
		CodeReviewStatus: models.ReviewStatus(values.Get("codeReview")),
		ApproverName:     values.Get("approverName"),
		SonarQubeStatus:  models.ReviewStatus(values.Get("sonarQube")),
		ApprovalType:     models.ApprovalType(values.Get("approvalType")),
		IssueNotes:       values.Get("issueNotes"),
		PriorityIssues:   values.Get("priorityIssues") != "",
		SeverityIssues:   values.Get("severityIssues") != "",
		TestCounts: models.TestCounts{
			Total:    values.Get("totalTests"),
			Executed: values.Get("testsExecuted"),
			Passed:   values.Get("testsPassed"),
			Failed:   values.Get("testsFailed"),
		},
		PRURL:      values.Get("prUrl"),
		CommitID:   values.Get("commitId"),
		RedmineURL: values.Get("redmineUrl"),
	}

	if names := fileNames("sonarReport", values, files); len(names) > 0 && names[0] != "" {
		sub.SonarReportFile = &models.FileRef{Name: names[0]}
	}
	for _, name := range fileNames("vaptReport", values, files) {
		sub.VAPTReportFiles = append(sub.VAPTReportFiles, models.FileRef{Name: name})
	}

	if sub.PriorityIssues {
		sub.PriorityCounts = &models.PriorityCounts{
			P0: values.Get("p0"),
			P1: values.Get("p1"),
			P2: values.Get("p2"),
			P3: values.Get("p3"),
		}
	}
	if sub.SeverityIssues {
		sub.SeverityCounts = &models.SeverityCounts{
			S0: values.Get("s0"),
			S1: values.Get("s1"),
			S2: values.Get("s2"),
			S3: values.Get("s3"),
		}
	}

	return sub
}

func fileNames(key string, values url.Values, files map[string][]*multipart.FileHeader) []string {
	if headers, ok := files[key]; ok {
		names := make([]string, 0, len(headers))
		for _, h := range headers {
			names = append(names, h.Filename)
		}
		return names
	}
	return values[key]
}

// FromYAML decodes a submission from a YAML document using the form field names as keys.
func FromYAML(r io.Reader) (*models.ReviewSubmission, error) {
	var sub models.ReviewSubmission
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sub); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode submission: empty document")
		}
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	Normalize(&sub)
	return &sub, nil
}

// ToYAML encodes a submission in the same shape FromYAML reads.
func ToYAML(sub *models.ReviewSubmission) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sub); err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}
	return buf.Bytes(), nil
}

// Normalize drops issue counts whose flag is unset, matching what the form posts.
func Normalize(sub *models.ReviewSubmission) {
	if !sub.PriorityIssues {
		sub.PriorityCounts = nil
	}
	if !sub.SeverityIssues {
		sub.SeverityCounts = nil
	}
}
