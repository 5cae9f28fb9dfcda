package models

import "time"

// ReportRecord is a history entry for a generated review report.
type ReportRecord struct {
	ID           string            `json:"id"`
	Project      string            `json:"project"`
	Sprint       string            `json:"sprint"`
	CodeReview   ReviewStatus      `json:"codeReview"`
	ApprovalType ApprovalType      `json:"approvalType"`
	FileName     string            `json:"fileName"`
	HTML         string            `json:"-"`
	Submission   *ReviewSubmission `json:"submission,omitempty"`
	PDFSize      int64             `json:"pdfSize"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	CreatedAt    time.Time         `json:"createdAt"`
}
