// Package generate runs a review submission through validation, assembly,
// HTML rendering and PDF conversion, and records the result in history.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joescharf/prr/internal/models"
	"github.com/joescharf/prr/internal/pdf"
	"github.com/joescharf/prr/internal/report"
	"github.com/joescharf/prr/internal/review"
	"github.com/joescharf/prr/internal/store"
)

// Renderer converts an HTML document to PDF bytes.
type Renderer interface {
	Generate(ctx context.Context, html string) ([]byte, error)
}

// InvalidError is returned when a submission fails validation.
// Nothing is sent to the renderer in that case.
type InvalidError struct {
	Result review.Result
}

func (e *InvalidError) Error() string {
	ids := e.Result.Fields()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return "invalid submission: " + strings.Join(names, ", ")
}

// Outcome is a generated report.
type Outcome struct {
	Document *report.Document
	HTML     string
	PDF      []byte
	FileName string
	RecordID string
}

// Service orchestrates report generation.
type Service struct {
	assembler *report.Assembler
	renderer  Renderer
	store     store.Store
	now       func() time.Time
}

// NewService creates a Service. The store may be nil to skip history.
func NewService(a *report.Assembler, r Renderer, s store.Store) *Service {
	return &Service{
		assembler: a,
		renderer:  r,
		store:     s,
		now:       time.Now,
	}
}

// Validate checks a submission without rendering it.
func (s *Service) Validate(sub *models.ReviewSubmission) review.Result {
	return review.Validate(sub)
}

// Preview validates and renders the HTML document without calling the renderer.
func (s *Service) Preview(sub *models.ReviewSubmission) (*Outcome, error) {
	if res := review.Validate(sub); !res.OK {
		return nil, &InvalidError{Result: res}
	}

	doc := s.assembler.Assemble(sub)
	html, err := report.HTML(doc)
	if err != nil {
		return nil, err
	}
	return &Outcome{Document: doc, HTML: html}, nil
}

// Generate validates, renders and converts a submission to PDF. Validation
// failures return *InvalidError; renderer failures wrap pdf.ErrGenerationFailed.
// A history write failure is returned alongside the generated outcome.
func (s *Service) Generate(ctx context.Context, sub *models.ReviewSubmission) (*Outcome, error) {
	out, err := s.Preview(sub)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Generate(ctx, out.HTML)
	if err != nil {
		return nil, err
	}
	out.PDF = data
	out.FileName = pdf.FileName(s.now())

	if s.store == nil {
		return out, nil
	}

	rec := &models.ReportRecord{
		Project:      sub.Project,
		Sprint:       sub.Sprint,
		CodeReview:   sub.CodeReviewStatus,
		ApprovalType: sub.ApprovalType,
		FileName:     out.FileName,
		HTML:         out.HTML,
		Submission:   sub,
		PDFSize:      int64(len(data)),
		GeneratedAt:  out.Document.GeneratedAt,
	}
	if err := s.store.CreateReport(ctx, rec); err != nil {
		return out, fmt.Errorf("record report history: %w", err)
	}
	out.RecordID = rec.ID
	return out, nil
}
