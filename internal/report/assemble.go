package report

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/joescharf/prr/internal/models"
)

// DocumentTitle is the heading of every review report.
const DocumentTitle = "Project Review Report"

// Clock supplies the generation timestamp.
type Clock func() time.Time

// Assembler maps review submissions to documents.
// It holds no mutable state and is safe for concurrent use.
type Assembler struct {
	now      Clock
	locale   language.Tag
	location *time.Location
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock sets the timestamp source.
func WithClock(c Clock) Option {
	return func(a *Assembler) { a.now = c }
}

// WithLocale sets the locale used to format the generation timestamp.
func WithLocale(tag language.Tag) Option {
	return func(a *Assembler) { a.locale = tag }
}

// WithLocation sets the time zone the generation timestamp is shown in.
func WithLocation(loc *time.Location) Option {
	return func(a *Assembler) {
		if loc != nil {
			a.location = loc
		}
	}
}

// NewAssembler returns an Assembler using the wall clock, DefaultLocale and
// the local time zone unless overridden.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		now:      time.Now,
		locale:   DefaultLocale,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the report document for a submission. The submission is
// expected to have passed validation already; values are used as given.
func (a *Assembler) Assemble(sub *models.ReviewSubmission) *Document {
	generated := a.now().In(a.location)

	doc := &Document{
		Title:       DocumentTitle,
		GeneratedAt: generated,
	}

	doc.Sections = append(doc.Sections,
		Section{
			Title: SectionProjectDetails,
			Fields: []Field{
				{Label: "Project", Value: sub.Project},
				{Label: "Sprint", Value: sub.Sprint},
				{Label: "Duration", Value: sub.StartDate + " to " + sub.EndDate},
			},
		},
		codeReviewSection(sub),
		sonarSection(sub),
		vaptSection(sub),
		testResultsSection(sub),
	)

	if sub.PriorityIssues {
		var c models.PriorityCounts
		if sub.PriorityCounts != nil {
			c = *sub.PriorityCounts
		}
		doc.Sections = append(doc.Sections, countsSection(SectionPriority,
			[]string{"P0", "P1", "P2", "P3"}, c.P0, c.P1, c.P2, c.P3))
	}

	if sub.SeverityIssues {
		var c models.SeverityCounts
		if sub.SeverityCounts != nil {
			c = *sub.SeverityCounts
		}
		doc.Sections = append(doc.Sections, countsSection(SectionSeverity,
			[]string{"S0", "S1", "S2", "S3"}, c.S0, c.S1, c.S2, c.S3))
	}

	doc.Sections = append(doc.Sections,
		Section{
			Title: SectionReferenceLinks,
			Fields: []Field{
				{Label: "PR URL", Value: sub.PRURL, Style: StyleLink},
				{Label: "Commit ID", Value: sub.CommitID},
				{Label: "Redmine URL", Value: sub.RedmineURL, Style: StyleLink},
			},
		},
		Section{
			Title: SectionGenerationInfo,
			Fields: []Field{
				{Label: "Generated On", Value: FormatTimestamp(generated, a.locale)},
			},
		},
	)

	return doc
}

func codeReviewSection(sub *models.ReviewSubmission) Section {
	s := Section{
		Title:  SectionCodeReview,
		Fields: []Field{{Label: "Status", Value: string(sub.CodeReviewStatus)}},
	}
	if sub.ApproverName != "" {
		s.Fields = append(s.Fields, Field{Label: "Approver", Value: sub.ApproverName})
	}
	return s
}

func sonarSection(sub *models.ReviewSubmission) Section {
	s := Section{
		Title:  SectionSonarQube,
		Fields: []Field{{Label: "Status", Value: string(sub.SonarQubeStatus)}},
	}
	if name := sub.SonarFileName(); name != "" {
		s.Fields = append(s.Fields, Field{Label: "Report File", Value: name, Style: StyleFile})
	}
	return s
}

// vaptSection lists every named VAPT file. Inputs with no file selected carry
// an empty name and are skipped.
func vaptSection(sub *models.ReviewSubmission) Section {
	s := Section{Title: SectionVAPT}
	for _, f := range sub.VAPTReportFiles {
		if f.Name == "" {
			continue
		}
		s.Fields = append(s.Fields, Field{Label: "File", Value: f.Name, Style: StyleFile})
	}
	return s
}

// ApprovalLabel returns the display label for an approval type.
func ApprovalLabel(t models.ApprovalType) string {
	if t == models.ApprovalConditional {
		return "Conditional Approval"
	}
	return "Non-Conditional Approval"
}

func testResultsSection(sub *models.ReviewSubmission) Section {
	tc := sub.TestCounts
	return Section{
		Title:  SectionTestResults,
		Fields: []Field{{Label: "Approval Type", Value: ApprovalLabel(sub.ApprovalType)}},
		Table: &Table{
			Headers: []string{"Total Tests", "Executed", "Passed", "Failed"},
			Rows:    [][]string{{tc.Total, tc.Executed, tc.Passed, tc.Failed}},
		},
	}
}

func countsSection(title string, headers []string, counts ...string) Section {
	row := make([]string, len(counts))
	for i, c := range counts {
		row[i] = orZero(c)
	}
	return Section{
		Title: title,
		Table: &Table{Headers: headers, Rows: [][]string{row}},
	}
}

func orZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return s
}
