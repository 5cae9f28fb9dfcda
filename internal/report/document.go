package report

import "time"

// Section titles, in document order.
const (
	SectionProjectDetails = "Project Details"
	SectionCodeReview     = "Code Review"
	SectionSonarQube      = "Sonar Qube Report"
	SectionVAPT           = "VAPT Report"
	SectionTestResults    = "Test Results Summary"
	SectionPriority       = "Priority Issues"
	SectionSeverity       = "Severity Issues"
	SectionReferenceLinks = "Reference Links"
	SectionGenerationInfo = "Report Generation Info"
)

// FieldStyle controls how a field value is presented.
type FieldStyle int

const (
	StylePlain FieldStyle = iota
	// StyleFile marks an uploaded file name.
	StyleFile
	// StyleLink renders the value as a hyperlink whose text is the value itself.
	StyleLink
)

// Field is one label/value line of a section.
type Field struct {
	Label string
	Value string
	Style FieldStyle
}

// Table is a single header row followed by data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Section is a titled block of fields, optionally followed by a table.
type Section struct {
	Title  string
	Fields []Field
	Table  *Table
}

// Document is the ordered, section-based rendering of a review submission.
type Document struct {
	Title       string
	Sections    []Section
	GeneratedAt time.Time
}

// Section returns the section with the given title, if present.
func (d *Document) Section(title string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Title == title {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// Titles returns the section titles in order.
func (d *Document) Titles() []string {
	titles := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		titles[i] = s.Title
	}
	return titles
}
