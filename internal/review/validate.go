package review

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joescharf/prr/internal/models"
)

// DateLayout is the layout of date inputs on the review form.
const DateLayout = "2006-01-02"

// FieldError reports one problem with one form field.
type FieldError struct {
	Field   FieldID `json:"field"`
	Message string  `json:"message"`
}

// Result is the outcome of validating a submission.
type Result struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"fieldErrors"`
}

// Fields returns the distinct offending field ids in the order they were reported.
func (r Result) Fields() []FieldID {
	seen := make(map[FieldID]bool, len(r.Errors))
	var ids []FieldID
	for _, e := range r.Errors {
		if !seen[e.Field] {
			seen[e.Field] = true
			ids = append(ids, e.Field)
		}
	}
	return ids
}

// Has reports whether any error targets the given field.
func (r Result) Has(id FieldID) bool {
	for _, e := range r.Errors {
		if e.Field == id {
			return true
		}
	}
	return false
}

// ParseCount converts a raw numeric form value into a non-negative integer.
//
// Parsing is lenient: surrounding whitespace is ignored, the leading run of
// digits is used and anything after it is dropped. Values with no leading
// digits and negative values become 0. Values too large for an int saturate.
func ParseCount(raw string) int {
	s := strings.TrimSpace(raw)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// Validate checks a submission against the numeric and presence rules of the
// review form. It never fails: every violation is collected into the result.
// A nil submission is treated as an empty form.
func Validate(sub *models.ReviewSubmission) Result {
	if sub == nil {
		sub = &models.ReviewSubmission{}
	}

	var errs []FieldError
	add := func(id FieldID, msg string) {
		errs = append(errs, FieldError{Field: id, Message: msg})
	}

	total := ParseCount(sub.TestCounts.Total)
	executed := ParseCount(sub.TestCounts.Executed)
	passed := ParseCount(sub.TestCounts.Passed)
	failed := ParseCount(sub.TestCounts.Failed)

	if executed > total {
		add(FieldTestsExecuted, "executed tests cannot exceed total tests")
	}
	// Compared without adding to avoid overflow on saturated values.
	if passed > executed || failed != executed-passed {
		add(FieldTestsPassed, "passed and failed tests must add up to executed tests")
		add(FieldTestsFailed, "passed and failed tests must add up to executed tests")
	}

	for _, f := range schema {
		if f.Kind == kindFile {
			continue
		}
		value := strings.TrimSpace(f.Value(sub))
		if value == "" {
			if f.Required(sub) {
				add(f.ID, f.Label+" is required")
			}
			continue
		}

		switch f.Kind {
		case kindDate:
			if _, err := time.Parse(DateLayout, value); err != nil {
				add(f.ID, f.Label+" must be a date (YYYY-MM-DD)")
			}
		case kindURL:
			if !isWebURL(value) {
				add(f.ID, f.Label+" must be an http or https URL")
			}
		}
	}

	return Result{OK: len(errs) == 0, Errors: errs}
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
