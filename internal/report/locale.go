package report

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured or the configured one cannot be parsed.
var DefaultLocale = language.AmericanEnglish

// dateTimeLayouts are the date/time layouts for the supported locales.
// The index of each entry matches localeTags.
var (
	localeTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Spanish,
		language.BrazilianPortuguese,
		language.Japanese,
	}
	dateTimeLayouts = []string{
		"1/2/2006, 3:04:05 PM",
		"02/01/2006, 15:04:05",
		"2.1.2006, 15:04:05",
		"02/01/2006 15:04:05",
		"2/1/2006, 15:04:05",
		"02/01/2006, 15:04:05",
		"2006/1/2 15:04:05",
	}
	localeMatcher = language.NewMatcher(localeTags)
)

// ParseLocale parses a BCP 47 tag such as "en-GB", falling back to DefaultLocale.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return tag
}

// FormatTimestamp formats t as a date/time string for the closest supported locale.
func FormatTimestamp(t time.Time, tag language.Tag) string {
	_, idx, _ := localeMatcher.Match(tag)
	return t.Format(dateTimeLayouts[idx])
}
