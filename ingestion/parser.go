package ingestion

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/coreybb/checkin/models"
)

// ErrUnknownEntryType is returned by Parse when a message matches neither
// the morning nor the evening template.
var ErrUnknownEntryType = errors.New(`Start with "AM:" or "PM:"`)

const isoDateLayout = "2006-01-02"

var (
	amPrefixPattern     = regexp.MustCompile(`(?i)^AM[:\-]`)
	pmPrefixPattern     = regexp.MustCompile(`(?i)^PM[:\-]`)
	sleepWordPattern    = regexp.MustCompile(`(?i)\bSleep\b`)
	trainingWordPattern = regexp.MustCompile(`(?i)\bTraining\b`)
)

// DetectEntryType classifies a trimmed message. Rules are ordered and the
// first match wins: explicit AM/PM prefixes, then the Sleep/Training keywords.
func DetectEntryType(text string) models.EntryType {
	switch {
	case amPrefixPattern.MatchString(text):
		return models.EntryTypeAM
	case pmPrefixPattern.MatchString(text):
		return models.EntryTypePM
	case sleepWordPattern.MatchString(text):
		return models.EntryTypeAM
	case trainingWordPattern.MatchString(text):
		return models.EntryTypePM
	default:
		return models.EntryTypeUnknown
	}
}

// NormalizeWhitespace collapses every whitespace run to a single ASCII space
// and trims the result. Unicode spaces such as U+00A0 and U+202F count as
// whitespace, so the extractor patterns only ever see plain spaces.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.FieldsFunc(text, isSpace), " ")
}

// isSpace also treats the byte order mark as a space; chat clients emit it
// as a zero-width separator.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Parse classifies text and extracts the fields of the matching template.
// Extraction never runs for an unknown message.
func Parse(text string) (models.Entry, error) {
	switch DetectEntryType(text) {
	case models.EntryTypeAM:
		return ParseAM(text), nil
	case models.EntryTypePM:
		return ParsePM(text), nil
	default:
		return models.Entry{Type: models.EntryTypeUnknown}, ErrUnknownEntryType
	}
}

// ParseAM extracts the morning check-in fields. Every field is optional.
func ParseAM(text string) models.Entry {
	return models.Entry{
		Type:   models.EntryTypeAM,
		Fields: extractFields(NormalizeWhitespace(text), amExtractors),
	}
}

// ParsePM extracts the evening check-in fields. Every field is optional.
func ParsePM(text string) models.Entry {
	return models.Entry{
		Type:   models.EntryTypePM,
		Fields: extractFields(NormalizeWhitespace(text), pmExtractors),
	}
}

// Today renders now as an ISO-8601 calendar date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(isoDateLayout)
}

func extractFields(text string, extractors []extractor) models.Fields {
	fields := models.Fields{}
	for _, extract := range extractors {
		for _, f := range extract(text) {
			fields[f.name] = f.value
		}
	}
	return fields
}
