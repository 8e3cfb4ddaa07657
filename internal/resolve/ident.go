// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Kind is the identifier kind used for one lookup attempt.
type Kind int

const (
	KindDOI Kind = iota
	KindPreprint
	KindTitleAuthorYear
)

// String returns the label used in source strings and the extra-field
// line, e.g. "Crossref/DOI" or "NASA ADS/Title".
func (k Kind) String() string {
	switch k {
	case KindDOI:
		return "DOI"
	case KindPreprint:
		return "arXiv"
	case KindTitleAuthorYear:
		return "Title"
	default:
		return "unknown"
	}
}

// Lookup is the extracted key for one attempt. ID carries the DOI or
// preprint identifier; the title/author/year triple serves search-capable
// providers.
type Lookup struct {
	Kind   Kind
	ID     string
	Title  string
	Author string
	Year   int
}

// preprintPattern matches an arXiv reference embedded in a record's URL
// field: "arxiv.org/abs/2301.07041v2", "arxiv.org/pdf/2301.07041", or an
// inline "arXiv:hep-th/9901001". Old-style identifiers keep their
// subject-class prefix; a trailing version suffix is kept too.
var preprintPattern = regexp.MustCompile(`(?i)(?:arxiv\.org/(?:abs|pdf)/|arxiv:)([a-z-]+(?:\.[a-z]{2})?/\d{7}|\d{4}\.\d{4,5})(v\d+)?`)

// yearPattern matches a leading 4-digit year in a free-text date,
// optionally preceded by "c. " ("c. 1998", "2023-01-17").
var yearPattern = regexp.MustCompile(`^(?:c\.\s*)?(\d{4})\b`)

// Bounds applied to title and author before they enter search queries.
const (
	maxQueryTitleLen  = 100
	maxQueryAuthorLen = 60
)

// extract builds the lookup key of the given kind from a record. On
// failure it returns an AttemptError with the provider left blank; the
// engine stamps it.
func extract(rec types.Record, kind Kind) (Lookup, *AttemptError) {
	switch kind {
	case KindDOI:
		return extractDOI(rec)
	case KindPreprint:
		return extractPreprint(rec)
	case KindTitleAuthorYear:
		return extractTitleAuthorYear(rec)
	default:
		return Lookup{}, &AttemptError{Kind: FailUnknown, Ident: kind}
	}
}

// extractDOI returns the record's DOI verbatim. URL builders apply
// transport escaping.
func extractDOI(rec types.Record) (Lookup, *AttemptError) {
	doi := strings.TrimSpace(rec.DOI)
	if doi == "" {
		return Lookup{}, &AttemptError{Kind: FailMissingIdentifier, Ident: KindDOI, Err: ErrNoDOI}
	}
	return Lookup{Kind: KindDOI, ID: doi}, nil
}

// extractPreprint scans the record's URL field for an arXiv reference.
func extractPreprint(rec types.Record) (Lookup, *AttemptError) {
	m := preprintPattern.FindStringSubmatch(rec.URL)
	if m == nil {
		return Lookup{}, &AttemptError{Kind: FailMissingIdentifier, Ident: KindPreprint, Err: ErrNoPreprintID}
	}
	return Lookup{Kind: KindPreprint, ID: m[1] + m[2]}, nil
}

// extractTitleAuthorYear builds the search triple. The title is required;
// at least one of author and year must accompany it.
func extractTitleAuthorYear(rec types.Record) (Lookup, *AttemptError) {
	title := truncate(strings.TrimSpace(rec.Title), maxQueryTitleLen)
	author := clip(strings.TrimSpace(rec.FirstCreatorName()), maxQueryAuthorLen)
	year := recordYear(rec)

	if title == "" || (author == "" && year == 0) {
		return Lookup{}, &AttemptError{Kind: FailInsufficientMetadata, Ident: KindTitleAuthorYear, Err: ErrNoMetadata}
	}
	return Lookup{Kind: KindTitleAuthorYear, Title: title, Author: author, Year: year}, nil
}

// recordYear returns the record's year, falling back to a leading 4-digit
// year parsed out of the free-text date field.
func recordYear(rec types.Record) int {
	if rec.Year > 0 {
		return rec.Year
	}
	m := yearPattern.FindStringSubmatch(strings.TrimSpace(rec.Date))
	if m == nil {
		return 0
	}
	year := 0
	for _, d := range m[1] {
		year = year*10 + int(d-'0')
	}
	return year
}

// truncate bounds s at max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// clip bounds s at max runes without a marker.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
