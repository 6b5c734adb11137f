// Package doctype derives short document-type names ("Invoice", "CreditNote")
// from participant document identifiers.
//
// Each line of a raw field is tried against an ordered chain of matchers; the
// first matcher that yields a name wins for that line.
package doctype

import (
	"encoding/json"
	"regexp"
	"strings"

	"peppolcheck/internal/participant/models"
	pstrings "peppolcheck/pkg/platform/strings"
)

const (
	// Marker identifies a document-identifier line; other lines are ignored.
	Marker = "busdox-docid-qns::"

	separator  = "::"
	terminator = "##"

	Invoice    = "Invoice"
	CreditNote = "CreditNote"

	// versionToken appears where a name is expected in some identifiers and is never a name.
	versionToken = "2.1"
)

// Matcher extracts a short name from a single cleaned identifier line.
type Matcher interface {
	Match(line string) (string, bool)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(line string) (string, bool)

// Match calls f.
func (f MatcherFunc) Match(line string) (string, bool) { return f(line) }

var (
	versionedPattern = regexp.MustCompile(`::([A-Za-z]+)-2::([A-Za-z]+)##`)
	simplePattern    = regexp.MustCompile(`::([A-Za-z]+)##`)
)

// VersionedMatcher matches "::<Name>-2::<Name2>##" and yields Name2.
var VersionedMatcher Matcher = MatcherFunc(func(line string) (string, bool) {
	m := versionedPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[2], true
})

// SimpleMatcher matches "::<Name>##" and yields Name.
var SimpleMatcher Matcher = MatcherFunc(func(line string) (string, bool) {
	m := simplePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
})

// LastSegmentMatcher takes the text after the last "::", cut at "##", minus a trailing "-2".
var LastSegmentMatcher Matcher = MatcherFunc(func(line string) (string, bool) {
	idx := strings.LastIndex(line, separator)
	if idx < 0 {
		return "", false
	}
	last := line[idx+len(separator):]
	last, _, _ = strings.Cut(last, terminator)
	return strings.TrimSuffix(last, "-2"), true
})

// DefaultChain is the matcher priority order used by Extract.
var DefaultChain = []Matcher{VersionedMatcher, SimpleMatcher, LastSegmentMatcher}

// Extractor applies a matcher chain to raw document identifier fields.
type Extractor struct {
	chain []Matcher
}

// NewExtractor builds an Extractor. With no matchers, DefaultChain is used.
func NewExtractor(chain ...Matcher) *Extractor {
	if len(chain) == 0 {
		chain = DefaultChain
	}
	return &Extractor{chain: chain}
}

// Extract parses newline-separated identifiers into a de-duplicated, first-seen
// ordered list of short names.
func (e *Extractor) Extract(raw string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"`)
		if !strings.Contains(line, Marker) {
			continue
		}
		name := e.matchLine(line)
		if name == "" || name == versionToken {
			continue
		}
		names = append(names, name)
	}
	return pstrings.DedupeAndTrim(names)
}

func (e *Extractor) matchLine(line string) string {
	for _, m := range e.chain {
		if name, ok := m.Match(line); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

var defaultExtractor = NewExtractor()

// Extract parses raw with the default matcher chain.
func Extract(raw string) []string {
	return defaultExtractor.Extract(raw)
}

// Derive returns the document types of a participant record. The structured
// document_types JSON array wins when it yields names; otherwise the raw field
// is parsed. Legacy invoice/credit-note flags add their names when missing.
// Malformed JSON is treated as absent.
func Derive(p *models.Participant) []string {
	if p == nil {
		return []string{}
	}

	names := structured(p.DocumentTypes)
	if len(names) == 0 {
		names = Extract(p.RawDocumentTypes)
	}

	if p.SupportsInvoice && !pstrings.ContainsFold(names, Invoice) {
		names = append(names, Invoice)
	}
	if p.SupportsCreditNote && !pstrings.ContainsFold(names, CreditNote) {
		names = append(names, CreditNote)
	}

	names = pstrings.DedupeAndTrim(names)
	if names == nil {
		return []string{}
	}
	return names
}

// Supports reports whether docType is in names, ignoring case.
func Supports(names []string, docType string) bool {
	return pstrings.ContainsFold(names, strings.TrimSpace(docType))
}

func structured(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		// Some loaders store the array as a JSON string.
		var text string
		if json.Unmarshal(raw, &text) != nil || json.Unmarshal([]byte(text), &items) != nil {
			return nil
		}
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			names = append(names, strings.TrimSpace(s))
		}
	}
	return names
}
