// Package identifier normalizes participant identifiers and parses
// scheme-qualified directory identifiers.
package identifier

import (
	"fmt"
	"slices"
	"strings"
)

// DirectoryScheme is the identifier scheme prefix used by directory exports.
const DirectoryScheme = "iso6523-actorid-upis"

const directoryPrefix = DirectoryScheme + "::"

// Normalizer strips a recognised two-letter country prefix from participant identifiers.
// The zero value recognises no prefixes. Normalizer is safe for concurrent use.
type Normalizer struct {
	codes map[string]struct{}
}

// NewNormalizer builds a Normalizer for the given country codes. Codes are
// matched case-insensitively; entries that are not exactly two ASCII letters are ignored.
func NewNormalizer(countryCodes []string) *Normalizer {
	codes := make(map[string]struct{}, len(countryCodes))
	for _, c := range countryCodes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if len(c) == 2 && isASCIILetter(c[0]) && isASCIILetter(c[1]) {
			codes[c] = struct{}{}
		}
	}
	return &Normalizer{codes: codes}
}

// Normalize returns id without its country prefix when the first two characters
// are a recognised code and the remainder is non-empty and ASCII alphanumeric.
// Otherwise id is returned unchanged. Stripping repeats until no recognised
// prefix remains, so Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(id string) string {
	for {
		stripped, ok := n.strip(id)
		if !ok {
			return id
		}
		id = stripped
	}
}

// IsNormalizable reports whether Normalize would change id.
func (n *Normalizer) IsNormalizable(id string) bool {
	_, ok := n.strip(id)
	return ok
}

// CountryCodes returns the recognised codes, upper-cased and sorted.
func (n *Normalizer) CountryCodes() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.codes))
	for c := range n.codes {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (n *Normalizer) strip(id string) (string, bool) {
	if n == nil || len(id) <= 2 {
		return id, false
	}
	if _, ok := n.codes[strings.ToUpper(id[:2])]; !ok {
		return id, false
	}
	rest := id[2:]
	for i := 0; i < len(rest); i++ {
		if !isASCIIAlnum(rest[i]) {
			return id, false
		}
	}
	return rest, true
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isASCIIAlnum(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9')
}

// ParseDirectoryID splits "iso6523-actorid-upis::<scheme>:<id>" into scheme and id.
// Surrounding quotes and whitespace are ignored.
func ParseDirectoryID(raw string) (scheme, id string, err error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	rest, ok := strings.CutPrefix(raw, directoryPrefix)
	if !ok {
		return "", "", fmt.Errorf("identifier %q: missing %s prefix", raw, directoryPrefix)
	}
	scheme, id, ok = strings.Cut(rest, ":")
	if !ok || scheme == "" || id == "" {
		return "", "", fmt.Errorf("identifier %q: expected <scheme>:<id>", raw)
	}
	return scheme, id, nil
}

// DirectoryID formats scheme and id as a scheme-qualified directory identifier.
func DirectoryID(scheme, id string) string {
	return directoryPrefix + scheme + ":" + id
}
