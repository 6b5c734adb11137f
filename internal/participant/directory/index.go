// Package directory loads the participant directory snapshot into an in-memory
// index used for alternate-scheme fallback lookups.
package directory

import (
	"sort"
	"strings"

	"peppolcheck/internal/participant/identifier"
	"peppolcheck/internal/participant/models"
)

// Record is one scheme-qualified identifier from a directory snapshot.
type Record struct {
	Scheme        string
	ParticipantID string
}

// Index is an immutable multimap from lowercased endpoint id to directory entries.
// It is safe for concurrent reads.
type Index struct {
	entries map[string][]models.DirectoryEntry
	size    int
}

// Build indexes every record under its lowercased original id and, when the
// normalized id differs and is non-empty, under the lowercased normalized id
// with IsNormalized set.
func Build(records []Record, normalizer *identifier.Normalizer) *Index {
	idx := &Index{entries: make(map[string][]models.DirectoryEntry, len(records))}
	for _, r := range records {
		if r.Scheme == "" || r.ParticipantID == "" {
			continue
		}
		fullID := identifier.DirectoryID(r.Scheme, r.ParticipantID)
		idx.add(strings.ToLower(r.ParticipantID), models.DirectoryEntry{
			Scheme:        r.Scheme,
			ParticipantID: r.ParticipantID,
			FullID:        fullID,
		})

		normalized := normalizer.Normalize(r.ParticipantID)
		if normalized != r.ParticipantID && normalized != "" {
			idx.add(strings.ToLower(normalized), models.DirectoryEntry{
				Scheme:        r.Scheme,
				ParticipantID: r.ParticipantID,
				FullID:        fullID,
				IsNormalized:  true,
				OriginalID:    r.ParticipantID,
			})
		}
	}
	return idx
}

func (ix *Index) add(key string, e models.DirectoryEntry) {
	ix.entries[key] = append(ix.entries[key], e)
	ix.size++
}

// Lookup returns the entries stored under key, matched case-insensitively.
func (ix *Index) Lookup(key string) []models.DirectoryEntry {
	if ix == nil {
		return nil
	}
	return ix.entries[strings.ToLower(key)]
}

// Find looks up every key, unions the results, and removes duplicates by FullID
// keeping the first occurrence. Original entries sort before normalized ones,
// then by scheme ascending.
func (ix *Index) Find(keys ...string) []models.DirectoryEntry {
	if ix == nil {
		return nil
	}

	seenKeys := make(map[string]struct{}, len(keys))
	seenIDs := make(map[string]struct{})
	var out []models.DirectoryEntry
	for _, k := range keys {
		k = strings.ToLower(k)
		if k == "" {
			continue
		}
		if _, dup := seenKeys[k]; dup {
			continue
		}
		seenKeys[k] = struct{}{}
		for _, e := range ix.entries[k] {
			if _, dup := seenIDs[e.FullID]; dup {
				continue
			}
			seenIDs[e.FullID] = struct{}{}
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsNormalized != out[j].IsNormalized {
			return !out[i].IsNormalized
		}
		return out[i].Scheme < out[j].Scheme
	})
	return out
}

// Keys returns the number of distinct lookup keys.
func (ix *Index) Keys() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Len returns the number of indexed entries, normalized ones included.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}
