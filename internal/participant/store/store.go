// Package store holds the participant Store Adapter implementations and the
// lookup result cache.
package store

import (
	"peppolcheck/pkg/platform/sentinel"
)

// ErrNotFound is returned when a participant or cached result does not exist.
var ErrNotFound = sentinel.ErrNotFound

// Cache names reported to metrics.
const (
	cacheLookup = "lookup_result"
)
