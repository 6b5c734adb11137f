// Package tracer is a small tracing facade for participant resolution.
//
// The resolver records one span per lookup and one child span per stage. Callers
// depend on the Tracer interface only, so tests run with NoopTracer and the
// server plugs in the OpenTelemetry adapter.
package tracer

import (
	"context"
	"time"
)

// Span is an in-progress trace span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer starts spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key/value pair attached to a span or event.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

func Bool(key string, value bool) Attribute { return Attribute{Key: key, Value: value} }

func Int64(key string, value int64) Attribute { return Attribute{Key: key, Value: value} }

func Int(key string, value int) Attribute { return Attribute{Key: key, Value: int64(value)} }

func Float64(key string, value float64) Attribute { return Attribute{Key: key, Value: value} }

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanLookup          = "participant.lookup"
	SpanStageDirect     = "participant.stage.direct"
	SpanStageEndpoint   = "participant.stage.endpoint"
	SpanStageNormalized = "participant.stage.normalized"
	SpanStageCandidates = "participant.stage.candidates"
	SpanStageDirectory  = "participant.stage.directory"
	SpanList            = "participant.list"
	SpanIndexBuild      = "directory.index.build"
)

// Attribute keys.
const (
	AttrSchemeID      = "peppol.scheme_id"
	AttrParticipantID = "peppol.participant_id"
	AttrDocumentType  = "peppol.document_type"
	AttrMatchType     = "peppol.match_type"
	AttrFoundIn       = "peppol.found_in"
	AttrCandidates    = "peppol.candidates"
	AttrRows          = "db.rows"
	AttrCacheHit      = "cache.hit"
	AttrIndexEntries  = "directory.entries"
)

// Event names.
const (
	EventCacheStored    = "cache.stored"
	EventEventPublished = "event.published"
)
