package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/participant/tracer"
	dErrors "peppolcheck/pkg/domain-errors"
	"peppolcheck/pkg/platform/sentinel"
)

// Stage names used for spans and the stage duration metric.
const (
	stageDirect     = "direct"
	stageEndpoint   = "endpoint"
	stageNormalized = "normalized"
	stageCandidates = "candidates"
	stageDirectory  = "directory"
)

// MissingFieldsMessage is returned when schemeID or participantID is blank.
const MissingFieldsMessage = "Missing required fields: schemeID and participantID"

// Resolve finds the participant identified by req.
//
// Stages run strictly in order and the first hit wins: exact full PID, endpoint
// id ignoring case, normalized endpoint id, a broad sweep over every identifier
// variant, and finally the directory index. A miss everywhere is a successful
// not_found result. Store failures abort with CodeUnavailable, or CodeTimeout
// when the per-query deadline expired; they are never reported as not_found.
func (r *Resolver) Resolve(ctx context.Context, req models.LookupRequest) (*models.Result, error) {
	if strings.TrimSpace(req.SchemeID) == "" || strings.TrimSpace(req.ParticipantID) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, MissingFieldsMessage)
	}

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, tracer.SpanLookup,
		tracer.String(tracer.AttrSchemeID, req.SchemeID),
		tracer.String(tracer.AttrParticipantID, req.ParticipantID),
		tracer.String(tracer.AttrDocumentType, req.DocumentType),
	)

	if cached := r.cached(ctx, req); cached != nil {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true), tracer.String(tracer.AttrMatchType, string(cached.MatchType)))
		span.End(nil)
		if r.events != nil {
			r.events.PublishLookup(ctx, req, cached)
		}
		return cached, nil
	}

	result, err := r.resolve(ctx, req)
	if err != nil {
		r.recordFailure(err)
		r.logger.WarnContext(ctx, "participant resolution failed",
			"scheme_id", req.SchemeID,
			"participant_id", req.ParticipantID,
			"error", err,
		)
		span.End(err)
		return nil, err
	}

	span.SetAttributes(
		tracer.String(tracer.AttrMatchType, string(result.MatchType)),
		tracer.String(tracer.AttrFoundIn, string(result.FoundIn)),
	)
	span.End(nil)

	if r.metrics != nil {
		r.metrics.RecordLookup(string(result.MatchType), time.Since(start).Seconds())
	}
	r.logger.InfoContext(ctx, "participant resolved",
		"scheme_id", req.SchemeID,
		"participant_id", req.ParticipantID,
		"match_type", result.MatchType,
		"found_in", result.FoundIn,
		"alternatives", len(result.AlternativeSchemes),
	)

	r.remember(ctx, req, result)
	if r.events != nil {
		r.events.PublishLookup(ctx, req, result)
	}
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, req models.LookupRequest) (*models.Result, error) {
	// Stage 1
	p, err := r.findByFullID(ctx, req.FullPID())
	if err != nil {
		return nil, err
	}
	if p != nil {
		return matched(req, p, models.MatchDirect), nil
	}

	// Stage 2
	if res, err := r.endpointStage(ctx, stageEndpoint, req, req.ParticipantID, models.MatchEndpoint); err != nil || res != nil {
		return res, err
	}

	// Stage 3
	normalized := r.normalizer.Normalize(req.ParticipantID)
	if r.normalizer.IsNormalizable(req.ParticipantID) {
		if res, err := r.endpointStage(ctx, stageNormalized, req, normalized, models.MatchNormalized); err != nil || res != nil {
			return res, err
		}
	}

	// Stage 4
	rows, err := r.candidateStage(ctx, req.ParticipantID, normalized)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return storeAlternatives(req, rows), nil
	}

	// Stage 5
	return r.directoryStage(ctx, req, normalized)
}

func (r *Resolver) findByFullID(ctx context.Context, fullPID string) (*models.Participant, error) {
	var found *models.Participant
	err := r.query(ctx, stageDirect, tracer.SpanStageDirect, func(ctx context.Context) (int, error) {
		p, err := r.store.FindByFullID(ctx, fullPID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		found = p
		return 1, nil
	})
	return found, err
}

// endpointStage matches endpointID ignoring case. A row under the requested
// scheme is a match; rows only under other schemes are a scheme mismatch and
// end the search with all of them as alternatives.
func (r *Resolver) endpointStage(ctx context.Context, stage string, req models.LookupRequest, endpointID string, matchType models.MatchType) (*models.Result, error) {
	spanName := tracer.SpanStageEndpoint
	if stage == stageNormalized {
		spanName = tracer.SpanStageNormalized
	}

	var rows []models.Participant
	err := r.query(ctx, stage, spanName, func(ctx context.Context) (int, error) {
		var err error
		rows, err = r.store.FindByEndpointID(ctx, endpointID)
		return len(rows), err
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	for i := range rows {
		if rows[i].SchemeID == req.SchemeID {
			return matched(req, &rows[i], matchType), nil
		}
	}
	return storeAlternatives(req, rows), nil
}

func (r *Resolver) candidateStage(ctx context.Context, original, normalized string) ([]models.Participant, error) {
	candidates := r.candidates(original, normalized)

	var rows []models.Participant
	err := r.query(ctx, stageCandidates, tracer.SpanStageCandidates, func(ctx context.Context) (int, error) {
		var err error
		rows, err = r.store.FindByEndpointCandidates(ctx, original, candidates)
		return len(rows), err
	})
	return rows, err
}

// candidates lists the lowercased identifier variants swept by stage 4: the
// original, the normalized form, and the normalized form behind every known
// country prefix.
func (r *Resolver) candidates(original, normalized string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		v = strings.ToLower(v)
		if _, dup := seen[v]; dup || v == "" {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(original)
	add(normalized)
	for _, cc := range r.normalizer.CountryCodes() {
		add(cc + normalized)
	}
	return out
}

func (r *Resolver) directoryStage(ctx context.Context, req models.LookupRequest, normalized string) (*models.Result, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, tracer.SpanStageDirectory)

	idx, err := r.directory.Index(ctx)
	r.observeStage(stageDirectory, start)
	if err != nil {
		span.End(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "participant directory unavailable")
	}

	entries := idx.Find(req.ParticipantID, normalized)
	span.SetAttributes(tracer.Int(tracer.AttrRows, len(entries)))
	span.End(nil)

	if len(entries) == 0 {
		return notFound(req), nil
	}
	return directoryAlternatives(req, entries), nil
}

// query runs one store call under the per-query timeout and translates its
// failure into a domain error.
func (r *Resolver) query(ctx context.Context, stage, spanName string, fn func(ctx context.Context) (int, error)) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, spanName)

	qctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	n, err := fn(qctx)
	r.observeStage(stage, start)
	if err != nil {
		err = storeError(qctx, err)
		span.End(err)
		return err
	}
	span.SetAttributes(tracer.Int(tracer.AttrRows, n))
	span.End(nil)
	return nil
}

func storeError(qctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(qctx.Err(), context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "participant store query timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "participant store unavailable")
}

func (r *Resolver) cached(ctx context.Context, req models.LookupRequest) *models.Result {
	if r.cache == nil {
		return nil
	}
	result, err := r.cache.Get(ctx, req)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "lookup cache read failed", "error", err)
		}
		return nil
	}
	return result
}

func (r *Resolver) remember(ctx context.Context, req models.LookupRequest, result *models.Result) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, req, result); err != nil {
		r.logger.WarnContext(ctx, "lookup cache write failed", "error", err)
	}
}

func (r *Resolver) observeStage(stage string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveStage(stage, time.Since(start).Seconds())
	}
}

func (r *Resolver) recordFailure(err error) {
	if r.metrics == nil {
		return
	}
	code := dErrors.CodeInternal
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
	}
	r.metrics.RecordLookupFailure(string(code))
}
