// Package events publishes completed participant lookups.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peppolcheck/internal/participant/metrics"
	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/platform/kafka/producer"
	"peppolcheck/pkg/requestcontext"
)

// LookupEvent is the JSON payload written for every completed resolution.
type LookupEvent struct {
	EventID       string           `json:"event_id"`
	RequestID     string           `json:"request_id,omitempty"`
	SchemeID      string           `json:"scheme_id"`
	ParticipantID string           `json:"participant_id"`
	DocumentType  string           `json:"document_type,omitempty"`
	MatchType     models.MatchType `json:"match_type"`
	FoundIn       models.FoundIn   `json:"found_in,omitempty"`
	ActualFullPID string           `json:"actual_full_pid,omitempty"`
	Alternatives  []string         `json:"alternatives"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// NewLookupEvent builds the event for result. The request id and timestamp
// are taken from ctx.
func NewLookupEvent(ctx context.Context, req models.LookupRequest, result *models.Result) LookupEvent {
	alts := make([]string, 0, len(result.AlternativeSchemes))
	for _, a := range result.AlternativeSchemes {
		alts = append(alts, a.FullID)
	}
	return LookupEvent{
		EventID:       uuid.NewString(),
		RequestID:     requestcontext.RequestID(ctx),
		SchemeID:      req.SchemeID,
		ParticipantID: req.ParticipantID,
		DocumentType:  req.DocumentType,
		MatchType:     result.MatchType,
		FoundIn:       result.FoundIn,
		ActualFullPID: result.ActualFullPID,
		Alternatives:  alts,
		OccurredAt:    requestcontext.Now(ctx).UTC(),
	}
}

// MessageProducer is the subset of the Kafka producer used for publishing.
type MessageProducer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaPublisher writes lookup events to a topic, keyed by the requested full PID.
// Publishing is fire-and-forget; failures are logged and counted.
type KafkaPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewKafkaPublisher constructs a publisher. metrics may be nil.
func NewKafkaPublisher(p MessageProducer, topic string, logger *slog.Logger, m *metrics.Metrics) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{producer: p, topic: topic, logger: logger, metrics: m}
}

// PublishLookup enqueues the event for result.
func (p *KafkaPublisher) PublishLookup(ctx context.Context, req models.LookupRequest, result *models.Result) {
	if result == nil {
		return
	}
	err := p.publish(NewLookupEvent(ctx, req, result), req.FullPID())
	if p.metrics != nil {
		p.metrics.RecordEventPublished(err == nil)
	}
	if err != nil {
		p.logger.WarnContext(ctx, "failed to publish lookup event",
			"error", err,
			"topic", p.topic,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (p *KafkaPublisher) publish(event LookupEvent, key string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode lookup event: %w", err)
	}
	return p.producer.ProduceAsync(&producer.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: map[string]string{
			"event_type": "participant.lookup",
			"event_id":   event.EventID,
		},
	})
}

// NoopPublisher drops events. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishLookup(context.Context, models.LookupRequest, *models.Result) {}
