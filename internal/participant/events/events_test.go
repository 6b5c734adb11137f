package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peppolcheck/internal/participant/metrics"
	"peppolcheck/internal/participant/models"
	"peppolcheck/internal/platform/kafka/producer"
	"peppolcheck/pkg/requestcontext"
)

type recordingProducer struct {
	mu       sync.Mutex
	messages []*producer.Message
	err      error
}

func (r *recordingProducer) ProduceAsync(msg *producer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func lookupContext() context.Context {
	ctx := requestcontext.WithRequestID(context.Background(), "req-123")
	return requestcontext.WithTime(ctx, time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
}

func TestKafkaPublisherWritesKeyedEvent(t *testing.T) {
	rec := &recordingProducer{}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	pub := NewKafkaPublisher(rec, "peppol.participant.lookups", nil, m)

	req := models.LookupRequest{SchemeID: "0088", ParticipantID: "1009049626", DocumentType: "Invoice"}
	result := &models.Result{
		MatchType: models.MatchAlternativeSchemes,
		FoundIn:   models.FoundInDatabase,
		AlternativeSchemes: []models.Alternative{
			{Scheme: "0208", ParticipantID: "1009049626", FullID: "iso6523-actorid-upis::0208:1009049626"},
		},
	}

	pub.PublishLookup(lookupContext(), req, result)

	require.Len(t, rec.messages, 1)
	msg := rec.messages[0]
	assert.Equal(t, "peppol.participant.lookups", msg.Topic)
	assert.Equal(t, "0088:1009049626", string(msg.Key))
	assert.Equal(t, "participant.lookup", msg.Headers["event_type"])

	var event LookupEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, msg.Headers["event_id"], event.EventID)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "req-123", event.RequestID)
	assert.Equal(t, models.MatchAlternativeSchemes, event.MatchType)
	assert.Equal(t, []string{"iso6523-actorid-upis::0208:1009049626"}, event.Alternatives)
	assert.Equal(t, time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC), event.OccurredAt)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.EventsPublishedTotal.WithLabelValues("success")))
}

func TestKafkaPublisherSwallowsProducerErrors(t *testing.T) {
	rec := &recordingProducer{err: errors.New("producer is closed")}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	pub := NewKafkaPublisher(rec, "topic", nil, m)

	assert.NotPanics(t, func() {
		pub.PublishLookup(lookupContext(), models.LookupRequest{SchemeID: "a", ParticipantID: "b"},
			&models.Result{MatchType: models.MatchNotFound})
	})
	assert.Equal(t, 1.0, promtest.ToFloat64(m.EventsPublishedTotal.WithLabelValues("failure")))
}

func TestKafkaPublisherIgnoresNilResult(t *testing.T) {
	rec := &recordingProducer{}
	NewKafkaPublisher(rec, "topic", nil, nil).PublishLookup(context.Background(), models.LookupRequest{}, nil)
	assert.Empty(t, rec.messages)
}

func TestNewLookupEventWithoutAlternatives(t *testing.T) {
	event := NewLookupEvent(lookupContext(), models.LookupRequest{SchemeID: "9999", ParticipantID: "x"},
		&models.Result{MatchType: models.MatchNotFound})

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"alternatives":[]`)
	assert.NotContains(t, string(payload), `"found_in"`)
}
