//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"peppolcheck/internal/platform/config"
	"peppolcheck/internal/platform/kafka/producer"
	"peppolcheck/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())

	prod, err := producer.New(config.KafkaConfig{
		Brokers:         s.redpanda.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

func (s *ProducerIntegrationSuite) TestProduceDeliversRecord() {
	ctx := context.Background()
	topic := "test-produce-sync"
	s.Require().NoError(s.redpanda.CreateTopic(ctx, topic, 1, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("0208:1009049626"),
		Value:   []byte(`{"match_type":"direct"}`),
		Headers: map[string]string{"event_type": "participant.lookup"},
	})
	s.Require().NoError(err)

	consumer, err := s.redpanda.NewConsumer("producer-test", topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.redpanda.WaitForRecord(ctx, consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "0208:1009049626"
	})
	s.Require().NotNil(record)
	s.Equal(`{"match_type":"direct"}`, string(record.Value))
}

func (s *ProducerIntegrationSuite) TestHealthListsBrokers() {
	s.NoError(s.producer.Health(context.Background()))
}

func (s *ProducerIntegrationSuite) TestProduceAfterCloseFails() {
	prod, err := producer.New(config.KafkaConfig{Brokers: s.redpanda.Brokers}, nil)
	s.Require().NoError(err)
	s.Require().NoError(prod.Close())

	err = prod.Produce(context.Background(), &producer.Message{Topic: "t", Value: []byte("x")})
	s.ErrorIs(err, producer.ErrClosed)
}
