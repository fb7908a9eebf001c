//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "txguard/pkg/platform/audit"
	"txguard/pkg/platform/audit/sink/kafka"
	"txguard/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	sink     *kafka.Sink
}

const topic = "txguard.verifications.test"

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())

	sink, err := kafka.New([]string{s.redpanda.Broker}, topic)
	s.Require().NoError(err)
	s.sink = sink

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(s.sink.EnsureTopic(ctx, 1, 1))
	// Second call must tolerate the existing topic
	s.Require().NoError(s.sink.EnsureTopic(ctx, 1, 1))
}

func (s *KafkaSinkSuite) TearDownSuite() {
	if s.sink != nil {
		s.sink.Close()
	}
}

func (s *KafkaSinkSuite) TestWriteProducesJSONRecord() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	event := audit.Event{
		Category:    audit.CategorySecurity,
		Timestamp:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Action:      string(audit.EventVerificationFlagged),
		Domain:      "escrow",
		ActionType:  "escrow_release",
		RiskTier:    "critical",
		Detectors:   []string{"multisig"},
		SubjectHash: audit.HashSubject("sender-9"),
		RequestID:   "req-1",
	}
	s.Require().NoError(s.sink.Write(ctx, event))

	consumer := s.redpanda.NewConsumer(s.T(), topic)
	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())

	records := fetches.Records()
	s.Require().NotEmpty(records)
	s.Equal([]byte(event.SubjectHash), records[0].Key)

	var got audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(event.Action, got.Action)
	s.Equal(event.RiskTier, got.RiskTier)
	s.Equal(event.Detectors, got.Detectors)
	s.True(event.Timestamp.Equal(got.Timestamp))
}

func (s *KafkaSinkSuite) TestHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.NoError(s.sink.Health(ctx))
}
