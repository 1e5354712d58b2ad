// Package kafka publishes audit events to a Kafka topic. The topic is the
// durable audit trail; downstream consumers (reporting, compliance export)
// read from it independently of this service.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "sppg/pkg/platform/audit"
)

// DefaultTopic is the audit event topic.
const DefaultTopic = "sppg.audit.events"

// Store implements audit.Store by producing one JSON record per event,
// keyed by tenant ID so a tenant's events stay ordered within a partition.
type Store struct {
	client *kgo.Client
	topic  string
}

// payload is the JSON wire shape of an audit record.
type payload struct {
	Timestamp    string `json:"timestamp"`
	TenantID     string `json:"tenant_id"`
	UserID       string `json:"user_id,omitempty"`
	ProgramID    string `json:"program_id,omitempty"`
	EnrollmentID string `json:"enrollment_id,omitempty"`
	Action       string `json:"action"`
	TargetGroup  string `json:"target_group,omitempty"`
	Reason       string `json:"reason,omitempty"`
	FailureCode  string `json:"failure_code,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	ClientIP     string `json:"client_ip,omitempty"`
	UserAgent    string `json:"user_agent,omitempty"`
}

// New connects to the brokers and ensures the audit topic exists.
func New(ctx context.Context, brokers []string, topic string) (*Store, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 3, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}
	for _, t := range resp {
		if t.Err != nil && !isTopicExists(t.Err) {
			client.Close()
			return nil, fmt.Errorf("ensure audit topic %s: %w", t.Topic, t.Err)
		}
	}

	return &Store{client: client, topic: topic}, nil
}

func isTopicExists(err error) bool {
	return errors.Is(err, kerr.TopicAlreadyExists)
}

// Append produces the event and waits for broker acknowledgement.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(payload{
		Timestamp:    event.Timestamp.Format(time.RFC3339Nano),
		TenantID:     event.TenantID.String(),
		UserID:       stringOrEmpty(event.UserID.IsNil(), event.UserID.String()),
		ProgramID:    stringOrEmpty(event.ProgramID.IsNil(), event.ProgramID.String()),
		EnrollmentID: stringOrEmpty(event.EnrollmentID.IsNil(), event.EnrollmentID.String()),
		Action:       event.Action,
		TargetGroup:  event.TargetGroup,
		Reason:       event.Reason,
		FailureCode:  event.FailureCode,
		RequestID:    event.RequestID,
		ClientIP:     event.ClientIP,
		UserAgent:    event.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.TenantID.String()),
		Value: body,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Flush(ctx)
	s.client.Close()
}

func stringOrEmpty(isNil bool, s string) string {
	if isNil {
		return ""
	}
	return s
}
