package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypePayrollGenerated     = "payroll.generated"
	TypePayrollStatusChanged = "payroll.status_changed"
	TypePunchApproved        = "punch.approved"
	TypeAdvanceReviewed      = "advanced_salary.reviewed"
	TypeSchedulesBatchEdited = "employee_schedule.batch_updated"
)

// Event is the envelope written to the topic. Data is marshalled as JSON.
type Event struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	CompanyID     string      `json:"company_id"`
	AggregateType string      `json:"aggregate_type"`
	AggregateID   string      `json:"aggregate_id"`
	OccurredAt    time.Time   `json:"occurred_at"`
	Data          interface{} `json:"data,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType, companyID, aggregateType, aggregateID string, data interface{}) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		CompanyID:     companyID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    time.Now().UTC(),
		Data:          data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher discards every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// PublishAsync publishes outside the request path. Failures are logged and dropped.
func PublishAsync(publisher Publisher, event Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.Publish(ctx, event); err != nil {
			slog.Error("failed to publish event", "type", event.Type, "aggregate_id", event.AggregateID, "error", err)
		}
	}()
}
