package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &kafkaPublisher{writer: writer}

	event := NewEvent(TypePayrollStatusChanged, "company-1", "payroll", "payroll-1", map[string]string{"status": "Approved"})
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "payroll-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, TypePayrollStatusChanged, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "company-1", decoded.CompanyID)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	publisher := &kafkaPublisher{writer: writer}

	err := publisher.Publish(context.Background(), NewEvent(TypePunchApproved, "c", "punch", "p", nil))
	assert.EqualError(t, err, "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &kafkaPublisher{writer: writer}

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a := NewEvent(TypePayrollGenerated, "c", "payroll", "1", nil)
	b := NewEvent(TypePayrollGenerated, "c", "payroll", "1", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
}
