package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishEvent_WritesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), TopicSellerEvents, "s-1", map[string]any{
		"type":     "seller_created",
		"sellerID": "s-1",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, TopicSellerEvents, msg.Topic)
	require.Equal(t, []byte("s-1"), msg.Key)

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "seller_created", event["type"])

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.PublishEvent(context.Background(), TopicUserEvents, "k", map[string]any{"a": 1})
	require.ErrorContains(t, err, "broker down")

	err = p.PublishEvent(context.Background(), TopicUserEvents, "k", map[string]any{"bad": make(chan int)})
	require.ErrorContains(t, err, "json.Marshal")
}

func TestNewProducer_ConfiguresWriter(t *testing.T) {
	p := NewProducer([]string{"kafka-1:9092", "kafka-2:9092"})
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	require.NotNil(t, w.Addr)
	require.True(t, w.AllowAutoTopicCreation)
	require.NoError(t, Noop{}.PublishEvent(context.Background(), "t", "k", nil))
}
