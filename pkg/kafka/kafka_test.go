package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
)

// fakeReader serves queued messages, then blocks until ctx is cancelled.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) snapshot() ([]int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...), r.closed
}

func TestConsumerCommitsHandledMessages(t *testing.T) {
	fr := &fakeReader{queue: []kafka.Message{
		{Topic: "loans-personal", Offset: 1, Value: []byte(`ok`)},
		{Topic: "loans-personal", Offset: 2, Value: []byte(`fail`)},
		{Topic: "loans-personal", Offset: 3, Value: []byte(`ok`)},
	}}

	var mu sync.Mutex
	var seen []int64
	handled := make(chan struct{}, 3)
	c := newConsumer(fr, "loans-personal", func(_ context.Context, msg Message) error {
		mu.Lock()
		seen = append(seen, msg.Offset)
		mu.Unlock()
		handled <- struct{}{}
		if string(msg.Value) == "fail" {
			return errors.New("transient")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("handler not invoked")
		}
	}
	cancel()
	require.NoError(t, <-done)

	committed, closed := fr.snapshot()
	assert.Equal(t, []int64{1, 3}, committed)
	assert.True(t, closed)
	mu.Lock()
	assert.Equal(t, []int64{1, 2, 3}, seen)
	mu.Unlock()
	assert.Equal(t, "loans-personal", c.Topic())
}

func TestDecodeJSONMalformed(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}
	_, err := DecodeJSON[payload]([]byte(`{not json`))
	assert.ErrorIs(t, err, apperrors.ErrMalformedMessage)

	got, err := DecodeJSON[payload]([]byte(`{"id":"REQ-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "REQ-1", got.ID)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducer(fw)

	err := p.Publish(context.Background(), Event{
		Topic: "loans-vehicle",
		Key:   "REQ-9",
		Value: map[string]string{"request_id": "REQ-9"},
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "loans-vehicle", fw.msgs[0].Topic)
	assert.Equal(t, "REQ-9", string(fw.msgs[0].Key))
	assert.JSONEq(t, `{"request_id":"REQ-9"}`, string(fw.msgs[0].Value))
}

func TestProducerPublishFailure(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("broker down")})
	err := p.Publish(context.Background(), Event{Topic: "loans-vehicle", Key: "k", Value: 1})
	assert.ErrorIs(t, err, apperrors.ErrPublishFailed)
}
