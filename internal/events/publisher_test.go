package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/cv-uploader/internal/store"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	exchanges []string
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchanges = append(f.exchanges, exchange)
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_PublishSubmitted(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "cv_events"}
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	err := p.PublishSubmitted(context.Background(), Submitted{ID: "abc", Collection: "cvs", Name: "Alice", CreatedAt: at})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "cv_events", ch.exchanges[0])
	assert.Equal(t, RoutingKeySubmitted, ch.keys[0])
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "abc", msg.MessageId)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var body Submitted
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "Alice", body.Name)
	assert.Equal(t, at, body.CreatedAt)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_CanceledContext(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "cv_events"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PublishSubmitted(ctx, Submitted{ID: "abc"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.published)
}

type recordingPublisher struct {
	events []Submitted
	err    error
	closed bool
}

func (r *recordingPublisher) PublishSubmitted(_ context.Context, ev Submitted) error {
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}

type failingStore struct {
	store.Store
}

func (failingStore) CreateRecord(context.Context, string, types.SubmissionRecord) (string, error) {
	return "", errors.New("disk full")
}

func TestNotifyingStore_PublishesAfterCreate(t *testing.T) {
	pub := &recordingPublisher{}
	s := Wrap(store.NewMemoryStore(), pub, zerolog.Nop())
	rec := types.SubmissionRecord{Draft: types.NewDraft(), CreatedAt: time.Now().UTC()}
	rec.Name = "Alice"
	rec.Email = "alice@example.com"

	id, err := s.CreateRecord(context.Background(), "cvs", rec)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, id, pub.events[0].ID)
	assert.Equal(t, "cvs", pub.events[0].Collection)
	assert.Equal(t, "alice@example.com", pub.events[0].Email)

	records, err := s.ListRecords(context.Background(), "cvs", 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, s.Close())
	assert.True(t, pub.closed)
}

func TestNotifyingStore_PublishFailureIsNotFatal(t *testing.T) {
	var logs bytes.Buffer
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := Wrap(store.NewMemoryStore(), pub, zerolog.New(&logs))

	id, err := s.CreateRecord(context.Background(), "cvs", types.SubmissionRecord{Draft: types.NewDraft()})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, logs.String(), "failed to publish submission event")
}

func TestNotifyingStore_NoEventOnStoreFailure(t *testing.T) {
	pub := &recordingPublisher{}
	s := Wrap(failingStore{Store: store.NewMemoryStore()}, pub, zerolog.Nop())

	_, err := s.CreateRecord(context.Background(), "cvs", types.SubmissionRecord{Draft: types.NewDraft()})

	require.Error(t, err)
	assert.Empty(t, pub.events)
}
