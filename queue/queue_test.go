package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageStampsID(t *testing.T) {
	a := NewMessage("session", "1")
	b := NewMessage("session", "1")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "session", a.Type)
	assert.Equal(t, "1", a.Body)
}

func TestInMemoryPublishConsume(t *testing.T) {
	q := NewInMemory(4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, q.Publish(ctx, NewMessage("session", "7")))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, "session", msg.Type)
		assert.Equal(t, "7", msg.Body)
	case <-ctx.Done():
		t.Fatal("message never arrived")
	}
}

func TestInMemoryConsumeStopsOnCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-msgs:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("consumer channel never closed")
	}
}

func TestInMemoryPublishBlockedByFullBuffer(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, NewMessage("session", "1")))

	blocked, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := q.Publish(blocked, NewMessage("session", "2"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := NewMessage("session", "42")
	got := deserialize(serialize(msg))
	assert.Equal(t, msg, got)
}

func TestDeserializeMalformed(t *testing.T) {
	got := deserialize("no pipes here")
	assert.Equal(t, "no pipes here", got.Body)
	assert.Empty(t, got.ID)
}
