package wmPubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPubSub_PublishAndConsume(t *testing.T) {
	ch := make(chan []byte, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan []byte, 1)
	sub := New(
		WithChannel(ch),
		WithContext(ctx),
		WithTopic("audit"),
		WithHandler(func(msg []byte) error {
			received <- msg
			return nil
		}),
	)
	err := sub.Subscribe()
	assert.NoError(t, err)

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("audit"))
	payload := []byte(`{"action":"delete"}`)
	err = pub.Publish(payload)
	assert.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, payload, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive message in time")
	}
}

func TestPubSub_TryPublish_FullQueue(t *testing.T) {
	ch := make(chan []byte, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("audit"))

	assert.NoError(t, pub.TryPublish([]byte("one")))
	err := pub.TryPublish([]byte("two"))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestPubSub_ContextCancellation(t *testing.T) {
	ch := make(chan []byte)
	ctx, cancel := context.WithCancel(context.Background())

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("audit"))

	cancel()

	err := pub.Publish([]byte("should fail"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPubSub_SubscribeWithoutHandler(t *testing.T) {
	ch := make(chan []byte, 1)

	sub := New(WithChannel(ch), WithContext(context.Background()), WithTopic("audit"))
	err := sub.Subscribe()
	assert.Error(t, err)
}

func TestPubSub_SubscribeInvalidConfig(t *testing.T) {
	sub := New(WithContext(context.Background()), WithTopic("audit"), WithHandler(func([]byte) error { return nil }))
	err := sub.Subscribe()
	assert.ErrorIs(t, err, ErrInvalidPubSubConfig)
}
