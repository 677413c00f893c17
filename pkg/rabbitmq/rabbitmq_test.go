package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tokobuku/internal/models"
)

// recorder is an amqp.Acknowledger that remembers how a delivery was settled.
type recorder struct {
	acked, nacked, rejected bool
	requeue                 bool
}

func (r *recorder) Ack(tag uint64, multiple bool) error {
	r.acked = true
	return nil
}

func (r *recorder) Nack(tag uint64, multiple, requeue bool) error {
	r.nacked = true
	r.requeue = requeue
	return nil
}

func (r *recorder) Reject(tag uint64, requeue bool) error {
	r.rejected = true
	r.requeue = requeue
	return nil
}

func delivery(t *testing.T, body []byte) (amqp.Delivery, *recorder) {
	t.Helper()
	ack := &recorder{}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}, ack
}

func eventBody(t *testing.T) []byte {
	t.Helper()
	order := &models.Order{ID: "order-1", UserID: "user-1", TotalPrice: 27.5}
	body, err := json.Marshal(models.NewOrderEvent(models.EventOrderCreated, order, time.Now()))
	require.NoError(t, err)
	return body
}

func TestHandleDelivery_Acks(t *testing.T) {
	msg, ack := delivery(t, eventBody(t))

	var got models.OrderEvent
	HandleDelivery(context.Background(), msg, func(_ context.Context, e models.OrderEvent) error {
		got = e
		return nil
	}, zap.NewNop())

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, models.EventOrderCreated, got.Type)
	assert.Equal(t, "order-1", got.OrderID)
	assert.Equal(t, 27.5, got.TotalPrice)
}

func TestHandleDelivery_RequeuesOnHandlerError(t *testing.T) {
	msg, ack := delivery(t, eventBody(t))

	HandleDelivery(context.Background(), msg, func(context.Context, models.OrderEvent) error {
		return assert.AnError
	}, zap.NewNop())

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestHandleDelivery_RejectsMalformed(t *testing.T) {
	msg, ack := delivery(t, []byte("not json"))

	called := false
	HandleDelivery(context.Background(), msg, func(context.Context, models.OrderEvent) error {
		called = true
		return nil
	}, zap.NewNop())

	assert.False(t, called)
	assert.True(t, ack.rejected)
	assert.False(t, ack.requeue)
}

func TestNewPublishing(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewPublishing([]byte(`{}`), at)

	assert.Equal(t, "application/json", p.ContentType)
	assert.Equal(t, amqp.Persistent, p.DeliveryMode)
	assert.Equal(t, at, p.Timestamp)
	assert.Equal(t, []byte(`{}`), p.Body)
}

func TestPublish_CancelledContext(t *testing.T) {
	c := &Client{lg: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Publish(ctx, models.EventOrderCreated, nil), context.Canceled)
}

func TestPublish_NoChannel(t *testing.T) {
	c := &Client{lg: zap.NewNop()}
	assert.Error(t, c.Publish(context.Background(), models.EventOrderCreated, nil))
}
