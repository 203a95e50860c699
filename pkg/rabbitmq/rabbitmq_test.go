package rabbitmq

import (
	"context"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestNewPublishing(t *testing.T) {
	now := time.Now()
	msg := newPublishing("sale.created", []byte(`{"saleId":"1"}`), now)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "sale.created", msg.Type)
	assert.Len(t, msg.MessageId, 36)
	assert.Equal(t, now, msg.Timestamp)

	other := newPublishing("sale.created", nil, now)
	assert.NotEqual(t, msg.MessageId, other.MessageId)
}

func TestPublish_WithoutChannel(t *testing.T) {
	c := &Client{queue: "sale_events"}
	assert.Error(t, c.Publish(context.Background(), "sale.created", []byte("{}")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Publish(ctx, "sale.created", []byte("{}")), context.Canceled)
}

func TestAuditLog(t *testing.T) {
	assert.NoError(t, AuditLog(amqp.Delivery{Type: "sale.created", Body: []byte(`{"saleId":"1"}`)}))
	assert.Error(t, AuditLog(amqp.Delivery{Body: []byte("not json")}))
}

func TestClient_HealthyWithoutConnection(t *testing.T) {
	assert.False(t, (&Client{}).Healthy())
}
