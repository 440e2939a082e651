package rabbitmq_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"catalog/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChannel is a mock implementation of rabbitmq.Channel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	a := m.Called(name, durable)
	return amqp.Queue{Name: name}, a.Error(0)
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestPublishProductCreated(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", rabbitmq.ProductEventsQueue, true).Return(nil).Once()
	ch.On("Publish", "", rabbitmq.ProductEventsQueue, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var event map[string]interface{}
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.Type == "product.created" &&
			msg.DeliveryMode == amqp.Persistent &&
			event["product_id"] == "abc"
	})).Return(nil).Once()

	client, err := rabbitmq.NewClientWithChannel(ch, "")
	require.NoError(t, err)

	assert.NoError(t, client.PublishProductCreated(map[string]interface{}{"product_id": "abc"}))
	ch.AssertExpectations(t)
}

func TestPublishProductCreatedError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", "custom", true).Return(nil).Once()
	ch.On("Publish", "", "custom", mock.Anything).Return(fmt.Errorf("channel closed")).Once()

	client, err := rabbitmq.NewClientWithChannel(ch, "custom")
	require.NoError(t, err)

	err = client.PublishProductCreated(map[string]interface{}{"product_id": "abc"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestNewClientWithChannelDeclareError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", rabbitmq.ProductEventsQueue, true).Return(fmt.Errorf("access refused")).Once()

	client, err := rabbitmq.NewClientWithChannel(ch, "")
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", rabbitmq.ProductEventsQueue, true).Return(nil).Once()
	ch.On("Close").Return(nil).Once()

	client, err := rabbitmq.NewClientWithChannel(ch, "")
	require.NoError(t, err)
	assert.NoError(t, client.Close())
	ch.AssertExpectations(t)
}
