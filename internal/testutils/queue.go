package testutils

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
)

// MockQueueClient is a testify mock of queueclient.QueueClient.
type MockQueueClient struct {
	mock.Mock
}

var _ queueclient.QueueClient = (*MockQueueClient)(nil)

func (m *MockQueueClient) SendMessage(ctx context.Context, messageBody string) error {
	args := m.Called(ctx, messageBody)
	return args.Error(0)
}

func (m *MockQueueClient) ReceiveMessages() (<-chan queueclient.QueueMessage, error) {
	args := m.Called()
	ch, _ := args.Get(0).(<-chan queueclient.QueueMessage)
	return ch, args.Error(1)
}

func (m *MockQueueClient) DeleteMessage(receipt string) error {
	return m.Called(receipt).Error(0)
}

func (m *MockQueueClient) ReQueueMessage(ctx context.Context, message queueclient.QueueMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockQueueClient) Stop() error {
	return m.Called().Error(0)
}

func (m *MockQueueClient) GetQueueName() string {
	return m.Called().String(0)
}

func (m *MockQueueClient) Ping() error {
	return m.Called().Error(0)
}

// MemoryQueue is a channel backed queue client. Sent messages are delivered
// to receivers, requeued messages come back with one more retry attempt.
type MemoryQueue struct {
	name string

	mu       sync.Mutex
	nextId   int
	sent     []string
	deleted  []string
	requeued []queueclient.QueueMessage
	pingErr  error
	stopped  bool

	messages chan queueclient.QueueMessage
}

var _ queueclient.QueueClient = (*MemoryQueue)(nil)

func NewMemoryQueue(name string) *MemoryQueue {
	return &MemoryQueue{
		name:     name,
		messages: make(chan queueclient.QueueMessage, 64),
	}
}

func (q *MemoryQueue) SendMessage(ctx context.Context, messageBody string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return errors.New("queue is stopped")
	}
	q.nextId++
	q.sent = append(q.sent, messageBody)
	q.messages <- queueclient.QueueMessage{Body: messageBody, Receipt: strconv.Itoa(q.nextId)}
	return nil
}

func (q *MemoryQueue) ReceiveMessages() (<-chan queueclient.QueueMessage, error) {
	return q.messages, nil
}

func (q *MemoryQueue) DeleteMessage(receipt string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, receipt)
	return nil
}

func (q *MemoryQueue) ReQueueMessage(ctx context.Context, message queueclient.QueueMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return errors.New("queue is stopped")
	}
	message.RetryAttempts = message.IncrementRetryAttempts()
	q.requeued = append(q.requeued, message)
	q.messages <- message
	return nil
}

// Stop closes the delivery channel. Safe to call more than once.
func (q *MemoryQueue) Stop() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.stopped {
		q.stopped = true
		close(q.messages)
	}
	return nil
}

func (q *MemoryQueue) GetQueueName() string {
	return q.name
}

func (q *MemoryQueue) Ping() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pingErr
}

func (q *MemoryQueue) SetPingError(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pingErr = err
}

// Sent returns every message body published so far.
func (q *MemoryQueue) Sent() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.sent...)
}

func (q *MemoryQueue) Deleted() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.deleted...)
}

func (q *MemoryQueue) Requeued() []queueclient.QueueMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queueclient.QueueMessage(nil), q.requeued...)
}
