package client

import (
	"encoding/json"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueMessageRetryAttempts(t *testing.T) {
	msg := QueueMessage{Body: "{}", Receipt: "1", RetryAttempts: 2}
	assert.Equal(t, int32(3), msg.IncrementRetryAttempts())
	// value receiver, the original is untouched
	assert.Equal(t, int32(2), msg.GetRetryAttempts())
}

func TestRetryAttemptsHeader(t *testing.T) {
	assert.Equal(t, int32(0), retryAttempts(nil))
	assert.Equal(t, int32(4), retryAttempts(amqp091.Table{retryAttemptsHeader: int32(4)}))
	assert.Equal(t, int32(5), retryAttempts(amqp091.Table{retryAttemptsHeader: int64(5)}))
	assert.Equal(t, int32(0), retryAttempts(amqp091.Table{retryAttemptsHeader: "7"}))
}

func TestEventsCarryPoolSnapshotInline(t *testing.T) {
	event := DepositEvent{
		EventType:     DepositEventType,
		User:          "alice",
		DepositAmount: 10,
		MintedShares:  10,
		PoolSnapshot:  PoolSnapshot{TotalAssets: 10, TotalShares: 10, LastUpdate: 3, Timestamp: 42},
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 2, decoded["event_type"])
	assert.EqualValues(t, 10, decoded["total_assets"])
	assert.EqualValues(t, 3, decoded["last_update"])
	assert.NotContains(t, decoded, "PoolSnapshot")

	var msg EventMessage = event
	assert.Equal(t, DepositEventType, msg.GetEventType())
	assert.Equal(t, "alice", msg.GetActor())
}
