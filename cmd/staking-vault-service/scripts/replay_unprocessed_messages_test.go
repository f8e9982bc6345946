package scripts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/staking-vault-service/internal/queue"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/services"
	"github.com/babylonchain/staking-vault-service/internal/testutils"
)

func TestReplayUnprocessableMessages(t *testing.T) {
	ctx := context.Background()
	cfg := testutils.TestConfig(t)
	svc, err := services.New(ctx, cfg, nil)
	require.NoError(t, err)

	rewards := testutils.NewMemoryQueue(queueclient.RewardPublicationQueueName)
	queues := queue.NewWithClients(&cfg.Queue, svc, rewards, nil)

	_, err = ReplayUnprocessableMessages(ctx, queues, svc.DbClient)
	assert.EqualError(t, err, "no unprocessable messages to replay")

	command := `{"event_type":100,"admin":"x","id":1,"amount":5}`
	queueName := queueclient.RewardPublicationQueueName
	require.NoError(t, svc.DbClient.SaveUnprocessableMessage(ctx, command, "r1", queueName))
	require.NoError(t, svc.DbClient.SaveUnprocessableMessage(ctx, "not json", "r2", queueName))

	replayed, err := ReplayUnprocessableMessages(ctx, queues, svc.DbClient)
	require.NoError(t, err)
	assert.Equal(t, 1, replayed)
	assert.Equal(t, []string{command}, rewards.Sent())

	remaining, err := svc.DbClient.FindUnprocessableMessages(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "r2", remaining[0].Receipt)

	require.NoError(t, svc.DbClient.SaveUnprocessableMessage(ctx, `{"event_type":4}`, "r3", queueName))
	_, err = ReplayUnprocessableMessages(ctx, queues, svc.DbClient)
	assert.ErrorContains(t, err, "unknown event type")
}
