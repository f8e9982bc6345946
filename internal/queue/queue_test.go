package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"github.com/babylonchain/staking-vault-service/internal/queue"
	"github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/services"
	"github.com/babylonchain/staking-vault-service/internal/testutils"
)

var rewardsAdmin = testutils.Identity(0x03)

// failingRewardStore fails every reward insert as a storage outage would.
type failingRewardStore struct {
	db.DBClient
}

func (f failingRewardStore) InsertRewardPublication(context.Context, *model.RewardPublicationDocument) error {
	return errors.New("storage unavailable")
}

type queueFixture struct {
	svc     *services.Services
	rewards *testutils.MemoryQueue
	events  *testutils.MemoryQueue
	queues  *queue.Queues
}

func setupQueues(t *testing.T) *queueFixture {
	t.Helper()
	cfg := testutils.TestConfig(t)
	events := testutils.NewMemoryQueue(client.VaultEventsQueueName)
	svc, err := services.New(context.Background(), cfg, events)
	require.NoError(t, err)

	_, typedErr := svc.Initialize(context.Background(), cfg.Vault.UpgradeAuthority, services.InitializeRequest{
		BaseAssetId:           "ubbn",
		ShareAssetId:          "stubbn",
		UnbondingPeriod:       60,
		RewardsAdministrators: []string{rewardsAdmin},
	})
	require.Nil(t, typedErr)

	rewards := testutils.NewMemoryQueue(client.RewardPublicationQueueName)
	return &queueFixture{
		svc:     svc,
		rewards: rewards,
		events:  events,
		queues:  queue.NewWithClients(&cfg.Queue, svc, rewards, events),
	}
}

func command(t *testing.T, id uint32, amount uint64) string {
	t.Helper()
	body, err := json.Marshal(client.PublishRewardCommand{
		EventType: client.PublishRewardCommandType,
		Admin:     rewardsAdmin,
		Id:        id,
		Amount:    amount,
	})
	require.NoError(t, err)
	return string(body)
}

func waitForDeleted(t *testing.T, q *testutils.MemoryQueue, count int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(q.Deleted()) == count
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRewardCommandIsPublished(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := setupQueues(t)
	require.NoError(t, f.queues.StartReceivingMessages())

	ctx := context.Background()
	require.NoError(t, f.rewards.SendMessage(ctx, command(t, 1, 500)))
	// redelivery of the same command is acknowledged without a second mint
	require.NoError(t, f.rewards.SendMessage(ctx, command(t, 1, 500)))
	waitForDeleted(t, f.rewards, 2)
	f.queues.StopReceivingMessages()

	record, err := f.svc.GetRewardPublication(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, uint64(500), record.Amount)

	rate, err := f.svc.ExchangeRate(ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(500), rate.TotalAssets)

	assert.Empty(t, f.rewards.Requeued())
	messages, dbErr := f.svc.DbClient.FindUnprocessableMessages(ctx)
	require.NoError(t, dbErr)
	assert.Empty(t, messages)
}

func TestRejectedCommandIsSavedWithoutRetry(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := setupQueues(t)
	require.NoError(t, f.queues.StartReceivingMessages())

	ctx := context.Background()
	require.NoError(t, f.rewards.SendMessage(ctx, "not json"))
	require.NoError(t, f.rewards.SendMessage(ctx, command(t, 2, 0)))
	waitForDeleted(t, f.rewards, 2)
	f.queues.StopReceivingMessages()

	assert.Empty(t, f.rewards.Requeued())
	messages, err := f.svc.DbClient.FindUnprocessableMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "not json", messages[0].MessageBody)
	assert.Equal(t, client.RewardPublicationQueueName, messages[0].QueueName)
}

func TestFailingCommandIsRetriedThenSaved(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := setupQueues(t)
	memStore := f.svc.DbClient
	f.svc.DbClient = failingRewardStore{DBClient: memStore}
	require.NoError(t, f.queues.StartReceivingMessages())

	ctx := context.Background()
	require.NoError(t, f.rewards.SendMessage(ctx, command(t, 3, 10)))
	waitForDeleted(t, f.rewards, 1)
	f.queues.StopReceivingMessages()

	requeued := f.rewards.Requeued()
	require.Len(t, requeued, 3)
	assert.Equal(t, int32(3), requeued[2].RetryAttempts)

	messages, err := memStore.FindUnprocessableMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
}

func TestIsConnectionHealthy(t *testing.T) {
	f := setupQueues(t)
	assert.NoError(t, f.queues.IsConnectionHealthy())

	f.events.SetPingError(errors.New("connection closed"))
	err := f.queues.IsConnectionHealthy()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EventsQueueClient")
}
