package memdb_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/memdb"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
)

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memdb.New()
	require.NoError(t, store.SaveAccount(ctx, &model.AccountDocument{AssetId: "base", Owner: "alice", Balance: 10}))

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, store.SaveAccount(txCtx, &model.AccountDocument{AssetId: "base", Owner: "alice", Balance: 99}))
		require.NoError(t, store.SaveUnbondingTicket(txCtx, &model.UnbondingTicketDocument{Owner: "alice", RequestedAmount: 1}))
		_, err := store.IncrementLastUpdate(txCtx)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	account, err := store.FindAccount(ctx, "base", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), account.Balance)

	_, err = store.FindUnbondingTicket(ctx, "alice")
	assert.True(t, db.IsNotFoundError(err))

	lastUpdate, err := store.FindLastUpdate(ctx)
	require.NoError(t, err)
	assert.Zero(t, lastUpdate)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	store := memdb.New()

	err := store.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := store.InsertRewardPublication(txCtx, &model.RewardPublicationDocument{Id: 7, Amount: 5}); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return store.WithTransaction(txCtx, func(inner context.Context) error {
			return store.SaveAssetSupply(inner, &model.AssetSupplyDocument{AssetId: "share", Supply: 3})
		})
	})
	require.NoError(t, err)

	record, err := store.FindRewardPublication(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), record.Amount)

	supply, err := store.FindAssetSupply(ctx, "share")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), supply.Supply)
}

func TestDuplicateAndNotFound(t *testing.T) {
	ctx := context.Background()
	store := memdb.New()

	_, err := store.FindVaultConfig(ctx)
	assert.True(t, db.IsNotFoundError(err))
	assert.True(t, db.IsNotFoundError(store.UpdateVaultConfig(ctx, &model.VaultConfigDocument{})))

	require.NoError(t, store.InsertVaultConfig(ctx, &model.VaultConfigDocument{BaseAssetId: "base"}))
	assert.True(t, db.IsDuplicateKeyError(store.InsertVaultConfig(ctx, &model.VaultConfigDocument{})))

	require.NoError(t, store.InsertRewardPublication(ctx, &model.RewardPublicationDocument{Id: 1}))
	assert.True(t, db.IsDuplicateKeyError(store.InsertRewardPublication(ctx, &model.RewardPublicationDocument{Id: 1})))

	assert.True(t, db.IsNotFoundError(store.DeleteUnbondingTicket(ctx, "nobody")))
	_, err = store.FindAssetSupply(ctx, "nothing")
	assert.True(t, db.IsNotFoundError(err))
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := memdb.New()
	require.NoError(t, store.InsertVaultConfig(ctx, &model.VaultConfigDocument{
		FreezeAdministrators: []string{"a"},
	}))

	cfg, err := store.FindVaultConfig(ctx)
	require.NoError(t, err)
	cfg.FreezeAdministrators[0] = "mutated"

	again, err := store.FindVaultConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.FreezeAdministrators)
	assert.Equal(t, model.VaultConfigId, again.Id)
}

func TestUnprocessableMessages(t *testing.T) {
	ctx := context.Background()
	store := memdb.New()
	require.NoError(t, store.SaveUnprocessableMessage(ctx, `{"id":1}`, "r1", "q"))
	require.NoError(t, store.SaveUnprocessableMessage(ctx, `{"id":2}`, "r2", "q"))

	require.NoError(t, store.DeleteUnprocessableMessage(ctx, "r1"))
	msgs, err := store.FindUnprocessableMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "r2", msgs[0].Receipt)
}

func TestConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := memdb.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithTransaction(ctx, func(txCtx context.Context) error {
				_, err := store.IncrementLastUpdate(txCtx)
				return err
			})
		}()
	}
	wg.Wait()

	value, err := store.FindLastUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), value)
}

func TestPingError(t *testing.T) {
	store := memdb.New()
	require.NoError(t, store.Ping(context.Background()))
	store.SetPingError(errors.New("down"))
	assert.EqualError(t, store.Ping(context.Background()), "down")
}
