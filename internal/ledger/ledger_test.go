package ledger_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/staking-vault-service/internal/db/memdb"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"github.com/babylonchain/staking-vault-service/internal/ledger"
)

const (
	base  = "base"
	share = "share"
)

func setup(t *testing.T) (*ledger.Ledger, context.Context) {
	t.Helper()
	return ledger.New(memdb.New()), context.Background()
}

func TestMintTransferBurn(t *testing.T) {
	l, ctx := setup(t)

	require.NoError(t, l.Mint(ctx, base, "alice", 100))
	require.NoError(t, l.Transfer(ctx, base, "alice", "bob", 40))
	require.NoError(t, l.Burn(ctx, base, "bob", 15))

	alice, err := l.Balance(ctx, base, "alice")
	require.NoError(t, err)
	bob, err := l.Balance(ctx, base, "bob")
	require.NoError(t, err)
	supply, err := l.Supply(ctx, base)
	require.NoError(t, err)

	assert.Equal(t, uint64(60), alice)
	assert.Equal(t, uint64(25), bob)
	assert.Equal(t, uint64(85), supply)
}

func TestUnknownAccountsAreEmpty(t *testing.T) {
	l, ctx := setup(t)

	balance, err := l.Balance(ctx, base, "nobody")
	require.NoError(t, err)
	assert.Zero(t, balance)

	supply, err := l.Supply(ctx, share)
	require.NoError(t, err)
	assert.Zero(t, supply)
}

func TestInsufficientBalance(t *testing.T) {
	l, ctx := setup(t)
	require.NoError(t, l.Mint(ctx, base, "alice", 10))

	assert.ErrorIs(t, l.Transfer(ctx, base, "alice", "bob", 11), ledger.ErrInsufficientBalance)
	assert.ErrorIs(t, l.Burn(ctx, base, "alice", 11), ledger.ErrInsufficientBalance)
	assert.ErrorIs(t, l.Transfer(ctx, base, "bob", "alice", 1), ledger.ErrInsufficientBalance)
}

func TestSupplyOverflow(t *testing.T) {
	l, ctx := setup(t)
	require.NoError(t, l.Mint(ctx, base, "alice", math.MaxUint64))
	assert.ErrorIs(t, l.Mint(ctx, base, "bob", 1), ledger.ErrOverflow)
}

func TestMintOverflowsUnbackedBalance(t *testing.T) {
	store := memdb.New()
	l, ctx := ledger.New(store), context.Background()

	account := model.NewAccountDocument(base, "pool")
	account.Balance = math.MaxUint64 - 5
	require.NoError(t, store.SaveAccount(ctx, account))

	assert.ErrorIs(t, l.Mint(ctx, base, "pool", 10), ledger.ErrOverflow)

	balance, err := l.Balance(ctx, base, "pool")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-5), balance)
	supply, err := l.Supply(ctx, base)
	require.NoError(t, err)
	assert.Zero(t, supply)
}

func TestFrozenAccounts(t *testing.T) {
	l, ctx := setup(t)
	require.NoError(t, l.Mint(ctx, share, "alice", 10))

	previous, err := l.SetFrozen(ctx, share, "alice", true)
	require.NoError(t, err)
	assert.False(t, previous)

	assert.ErrorIs(t, l.Transfer(ctx, share, "alice", "bob", 1), ledger.ErrAccountFrozen)
	assert.ErrorIs(t, l.Burn(ctx, share, "alice", 1), ledger.ErrAccountFrozen)
	assert.ErrorIs(t, l.Mint(ctx, share, "alice", 1), ledger.ErrAccountFrozen)

	previous, err = l.SetFrozen(ctx, share, "alice", false)
	require.NoError(t, err)
	assert.True(t, previous)
	require.NoError(t, l.Transfer(ctx, share, "alice", "bob", 1))
}

func TestPoolTotals(t *testing.T) {
	l, ctx := setup(t)
	cfg := &model.VaultConfigDocument{BaseAssetId: base, ShareAssetId: share, PoolAccount: "pool"}

	require.NoError(t, l.Mint(ctx, base, "pool", 1_500))
	require.NoError(t, l.Mint(ctx, base, "alice", 700)) // not part of the pool
	require.NoError(t, l.Mint(ctx, share, "alice", 1_000))

	totals, err := l.PoolTotals(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{Assets: 1_500, Shares: 1_000}, totals)
}
