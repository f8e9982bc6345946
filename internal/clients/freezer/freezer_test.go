package freezer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/staking-vault-service/internal/clients/freezer"
	"github.com/babylonchain/staking-vault-service/internal/db/memdb"
	"github.com/babylonchain/staking-vault-service/internal/ledger"
	"github.com/babylonchain/staking-vault-service/internal/testutils"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

func TestFreezeAndThaw(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memdb.New())
	program := testutils.Identity(3)
	client := freezer.NewFreezerClient(l, program)
	cred := freezer.NewCredential(program)
	owner := testutils.Identity(4)

	require.Nil(t, client.Freeze(ctx, cred, "share", owner))
	account, err := l.Account(ctx, "share", owner)
	require.NoError(t, err)
	assert.True(t, account.Frozen)

	require.Nil(t, client.Thaw(ctx, cred, "share", owner))
	account, err = l.Account(ctx, "share", owner)
	require.NoError(t, err)
	assert.False(t, account.Frozen)
}

func TestFreezeRejectsOtherAuthority(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memdb.New())
	client := freezer.NewFreezerClient(l, testutils.Identity(3))

	err := client.Freeze(ctx, freezer.NewCredential(testutils.Identity(5)), "share", testutils.Identity(4))
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
}
