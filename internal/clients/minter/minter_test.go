package minter_test

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/staking-vault-service/internal/clients/minter"
	"github.com/babylonchain/staking-vault-service/internal/db/memdb"
	"github.com/babylonchain/staking-vault-service/internal/ledger"
	"github.com/babylonchain/staking-vault-service/internal/testutils"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

func TestMintToWithAllowedCredential(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memdb.New())
	program := testutils.Identity(1)
	client := minter.NewMinterClient(l, program)

	pool := testutils.Identity(2)
	require.Nil(t, client.MintTo(ctx, minter.NewCredential(program), "base", pool, 500_000))

	balance, err := l.Balance(ctx, "base", pool)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000), balance)
	assert.Equal(t, minter.NewCredential(program).Address(), client.AuthorityAddress())
}

func TestMintToRejectsForeignCredential(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memdb.New())
	client := minter.NewMinterClient(l, testutils.Identity(1))

	err := client.MintTo(ctx, minter.NewCredential(testutils.Identity(9)), "base", testutils.Identity(2), 1)
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)

	supply, supplyErr := l.Supply(ctx, "base")
	require.NoError(t, supplyErr)
	assert.Zero(t, supply)

	// the zero credential carries no authority either
	err = client.MintTo(ctx, minter.Credential{}, "base", testutils.Identity(2), 1)
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
}

func TestMintToMapsLedgerErrors(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memdb.New())
	program := testutils.Identity(1)
	client := minter.NewMinterClient(l, program)
	cred := minter.NewCredential(program)

	err := client.MintTo(ctx, cred, "base", "a", 0)
	require.NotNil(t, err)
	assert.Equal(t, types.InvalidAmount, err.ErrorCode)

	require.Nil(t, client.MintTo(ctx, cred, "base", "a", math.MaxUint64))
	err = client.MintTo(ctx, cred, "base", "b", 1)
	require.NotNil(t, err)
	assert.Equal(t, types.Overflow, err.ErrorCode)
}
