package freezer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/ledger"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

// Credential carries the freeze authority derived from a program id.
type Credential struct {
	address string
}

func NewCredential(programId string) Credential {
	return Credential{address: utils.DeriveAddress(programId, utils.FreezeAuthoritySeed)}
}

func (c Credential) Address() string {
	return c.address
}

type FreezerClientInterface interface {
	Freeze(ctx context.Context, credential Credential, assetId, owner string) *types.Error
	Thaw(ctx context.Context, credential Credential, assetId, owner string) *types.Error
}

type FreezerClient struct {
	ledger    *ledger.Ledger
	authority string
}

func NewFreezerClient(l *ledger.Ledger, programId string) *FreezerClient {
	return &FreezerClient{
		ledger:    l,
		authority: NewCredential(programId).Address(),
	}
}

func (c *FreezerClient) Freeze(ctx context.Context, credential Credential, assetId, owner string) *types.Error {
	return c.setFrozen(ctx, credential, assetId, owner, true)
}

func (c *FreezerClient) Thaw(ctx context.Context, credential Credential, assetId, owner string) *types.Error {
	return c.setFrozen(ctx, credential, assetId, owner, false)
}

func (c *FreezerClient) setFrozen(
	ctx context.Context, credential Credential, assetId, owner string, frozen bool,
) *types.Error {
	if credential.Address() != c.authority {
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.Unauthorized, "credential is not the freeze authority",
		)
	}
	if _, err := c.ledger.SetFrozen(ctx, assetId, owner, frozen); err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to update account freeze state: %w", err))
	}
	return nil
}
