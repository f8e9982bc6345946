package minter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/ledger"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

// Credential proves the caller acts for a program. It can only be built from a
// program id, and the minter compares the derived address, never the raw id.
type Credential struct {
	address string
}

func NewCredential(programId string) Credential {
	return Credential{address: utils.DeriveAddress(programId, utils.ExternalMintAuthoritySeed)}
}

func (c Credential) Address() string {
	return c.address
}

type MinterClientInterface interface {
	// MintTo mints exactly amount of assetId into destination.
	MintTo(ctx context.Context, credential Credential, assetId, destination string, amount uint64) *types.Error
	AuthorityAddress() string
}

type MinterClient struct {
	ledger *ledger.Ledger
	// address of the only credential accepted
	authority string
}

func NewMinterClient(l *ledger.Ledger, allowedProgramId string) *MinterClient {
	return &MinterClient{
		ledger:    l,
		authority: NewCredential(allowedProgramId).Address(),
	}
}

func (c *MinterClient) AuthorityAddress() string {
	return c.authority
}

func (c *MinterClient) MintTo(
	ctx context.Context, credential Credential, assetId, destination string, amount uint64,
) *types.Error {
	if credential.Address() != c.authority {
		log.Ctx(ctx).Warn().Str("credential", credential.Address()).Msg("mint rejected for unknown credential")
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.Unauthorized, "credential is not allowed to mint",
		)
	}
	if amount == 0 {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.InvalidAmount, "mint amount must be positive")
	}

	if err := c.ledger.Mint(ctx, assetId, destination, amount); err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountFrozen):
			return types.NewError(http.StatusForbidden, types.AccountFrozen, err)
		case errors.Is(err, ledger.ErrOverflow):
			return types.NewError(http.StatusInternalServerError, types.Overflow, err)
		default:
			return types.NewInternalServiceError(fmt.Errorf("failed to mint: %w", err))
		}
	}
	return nil
}
