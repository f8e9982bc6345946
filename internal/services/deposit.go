package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/db/model"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/shares"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

type DepositResult struct {
	DepositAmount uint64 `json:"deposit_amount"`
	MintedShares  uint64 `json:"minted_shares"`
	TotalAssets   uint64 `json:"total_assets"`
	TotalShares   uint64 `json:"total_shares"`
}

// checkActive rejects operations on a paused vault.
func checkActive(ctx context.Context, cfg *model.VaultConfigDocument) *types.Error {
	if cfg.Paused {
		log.Ctx(ctx).Warn().Msg("operation rejected, protocol is paused")
		return types.NewErrorWithMsg(http.StatusForbidden, types.ProtocolPaused, "protocol is paused")
	}
	return nil
}

func invalidAmount(ctx context.Context) *types.Error {
	log.Ctx(ctx).Warn().Msg("zero amount rejected")
	return types.NewErrorWithMsg(http.StatusBadRequest, types.InvalidAmount, "amount must be greater than zero")
}

// Deposit moves amount of the base asset from the caller into the pool and
// mints shares priced at the totals before the transfer.
func (s *Services) Deposit(ctx context.Context, caller string, amount uint64) (*DepositResult, *types.Error) {
	var (
		result DepositResult
		event  queueclient.DepositEvent
	)
	txErr := s.runInTx(ctx, "deposit", func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		if amount == 0 {
			return invalidAmount(txCtx)
		}
		if err := checkActive(txCtx, cfg); err != nil {
			return err
		}

		before, err := s.poolTotals(txCtx, cfg)
		if err != nil {
			return err
		}
		minted, convErr := shares.AssetsToShares(amount, before.Shares, before.Assets)
		if convErr != nil {
			return conversionError(txCtx, convErr)
		}
		if minted == 0 {
			log.Ctx(txCtx).Warn().Uint64("amount", amount).Msg("deposit would mint no shares")
			return types.NewErrorWithMsg(http.StatusForbidden, types.DepositTooSmall, "deposit is too small to mint any shares")
		}

		if ledgerErr := s.Ledger.Transfer(txCtx, cfg.BaseAssetId, caller, cfg.PoolAccount, amount); ledgerErr != nil {
			return ledgerError(txCtx, ledgerErr, types.InsufficientBalance)
		}
		if ledgerErr := s.Ledger.Mint(txCtx, cfg.ShareAssetId, caller, minted); ledgerErr != nil {
			return ledgerError(txCtx, ledgerErr, types.InsufficientBalance)
		}

		snapshot, err := s.commitSnapshot(txCtx, cfg)
		if err != nil {
			return err
		}
		result = DepositResult{
			DepositAmount: amount,
			MintedShares:  minted,
			TotalAssets:   snapshot.TotalAssets,
			TotalShares:   snapshot.TotalShares,
		}
		event = queueclient.DepositEvent{
			EventType:         queueclient.DepositEventType,
			User:              caller,
			DepositAmount:     amount,
			MintedShares:      minted,
			TotalAssetsBefore: before.Assets,
			TotalSharesBefore: before.Shares,
			PoolSnapshot:      snapshot,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCommit(ctx, event.PoolSnapshot, event)
	return &result, nil
}
