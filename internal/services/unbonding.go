package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/shares"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

type UnbondingTicketPublic struct {
	Owner           string `json:"owner"`
	RequestedAmount uint64 `json:"requested_amount"`
	StartBalance    uint64 `json:"start_balance"`
	StartTimestamp  string `json:"start_timestamp"`
}

type UnbondingStatusPublic struct {
	Ticket           UnbondingTicketPublic `json:"ticket"`
	EligibleAt       string                `json:"eligible_at"`
	RemainingSeconds int64                 `json:"remaining_seconds"`
	Redeemable       bool                  `json:"redeemable"`
	// ExpectedAssets is what a redeem would pay out right now.
	ExpectedAssets uint64 `json:"expected_assets"`
}

type RedeemResult struct {
	Owner           string `json:"owner"`
	RequestedAmount uint64 `json:"requested_amount"`
	SharesBurned    uint64 `json:"shares_burned"`
	AssetsRedeemed  uint64 `json:"assets_redeemed"`
}

func fromTicketDocument(ticket *model.UnbondingTicketDocument) UnbondingTicketPublic {
	return UnbondingTicketPublic{
		Owner:           ticket.Owner,
		RequestedAmount: ticket.RequestedAmount,
		StartBalance:    ticket.StartBalance,
		StartTimestamp:  utils.FormatUnixTimestamp(ticket.StartTimestamp),
	}
}

// Unbond records the caller's intent to redeem amount shares once the
// unbonding period has passed. An existing ticket is replaced and its clock
// restarts.
func (s *Services) Unbond(ctx context.Context, caller string, amount uint64) (*UnbondingTicketPublic, *types.Error) {
	var (
		ticket model.UnbondingTicketDocument
		event  queueclient.UnbondEvent
	)
	txErr := s.runInTx(ctx, "unbond", func(txCtx context.Context) *types.Error {
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

		balance, ledgerErr := s.Ledger.Balance(txCtx, cfg.ShareAssetId, caller)
		if ledgerErr != nil {
			return ledgerError(txCtx, ledgerErr, types.InsufficientUnbondingBalance)
		}
		if amount > balance {
			log.Ctx(txCtx).Warn().
				Uint64("amount", amount).
				Uint64("balance", balance).
				Msg("unbond amount exceeds share balance")
			return types.NewErrorWithMsg(
				http.StatusForbidden, types.InsufficientUnbondingBalance,
				"unbond amount exceeds the share balance",
			)
		}

		ticket = model.UnbondingTicketDocument{
			Owner:           caller,
			RequestedAmount: amount,
			StartBalance:    balance,
			StartTimestamp:  s.now().Unix(),
		}
		if dbErr := s.DbClient.SaveUnbondingTicket(txCtx, &ticket); dbErr != nil {
			log.Ctx(txCtx).Error().Err(dbErr).Msg("failed to save unbonding ticket")
			return types.NewInternalServiceError(dbErr)
		}

		snapshot, err := s.commitSnapshot(txCtx, cfg)
		if err != nil {
			return err
		}
		event = queueclient.UnbondEvent{
			EventType:    queueclient.UnbondEventType,
			User:         caller,
			Amount:       amount,
			StartBalance: balance,
			PoolSnapshot: snapshot,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCommit(ctx, event.PoolSnapshot, event)
	public := fromTicketDocument(&ticket)
	return &public, nil
}

// Redeem burns the shares of ticketOwner's unbonding ticket and pays out the
// base asset at the current exchange rate. An empty ticketOwner means the
// caller's own ticket; only the owner may redeem it.
func (s *Services) Redeem(ctx context.Context, caller, ticketOwner string) (*RedeemResult, *types.Error) {
	if ticketOwner == "" {
		ticketOwner = caller
	}
	var (
		result RedeemResult
		event  queueclient.RedeemEvent
	)
	txErr := s.runInTx(ctx, "redeem", func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		if err := checkActive(txCtx, cfg); err != nil {
			return err
		}

		ticket, err := s.findTicket(txCtx, ticketOwner)
		if err != nil {
			return err
		}
		if ticket.Owner != caller {
			log.Ctx(txCtx).Warn().
				Str("caller", caller).
				Str("ticketOwner", ticket.Owner).
				Msg("redeem rejected, caller does not own the ticket")
			return types.NewErrorWithMsg(
				http.StatusForbidden, types.InvalidTicketOwner, "caller does not own the unbonding ticket",
			)
		}
		if elapsed := s.now().Unix() - ticket.StartTimestamp; elapsed < cfg.UnbondingPeriod {
			log.Ctx(txCtx).Warn().
				Int64("elapsed", elapsed).
				Int64("unbondingPeriod", cfg.UnbondingPeriod).
				Msg("redeem rejected, unbonding period not elapsed")
			return types.NewErrorWithMsg(
				http.StatusForbidden, types.UnbondingPeriodNotElapsed, "unbonding period has not elapsed",
			)
		}

		balance, ledgerErr := s.Ledger.Balance(txCtx, cfg.ShareAssetId, caller)
		if ledgerErr != nil {
			return ledgerError(txCtx, ledgerErr, types.InsufficientUnbondingBalance)
		}
		sharesToRedeem := min(ticket.RequestedAmount, balance)
		if sharesToRedeem == 0 {
			return types.NewErrorWithMsg(
				http.StatusForbidden, types.InsufficientUnbondingBalance, "no shares left to redeem",
			)
		}

		totals, err := s.poolTotals(txCtx, cfg)
		if err != nil {
			return err
		}
		assetsOut, convErr := shares.SharesToAssets(sharesToRedeem, totals.Shares, totals.Assets)
		if convErr != nil {
			return conversionError(txCtx, convErr)
		}
		if totals.Assets < assetsOut {
			log.Ctx(txCtx).Error().
				Uint64("assetsOut", assetsOut).
				Uint64("poolAssets", totals.Assets).
				Msg("pool cannot cover the redemption")
			return types.NewErrorWithMsg(
				http.StatusForbidden, types.InsufficientVaultBalance, "vault balance cannot cover the redemption",
			)
		}

		if ledgerErr := s.Ledger.Burn(txCtx, cfg.ShareAssetId, caller, sharesToRedeem); ledgerErr != nil {
			return ledgerError(txCtx, ledgerErr, types.InsufficientUnbondingBalance)
		}
		if assetsOut > 0 {
			if ledgerErr := s.Ledger.Transfer(txCtx, cfg.BaseAssetId, cfg.PoolAccount, caller, assetsOut); ledgerErr != nil {
				return ledgerError(txCtx, ledgerErr, types.InsufficientVaultBalance)
			}
		}
		if dbErr := s.DbClient.DeleteUnbondingTicket(txCtx, ticket.Owner); dbErr != nil {
			log.Ctx(txCtx).Error().Err(dbErr).Msg("failed to delete unbonding ticket")
			return types.NewInternalServiceError(dbErr)
		}

		snapshot, err := s.commitSnapshot(txCtx, cfg)
		if err != nil {
			return err
		}
		result = RedeemResult{
			Owner:           caller,
			RequestedAmount: ticket.RequestedAmount,
			SharesBurned:    sharesToRedeem,
			AssetsRedeemed:  assetsOut,
		}
		event = queueclient.RedeemEvent{
			EventType:       queueclient.RedeemEventType,
			User:            caller,
			RequestedAmount: ticket.RequestedAmount,
			SharesBurned:    sharesToRedeem,
			AssetsRedeemed:  assetsOut,
			PoolSnapshot:    snapshot,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCommit(ctx, event.PoolSnapshot, event)
	return &result, nil
}

// UnbondingStatus reports the owner's ticket and when it becomes redeemable.
func (s *Services) UnbondingStatus(ctx context.Context, owner string) (*UnbondingStatusPublic, *types.Error) {
	var status UnbondingStatusPublic
	txErr := s.runInTx(ctx, "unbonding_status", func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		ticket, err := s.findTicket(txCtx, owner)
		if err != nil {
			return err
		}

		eligibleAt := ticket.StartTimestamp + cfg.UnbondingPeriod
		remaining := max(eligibleAt-s.now().Unix(), 0)

		balance, ledgerErr := s.Ledger.Balance(txCtx, cfg.ShareAssetId, owner)
		if ledgerErr != nil {
			return ledgerError(txCtx, ledgerErr, types.InsufficientUnbondingBalance)
		}
		totals, err := s.poolTotals(txCtx, cfg)
		if err != nil {
			return err
		}
		redeemableShares := min(ticket.RequestedAmount, balance)
		expected, convErr := shares.SharesToAssets(redeemableShares, totals.Shares, totals.Assets)
		if convErr != nil {
			return conversionError(txCtx, convErr)
		}

		// same checks Redeem applies, in the same order
		redeemable := !cfg.Paused && remaining == 0 && redeemableShares > 0 && expected <= totals.Assets

		status = UnbondingStatusPublic{
			Ticket:           fromTicketDocument(ticket),
			EligibleAt:       utils.FormatUnixTimestamp(eligibleAt),
			RemainingSeconds: remaining,
			Redeemable:       redeemable,
			ExpectedAssets:   expected,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &status, nil
}

func (s *Services) findTicket(ctx context.Context, owner string) (*model.UnbondingTicketDocument, *types.Error) {
	ticket, err := s.DbClient.FindUnbondingTicket(ctx, owner)
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Ctx(ctx).Warn().Str("owner", owner).Msg("unbonding ticket not found")
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.TicketNotFound, "unbonding ticket not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to find unbonding ticket")
		return nil, types.NewInternalServiceError(err)
	}
	return ticket, nil
}
