package services

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/babylonchain/staking-vault-service/internal/shares"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

// rateDecimals is log10(shares.RateScale).
const rateDecimals = 9

type ExchangeRatePublic struct {
	// Rate is assets per share scaled by 1e9.
	Rate        uint64 `json:"rate"`
	RateDecimal string `json:"rate_decimal"`
	TotalAssets uint64 `json:"total_assets"`
	TotalShares uint64 `json:"total_shares"`
}

type ConversionPublic struct {
	Input  uint64 `json:"input"`
	Output uint64 `json:"output"`
}

type VaultOverviewPublic struct {
	BaseAssetId           string             `json:"base_asset_id"`
	ShareAssetId          string             `json:"share_asset_id"`
	PoolAccount           string             `json:"pool_account"`
	UnbondingPeriod       int64              `json:"unbonding_period"`
	FreezeAdministrators  []string           `json:"freeze_administrators"`
	RewardsAdministrators []string           `json:"rewards_administrators"`
	Paused                bool               `json:"paused"`
	LastUpdate            uint64             `json:"last_update"`
	CreatedAt             string             `json:"created_at"`
	UpdatedAt             string             `json:"updated_at"`
	ExchangeRate          ExchangeRatePublic `json:"exchange_rate"`
}

type AccountPublic struct {
	Owner        string `json:"owner"`
	BaseBalance  uint64 `json:"base_balance"`
	ShareBalance uint64 `json:"share_balance"`
	// ShareValue is the share balance priced in base assets at the current rate.
	ShareValue uint64 `json:"share_value"`
	Frozen     bool   `json:"frozen"`
}

func rateToDecimal(rate uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(rate), -rateDecimals).String()
}

func (s *Services) exchangeRate(ctx context.Context) (*ExchangeRatePublic, *types.Error) {
	cfg, err := s.loadVaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.poolTotals(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rate, convErr := shares.ExchangeRate(totals.Shares, totals.Assets)
	if convErr != nil {
		return nil, conversionError(ctx, convErr)
	}
	return &ExchangeRatePublic{
		Rate:        rate,
		RateDecimal: rateToDecimal(rate),
		TotalAssets: totals.Assets,
		TotalShares: totals.Shares,
	}, nil
}

func (s *Services) ExchangeRate(ctx context.Context) (*ExchangeRatePublic, *types.Error) {
	var rate *ExchangeRatePublic
	txErr := s.runInTx(ctx, "exchange_rate", func(txCtx context.Context) *types.Error {
		var err *types.Error
		rate, err = s.exchangeRate(txCtx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return rate, nil
}

func (s *Services) SharesToAssets(ctx context.Context, amount uint64) (*ConversionPublic, *types.Error) {
	return s.convert(ctx, "shares_to_assets", amount, shares.SharesToAssets)
}

func (s *Services) AssetsToShares(ctx context.Context, amount uint64) (*ConversionPublic, *types.Error) {
	return s.convert(ctx, "assets_to_shares", amount, shares.AssetsToShares)
}

func (s *Services) convert(
	ctx context.Context, operation string, amount uint64,
	fn func(amount, totalShares, totalAssets uint64) (uint64, error),
) (*ConversionPublic, *types.Error) {
	var out uint64
	txErr := s.runInTx(ctx, operation, func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		totals, err := s.poolTotals(txCtx, cfg)
		if err != nil {
			return err
		}
		var convErr error
		out, convErr = fn(amount, totals.Shares, totals.Assets)
		if convErr != nil {
			return conversionError(txCtx, convErr)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &ConversionPublic{Input: amount, Output: out}, nil
}

func (s *Services) VaultOverview(ctx context.Context) (*VaultOverviewPublic, *types.Error) {
	var overview VaultOverviewPublic
	txErr := s.runInTx(ctx, "vault_overview", func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		rate, err := s.exchangeRate(txCtx)
		if err != nil {
			return err
		}
		lastUpdate, dbErr := s.DbClient.FindLastUpdate(txCtx)
		if dbErr != nil {
			return types.NewInternalServiceError(dbErr)
		}
		overview = VaultOverviewPublic{
			BaseAssetId:           cfg.BaseAssetId,
			ShareAssetId:          cfg.ShareAssetId,
			PoolAccount:           cfg.PoolAccount,
			UnbondingPeriod:       cfg.UnbondingPeriod,
			FreezeAdministrators:  cfg.FreezeAdministrators,
			RewardsAdministrators: cfg.RewardsAdministrators,
			Paused:                cfg.Paused,
			LastUpdate:            lastUpdate,
			CreatedAt:             utils.FormatUnixTimestamp(cfg.CreatedAt),
			UpdatedAt:             utils.FormatUnixTimestamp(cfg.UpdatedAt),
			ExchangeRate:          *rate,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &overview, nil
}

func (s *Services) Account(ctx context.Context, owner string) (*AccountPublic, *types.Error) {
	var account AccountPublic
	txErr := s.runInTx(ctx, "account", func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		base, ledgerErr := s.Ledger.Account(txCtx, cfg.BaseAssetId, owner)
		if ledgerErr != nil {
			return types.NewInternalServiceError(ledgerErr)
		}
		share, ledgerErr := s.Ledger.Account(txCtx, cfg.ShareAssetId, owner)
		if ledgerErr != nil {
			return types.NewInternalServiceError(ledgerErr)
		}
		totals, err := s.poolTotals(txCtx, cfg)
		if err != nil {
			return err
		}
		value, convErr := shares.SharesToAssets(share.Balance, totals.Shares, totals.Assets)
		if convErr != nil {
			return conversionError(txCtx, convErr)
		}
		account = AccountPublic{
			Owner:        owner,
			BaseBalance:  base.Balance,
			ShareBalance: share.Balance,
			ShareValue:   value,
			Frozen:       share.Frozen,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &account, nil
}
