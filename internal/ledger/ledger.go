// Package ledger keeps per-asset account balances and supplies. Callers are
// expected to run every mutation inside a db transaction so that a failed
// operation leaves no partial balance change behind.
package ledger

import (
	"context"
	"errors"
	"math/bits"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrOverflow            = errors.New("balance overflow")
)

type Ledger struct {
	db db.DBClient
}

func New(dbClient db.DBClient) *Ledger {
	return &Ledger{db: dbClient}
}

// Totals is a point-in-time view of the pool, never stored.
type Totals struct {
	// Assets is the base asset balance of the pool account.
	Assets uint64
	// Shares is the outstanding supply of the share asset.
	Shares uint64
}

// PoolTotals reads the live pool totals for the vault described by cfg.
func (l *Ledger) PoolTotals(ctx context.Context, cfg *model.VaultConfigDocument) (Totals, error) {
	assets, err := l.Balance(ctx, cfg.BaseAssetId, cfg.PoolAccount)
	if err != nil {
		return Totals{}, err
	}
	shares, err := l.Supply(ctx, cfg.ShareAssetId)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Assets: assets, Shares: shares}, nil
}

// Account returns the stored account or an empty, unfrozen one.
func (l *Ledger) Account(ctx context.Context, assetId, owner string) (*model.AccountDocument, error) {
	account, err := l.db.FindAccount(ctx, assetId, owner)
	if err != nil {
		if db.IsNotFoundError(err) {
			return model.NewAccountDocument(assetId, owner), nil
		}
		return nil, err
	}
	return account, nil
}

func (l *Ledger) Balance(ctx context.Context, assetId, owner string) (uint64, error) {
	account, err := l.Account(ctx, assetId, owner)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (l *Ledger) Supply(ctx context.Context, assetId string) (uint64, error) {
	supply, err := l.db.FindAssetSupply(ctx, assetId)
	if err != nil {
		if db.IsNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}
	return supply.Supply, nil
}

// Transfer moves amount of assetId between two accounts. Neither may be frozen.
func (l *Ledger) Transfer(ctx context.Context, assetId, from, to string, amount uint64) error {
	sender, err := l.Account(ctx, assetId, from)
	if err != nil {
		return err
	}
	receiver, err := l.Account(ctx, assetId, to)
	if err != nil {
		return err
	}
	if sender.Frozen || receiver.Frozen {
		return ErrAccountFrozen
	}
	if sender.Balance < amount {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}

	sender.Balance -= amount
	newBalance, carry := bits.Add64(receiver.Balance, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	receiver.Balance = newBalance

	if err := l.db.SaveAccount(ctx, sender); err != nil {
		return err
	}
	return l.db.SaveAccount(ctx, receiver)
}

// Mint creates amount of assetId in the to account and grows the supply.
func (l *Ledger) Mint(ctx context.Context, assetId, to string, amount uint64) error {
	receiver, err := l.Account(ctx, assetId, to)
	if err != nil {
		return err
	}
	if receiver.Frozen {
		return ErrAccountFrozen
	}
	supply, err := l.Supply(ctx, assetId)
	if err != nil {
		return err
	}

	newSupply, carry := bits.Add64(supply, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	newBalance, carry := bits.Add64(receiver.Balance, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	receiver.Balance = newBalance

	if err := l.db.SaveAccount(ctx, receiver); err != nil {
		return err
	}
	return l.db.SaveAssetSupply(ctx, &model.AssetSupplyDocument{AssetId: assetId, Supply: newSupply})
}

// Burn destroys amount of assetId held by from and shrinks the supply.
func (l *Ledger) Burn(ctx context.Context, assetId, from string, amount uint64) error {
	holder, err := l.Account(ctx, assetId, from)
	if err != nil {
		return err
	}
	if holder.Frozen {
		return ErrAccountFrozen
	}
	if holder.Balance < amount {
		return ErrInsufficientBalance
	}
	supply, err := l.Supply(ctx, assetId)
	if err != nil {
		return err
	}
	if supply < amount {
		return ErrInsufficientBalance
	}

	holder.Balance -= amount
	if err := l.db.SaveAccount(ctx, holder); err != nil {
		return err
	}
	return l.db.SaveAssetSupply(ctx, &model.AssetSupplyDocument{AssetId: assetId, Supply: supply - amount})
}

// SetFrozen freezes or thaws an account. It returns the previous state.
func (l *Ledger) SetFrozen(ctx context.Context, assetId, owner string, frozen bool) (bool, error) {
	account, err := l.Account(ctx, assetId, owner)
	if err != nil {
		return false, err
	}
	previous := account.Frozen
	account.Frozen = frozen
	return previous, l.db.SaveAccount(ctx, account)
}
