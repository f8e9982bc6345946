// Package shares converts between vault shares and base assets.
//
// Every ratio is offset by a virtual share and a virtual asset amount so that
// a tiny first deposit followed by a direct donation to the pool cannot move
// the price enough to round the next depositor's shares down to zero.
// All division floors, so conversions always round in the vault's favor.
package shares

import (
	"errors"

	"cosmossdk.io/math"
)

const (
	VirtualShares uint64 = 1_000_000
	VirtualAssets uint64 = 1_000_000

	// RateScale is the fixed-point scale of ExchangeRate (1e9 == 1 asset per share).
	RateScale uint64 = 1_000_000_000
)

var (
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// Converter holds the virtual offsets applied to every conversion.
type Converter struct {
	VirtualShares uint64
	VirtualAssets uint64
}

// Default is the converter used by the vault.
var Default = Converter{
	VirtualShares: VirtualShares,
	VirtualAssets: VirtualAssets,
}

// SharesToAssets returns the assets redeemable for shares at the given totals.
func SharesToAssets(shares, totalShares, totalAssets uint64) (uint64, error) {
	return Default.SharesToAssets(shares, totalShares, totalAssets)
}

// AssetsToShares returns the shares minted for a deposit of assets at the given totals.
func AssetsToShares(assets, totalShares, totalAssets uint64) (uint64, error) {
	return Default.AssetsToShares(assets, totalShares, totalAssets)
}

// ExchangeRate returns assets per share scaled by RateScale.
func ExchangeRate(totalShares, totalAssets uint64) (uint64, error) {
	return Default.ExchangeRate(totalShares, totalAssets)
}

func (c Converter) SharesToAssets(shares, totalShares, totalAssets uint64) (uint64, error) {
	if totalShares == 0 {
		return 0, nil
	}
	return mulDiv(
		math.NewIntFromUint64(shares),
		offset(totalAssets, c.VirtualAssets),
		offset(totalShares, c.VirtualShares),
	)
}

func (c Converter) AssetsToShares(assets, totalShares, totalAssets uint64) (uint64, error) {
	if totalShares == 0 {
		// First deposit into an empty share supply.
		return mulDiv(
			math.NewIntFromUint64(assets),
			math.NewIntFromUint64(c.VirtualShares),
			math.NewIntFromUint64(c.VirtualAssets),
		)
	}
	return mulDiv(
		math.NewIntFromUint64(assets),
		offset(totalShares, c.VirtualShares),
		offset(totalAssets, c.VirtualAssets),
	)
}

func (c Converter) ExchangeRate(totalShares, totalAssets uint64) (uint64, error) {
	if totalShares == 0 {
		return RateScale, nil
	}
	return mulDiv(
		offset(totalAssets, c.VirtualAssets),
		math.NewIntFromUint64(RateScale),
		offset(totalShares, c.VirtualShares),
	)
}

// offset adds the virtual amount in full width; two uint64 values never overflow it.
func offset(total, virtual uint64) math.Int {
	return math.NewIntFromUint64(total).Add(math.NewIntFromUint64(virtual))
}

// mulDiv computes floor(a*b/d) and narrows the result back to uint64.
func mulDiv(a, b, d math.Int) (uint64, error) {
	if d.IsZero() {
		return 0, ErrDivisionByZero
	}
	result := a.Mul(b).Quo(d)
	if !result.IsUint64() {
		return 0, ErrOverflow
	}
	return result.Uint64(), nil
}
