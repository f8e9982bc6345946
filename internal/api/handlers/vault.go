package handlers

import (
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/types"
)

// GetVaultOverview godoc
// @Summary Get vault overview
// @Description Returns the vault configuration, the live pool totals and the exchange rate
// @Produce json
// @Success 200 {object} PublicResponse[services.VaultOverviewPublic] "Vault overview"
// @Failure 403 {object} types.Error "Error: Vault not initialized"
// @Router /v1/vault [get]
func (h *Handler) GetVaultOverview(request *http.Request) (*Result, *types.Error) {
	overview, err := h.services.VaultOverview(request.Context())
	if err != nil {
		return nil, err
	}
	return NewResult(overview), nil
}

// GetExchangeRate godoc
// @Summary Get exchange rate
// @Description Assets per share scaled by 1e9, computed from the live pool totals
// @Produce json
// @Success 200 {object} PublicResponse[services.ExchangeRatePublic] "Exchange rate"
// @Router /v1/vault/exchange-rate [get]
func (h *Handler) GetExchangeRate(request *http.Request) (*Result, *types.Error) {
	rate, err := h.services.ExchangeRate(request.Context())
	if err != nil {
		return nil, err
	}
	return NewResult(rate), nil
}

// GetSharesToAssets godoc
// @Summary Convert shares to assets
// @Description Assets redeemable for the given shares at the current totals, rounded down
// @Produce json
// @Param shares query integer true "Share amount"
// @Success 200 {object} PublicResponse[services.ConversionPublic] "Conversion"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/vault/shares-to-assets [get]
func (h *Handler) GetSharesToAssets(request *http.Request) (*Result, *types.Error) {
	amount, err := parseUintQuery(request, "shares", 64)
	if err != nil {
		return nil, err
	}
	conversion, err := h.services.SharesToAssets(request.Context(), amount)
	if err != nil {
		return nil, err
	}
	return NewResult(conversion), nil
}

// GetAssetsToShares godoc
// @Summary Convert assets to shares
// @Description Shares a deposit of the given assets would mint at the current totals, rounded down
// @Produce json
// @Param assets query integer true "Asset amount"
// @Success 200 {object} PublicResponse[services.ConversionPublic] "Conversion"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/vault/assets-to-shares [get]
func (h *Handler) GetAssetsToShares(request *http.Request) (*Result, *types.Error) {
	amount, err := parseUintQuery(request, "assets", 64)
	if err != nil {
		return nil, err
	}
	conversion, err := h.services.AssetsToShares(request.Context(), amount)
	if err != nil {
		return nil, err
	}
	return NewResult(conversion), nil
}

// GetAccount godoc
// @Summary Get account
// @Description Base and share balances of an owner, the value of the shares and the freeze state
// @Produce json
// @Param owner query string true "Owner identity"
// @Success 200 {object} PublicResponse[services.AccountPublic] "Account"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/account [get]
func (h *Handler) GetAccount(request *http.Request) (*Result, *types.Error) {
	owner, err := parseIdentityQuery(request, "owner")
	if err != nil {
		return nil, err
	}
	account, err := h.services.Account(request.Context(), owner)
	if err != nil {
		return nil, err
	}
	return NewResult(account), nil
}
