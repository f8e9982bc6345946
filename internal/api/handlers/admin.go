package handlers

import (
	"context"
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/services"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

type InitializeRequestPayload struct {
	BaseAssetId           string   `json:"base_asset_id" validate:"required,asset_id"`
	ShareAssetId          string   `json:"share_asset_id" validate:"required,asset_id"`
	UnbondingPeriod       int64    `json:"unbonding_period"`
	FreezeAdministrators  []string `json:"freeze_administrators" validate:"dive,identity"`
	RewardsAdministrators []string `json:"rewards_administrators" validate:"dive,identity"`
}

type PauseRequestPayload struct {
	Paused bool `json:"paused"`
}

type UnbondingPeriodRequestPayload struct {
	UnbondingPeriod int64 `json:"unbonding_period"`
}

type AdministratorsRequestPayload struct {
	Administrators []string `json:"administrators" validate:"dive,identity"`
}

type AccountRequestPayload struct {
	Owner string `json:"owner" validate:"required,identity"`
}

// Initialize godoc
// @Summary Initialize the vault
// @Description Creates the vault configuration. Only the upgrade authority may call it, and only once.
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Upgrade authority identity"
// @Param payload body InitializeRequestPayload true "Initialize Request Payload"
// @Success 200 {object} PublicResponse[services.VaultOverviewPublic] "Vault overview"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 409 {object} types.Error "Error: Already initialized"
// @Router /v1/admin/initialize [post]
func (h *Handler) Initialize(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[InitializeRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	overview, err := h.services.Initialize(request.Context(), caller, services.InitializeRequest{
		BaseAssetId:           payload.BaseAssetId,
		ShareAssetId:          payload.ShareAssetId,
		UnbondingPeriod:       payload.UnbondingPeriod,
		FreezeAdministrators:  payload.FreezeAdministrators,
		RewardsAdministrators: payload.RewardsAdministrators,
	})
	if err != nil {
		return nil, err
	}
	return NewResult(overview), nil
}

// SetPaused godoc
// @Summary Pause or resume the vault
// @Accept json
// @Param X-Caller-Id header string true "Upgrade authority identity"
// @Param payload body PauseRequestPayload true "Pause Request Payload"
// @Success 204 "Updated"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Router /v1/admin/pause [post]
func (h *Handler) SetPaused(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[PauseRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	if err := h.services.SetPaused(request.Context(), caller, payload.Paused); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusNoContent}, nil
}

// UpdateUnbondingPeriod godoc
// @Summary Update the unbonding period
// @Accept json
// @Param X-Caller-Id header string true "Upgrade authority identity"
// @Param payload body UnbondingPeriodRequestPayload true "Unbonding Period Request Payload"
// @Success 204 "Updated"
// @Failure 400 {object} types.Error "Error: Invalid unbonding period"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Router /v1/admin/unbonding-period [post]
func (h *Handler) UpdateUnbondingPeriod(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[UnbondingPeriodRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	if err := h.services.UpdateUnbondingPeriod(request.Context(), caller, payload.UnbondingPeriod); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusNoContent}, nil
}

// UpdateFreezeAdministrators godoc
// @Summary Replace the freeze administrators
// @Accept json
// @Param X-Caller-Id header string true "Upgrade authority identity"
// @Param payload body AdministratorsRequestPayload true "Administrators Request Payload"
// @Success 204 "Updated"
// @Failure 400 {object} types.Error "Error: Too many administrators"
// @Router /v1/admin/freeze-administrators [post]
func (h *Handler) UpdateFreezeAdministrators(request *http.Request) (*Result, *types.Error) {
	return h.updateAdministrators(request, h.services.UpdateFreezeAdministrators)
}

// UpdateRewardsAdministrators godoc
// @Summary Replace the rewards administrators
// @Accept json
// @Param X-Caller-Id header string true "Upgrade authority identity"
// @Param payload body AdministratorsRequestPayload true "Administrators Request Payload"
// @Success 204 "Updated"
// @Failure 400 {object} types.Error "Error: Too many administrators"
// @Router /v1/admin/rewards-administrators [post]
func (h *Handler) UpdateRewardsAdministrators(request *http.Request) (*Result, *types.Error) {
	return h.updateAdministrators(request, h.services.UpdateRewardsAdministrators)
}

func (h *Handler) updateAdministrators(
	request *http.Request,
	update func(ctx context.Context, caller string, admins []string) *types.Error,
) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[AdministratorsRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	if err := update(request.Context(), caller, payload.Administrators); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusNoContent}, nil
}

// FreezeAccount godoc
// @Summary Freeze a share account
// @Accept json
// @Param X-Caller-Id header string true "Freeze administrator identity"
// @Param payload body AccountRequestPayload true "Account Request Payload"
// @Success 204 "Frozen"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Router /v1/admin/freeze [post]
func (h *Handler) FreezeAccount(request *http.Request) (*Result, *types.Error) {
	return h.setAccountFrozen(request, h.services.FreezeAccount)
}

// ThawAccount godoc
// @Summary Thaw a share account
// @Accept json
// @Param X-Caller-Id header string true "Freeze administrator identity"
// @Param payload body AccountRequestPayload true "Account Request Payload"
// @Success 204 "Thawed"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Router /v1/admin/thaw [post]
func (h *Handler) ThawAccount(request *http.Request) (*Result, *types.Error) {
	return h.setAccountFrozen(request, h.services.ThawAccount)
}

func (h *Handler) setAccountFrozen(
	request *http.Request,
	apply func(ctx context.Context, caller, owner string) *types.Error,
) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[AccountRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	if err := apply(request.Context(), caller, payload.Owner); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusNoContent}, nil
}
