package handlers

import (
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/types"
)

type DepositRequestPayload struct {
	Amount uint64 `json:"amount"`
}

type UnbondRequestPayload struct {
	Amount uint64 `json:"amount"`
}

type RedeemRequestPayload struct {
	// TicketOwner defaults to the caller.
	TicketOwner string `json:"ticket_owner" validate:"omitempty,identity"`
}

// Deposit godoc
// @Summary Deposit base assets
// @Description Transfers base assets from the caller into the pool and mints shares
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Caller identity"
// @Param payload body DepositRequestPayload true "Deposit Request Payload"
// @Success 200 {object} PublicResponse[services.DepositResult] "Deposit result"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Router /v1/deposit [post]
func (h *Handler) Deposit(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[DepositRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.Deposit(request.Context(), caller, payload.Amount)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

// Unbond godoc
// @Summary Start unbonding shares
// @Description Opens or replaces the caller's unbonding ticket. No assets move until redeem.
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Caller identity"
// @Param payload body UnbondRequestPayload true "Unbond Request Payload"
// @Success 200 {object} PublicResponse[services.UnbondingTicketPublic] "Unbonding ticket"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Router /v1/unbond [post]
func (h *Handler) Unbond(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[UnbondRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	ticket, err := h.services.Unbond(request.Context(), caller, payload.Amount)
	if err != nil {
		return nil, err
	}
	return NewResult(ticket), nil
}

// Redeem godoc
// @Summary Redeem an unbonding ticket
// @Description Burns the unbonded shares and pays out base assets at the current rate
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Caller identity"
// @Param payload body RedeemRequestPayload false "Redeem Request Payload"
// @Success 200 {object} PublicResponse[services.RedeemResult] "Redeem result"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Failure 404 {object} types.Error "Error: Ticket not found"
// @Router /v1/redeem [post]
func (h *Handler) Redeem(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parseOptionalPayload[RedeemRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.Redeem(request.Context(), caller, payload.TicketOwner)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

// GetUnbondingTicket godoc
// @Summary Get unbonding ticket status
// @Description Returns the owner's unbonding ticket and when it becomes redeemable
// @Produce json
// @Param owner query string true "Owner identity"
// @Success 200 {object} PublicResponse[services.UnbondingStatusPublic] "Unbonding status"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 404 {object} types.Error "Error: Ticket not found"
// @Router /v1/unbonding/ticket [get]
func (h *Handler) GetUnbondingTicket(request *http.Request) (*Result, *types.Error) {
	owner, err := parseIdentityQuery(request, "owner")
	if err != nil {
		return nil, err
	}
	status, err := h.services.UnbondingStatus(request.Context(), owner)
	if err != nil {
		return nil, err
	}
	return NewResult(status), nil
}
