package handlers

import (
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/types"
)

type PublishRewardRequestPayload struct {
	Id     uint32 `json:"id"`
	Amount uint64 `json:"amount"`
}

// PublishReward godoc
// @Summary Publish a reward
// @Description Mints the reward into the pool without issuing shares. Each id is published once.
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Rewards administrator identity"
// @Param payload body PublishRewardRequestPayload true "Publish Reward Request Payload"
// @Success 200 {object} PublicResponse[services.RewardPublicationPublic] "Reward publication"
// @Failure 403 {object} types.Error "Error: Forbidden"
// @Failure 409 {object} types.Error "Error: Reward already published"
// @Router /v1/rewards [post]
func (h *Handler) PublishReward(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}
	payload, err := parsePayload[PublishRewardRequestPayload](h, request)
	if err != nil {
		return nil, err
	}
	record, err := h.services.PublishReward(request.Context(), caller, payload.Id, payload.Amount)
	if err != nil {
		return nil, err
	}
	return NewResult(record), nil
}

// GetRewardPublication godoc
// @Summary Get a reward publication
// @Produce json
// @Param id query integer true "Reward id"
// @Success 200 {object} PublicResponse[services.RewardPublicationPublic] "Reward publication"
// @Failure 404 {object} types.Error "Error: Not Found"
// @Router /v1/rewards [get]
func (h *Handler) GetRewardPublication(request *http.Request) (*Result, *types.Error) {
	id, err := parseUintQuery(request, "id", 32)
	if err != nil {
		return nil, err
	}
	record, err := h.services.GetRewardPublication(request.Context(), uint32(id))
	if err != nil {
		return nil, err
	}
	return NewResult(record), nil
}
