package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

// RewardPublicationHandler publishes the reward carried by a PublishRewardCommand.
// A reward id that was already published is treated as a duplicate message
// and acknowledged without changing state.
func (h *QueueHandler) RewardPublicationHandler(ctx context.Context, messageBody string) *types.Error {
	var command queueclient.PublishRewardCommand
	if err := json.Unmarshal([]byte(messageBody), &command); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal the message body into PublishRewardCommand")
		return types.NewError(http.StatusBadRequest, types.BadRequest, err)
	}
	if command.EventType != queueclient.PublishRewardCommandType {
		log.Ctx(ctx).Error().Int("eventType", int(command.EventType)).Msg("Unexpected event type on the reward publication queue")
		return types.NewError(http.StatusBadRequest, types.BadRequest,
			fmt.Errorf("unexpected event type %d", command.EventType))
	}

	_, err := h.Services.PublishReward(ctx, command.Admin, command.Id, command.Amount)
	if err != nil {
		if err.ErrorCode == types.AlreadyExists {
			log.Ctx(ctx).Info().Uint32("rewardId", command.Id).Msg("Reward already published, skipping duplicate message")
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Uint32("rewardId", command.Id).Msg("Failed to publish reward")
		return err
	}
	return nil
}
