package scripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/queue"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
)

type GenericEvent struct {
	EventType queueclient.EventType `json:"event_type"`
}

// ReplayUnprocessableMessages re-queues every stored unprocessable message
// and removes it from the store once sent. Messages that are not valid
// events stay in the store. It returns the number of replayed messages.
func ReplayUnprocessableMessages(ctx context.Context, queues *queue.Queues, db db.DBClient) (int, error) {
	unprocessableMessages, err := db.FindUnprocessableMessages(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve unprocessable messages: %w", err)
	}

	messageCount := len(unprocessableMessages)
	log.Ctx(ctx).Info().Int("count", messageCount).Msg("Found unprocessable messages")
	if messageCount == 0 {
		return 0, errors.New("no unprocessable messages to replay")
	}

	replayed := 0
	for _, msg := range unprocessableMessages {
		var genericEvent GenericEvent
		if err := json.Unmarshal([]byte(msg.MessageBody), &genericEvent); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("receipt", msg.Receipt).Msg("Skipping message that is not a valid event")
			continue
		}

		if err := processEventMessage(ctx, queues, genericEvent, msg.MessageBody); err != nil {
			return replayed, fmt.Errorf("failed to process message %s: %w", msg.Receipt, err)
		}

		if err := db.DeleteUnprocessableMessage(ctx, msg.Receipt); err != nil {
			return replayed, fmt.Errorf("failed to delete unprocessable message %s: %w", msg.Receipt, err)
		}
		replayed++
	}

	log.Ctx(ctx).Info().Int("replayed", replayed).Msg("Reprocessing of unprocessable messages completed.")
	return replayed, nil
}

// processEventMessage processes the event message based on its EventType.
func processEventMessage(ctx context.Context, queues *queue.Queues, event GenericEvent, messageBody string) error {
	switch event.EventType {
	case queueclient.PublishRewardCommandType:
		return queues.RewardPublicationQueueClient.SendMessage(ctx, messageBody)
	default:
		return fmt.Errorf("unknown event type: %v", event.EventType)
	}
}
