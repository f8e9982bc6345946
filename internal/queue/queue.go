package queue

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/config"
	"github.com/babylonchain/staking-vault-service/internal/observability/metrics"
	"github.com/babylonchain/staking-vault-service/internal/observability/tracing"
	"github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/queue/handlers"
	"github.com/babylonchain/staking-vault-service/internal/services"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

type Queues struct {
	RewardPublicationQueueClient client.QueueClient
	// EventsQueueClient only publishes; it is held here for health checks and shutdown.
	EventsQueueClient client.QueueClient
	Handlers          *handlers.QueueHandler
	Services          *services.Services
	processingTimeout time.Duration
	maxRetryAttempts  int32

	wg sync.WaitGroup
}

func New(cfg *config.QueueConfig, service *services.Services, eventsQueue client.QueueClient) (*Queues, error) {
	rewardQueueClient, err := client.NewQueueClient(cfg, client.RewardPublicationQueueName)
	if err != nil {
		return nil, fmt.Errorf("error while creating RewardPublicationQueueClient: %w", err)
	}
	return NewWithClients(cfg, service, rewardQueueClient, eventsQueue), nil
}

// NewWithClients builds the queues around already connected clients.
func NewWithClients(
	cfg *config.QueueConfig, service *services.Services,
	rewardQueue, eventsQueue client.QueueClient,
) *Queues {
	return &Queues{
		RewardPublicationQueueClient: rewardQueue,
		EventsQueueClient:            eventsQueue,
		Handlers:                     handlers.NewQueueHandler(service),
		Services:                     service,
		processingTimeout:            cfg.QueueProcessingTimeout,
		maxRetryAttempts:             cfg.MsgMaxRetryAttempts,
	}
}

// Start all message processing
func (q *Queues) StartReceivingMessages() error {
	return q.startQueueMessageProcessing(
		q.RewardPublicationQueueClient, q.Handlers.RewardPublicationHandler,
	)
}

// Turn off all message processing and wait for the in-flight message to finish.
func (q *Queues) StopReceivingMessages() {
	if err := q.RewardPublicationQueueClient.Stop(); err != nil {
		log.Error().Err(err).Msg("error while stopping the reward publication queue client")
	}
	q.wg.Wait()
	if q.EventsQueueClient != nil {
		if err := q.EventsQueueClient.Stop(); err != nil {
			log.Error().Err(err).Msg("error while stopping the vault events queue client")
		}
	}
}

// IsConnectionHealthy pings every queue connection.
func (q *Queues) IsConnectionHealthy() error {
	var errorMessages []string
	checkQueue := func(name string, queueClient client.QueueClient) {
		if queueClient == nil {
			return
		}
		if err := queueClient.Ping(); err != nil {
			errorMessages = append(errorMessages, fmt.Sprintf("%s is not healthy: %v", name, err))
		}
	}

	checkQueue("RewardPublicationQueueClient", q.RewardPublicationQueueClient)
	checkQueue("EventsQueueClient", q.EventsQueueClient)

	if len(errorMessages) > 0 {
		return fmt.Errorf("queue connections are not healthy: %v", errorMessages)
	}
	return nil
}

func (q *Queues) startQueueMessageProcessing(
	queueClient client.QueueClient, handler handlers.MessageHandler,
) error {
	messagesChan, err := queueClient.ReceiveMessages()
	if err != nil {
		log.Error().Err(err).Str("queueName", queueClient.GetQueueName()).Msg("error setting up message channel from queue")
		return err
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for message := range messagesChan {
			q.processMessage(queueClient, handler, message)
		}
	}()
	return nil
}

func (q *Queues) processMessage(
	queueClient client.QueueClient, handler handlers.MessageHandler, message client.QueueMessage,
) {
	queueName := queueClient.GetQueueName()
	// For each message, create a new context with a deadline or timeout
	ctx, cancel := context.WithTimeout(tracing.AttachTracingIntoContext(context.Background()), q.processingTimeout)
	defer cancel()
	logger := log.With().
		Str("queueName", queueName).
		Str("traceId", tracing.GetTraceId(ctx)).
		Int32("retryAttempts", message.GetRetryAttempts()).
		Logger()
	ctx = logger.WithContext(ctx)

	if err := handler(ctx, message.Body); err != nil {
		metrics.RecordQueueMessage(queueName, metrics.Error)
		if q.shouldRetry(err, message) {
			logger.Warn().Err(err).Msg("error while processing message from queue, requeueing")
			if reQueueErr := queueClient.ReQueueMessage(ctx, message); reQueueErr != nil {
				logger.Error().Err(reQueueErr).Msg("error while requeueing message")
			}
			return
		}

		logger.Error().Err(err).Msg("giving up on message, saving it as unprocessable")
		if saveErr := q.Services.SaveUnprocessableMessages(ctx, message.Body, message.Receipt, queueName); saveErr != nil {
			// leave the message unacknowledged so the broker redelivers it
			logger.Error().Err(saveErr).Msg("error while saving unprocessable message")
			return
		}
	} else {
		metrics.RecordQueueMessage(queueName, metrics.Success)
	}

	if delErr := queueClient.DeleteMessage(message.Receipt); delErr != nil {
		logger.Error().Err(delErr).Msg("error while deleting message from queue")
	}
}

// shouldRetry retries server side failures until the attempts run out.
// Rejected commands fail the same way every time.
func (q *Queues) shouldRetry(err *types.Error, message client.QueueMessage) bool {
	if err.StatusCode < http.StatusInternalServerError {
		return false
	}
	return message.GetRetryAttempts() < q.maxRetryAttempts
}
