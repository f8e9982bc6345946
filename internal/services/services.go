package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/clients"
	"github.com/babylonchain/staking-vault-service/internal/clients/freezer"
	"github.com/babylonchain/staking-vault-service/internal/clients/minter"
	"github.com/babylonchain/staking-vault-service/internal/config"
	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/memdb"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"github.com/babylonchain/staking-vault-service/internal/ledger"
	"github.com/babylonchain/staking-vault-service/internal/observability/metrics"
	"github.com/babylonchain/staking-vault-service/internal/observability/tracing"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/shares"
	"github.com/babylonchain/staking-vault-service/internal/types"
)

// Service layer contains the business logic and is used to interact with
// the database and other external clients (if any).
type Services struct {
	DbClient db.DBClient
	Ledger   *ledger.Ledger
	Clients  *clients.Clients
	cfg      *config.Config

	eventsQueue      queueclient.QueueClient
	mintCredential   minter.Credential
	freezeCredential freezer.Credential
	now              func() time.Time
}

// New wires the services on top of the configured database. eventsQueue may
// be nil, in which case vault events are only logged.
func New(ctx context.Context, cfg *config.Config, eventsQueue queueclient.QueueClient) (*Services, error) {
	dbClient, err := newDbClient(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while creating db client")
		return nil, err
	}
	l := ledger.New(dbClient)

	return &Services{
		DbClient:         dbClient,
		Ledger:           l,
		Clients:          clients.New(cfg, l),
		cfg:              cfg,
		eventsQueue:      eventsQueue,
		mintCredential:   minter.NewCredential(cfg.Vault.ProgramId),
		freezeCredential: freezer.NewCredential(cfg.Vault.ProgramId),
		now:              time.Now,
	}, nil
}

func newDbClient(ctx context.Context, cfg config.DbConfig) (db.DBClient, error) {
	if cfg.IsInMemory() {
		log.Ctx(ctx).Warn().Msg("using the in-memory database, state is lost on restart")
		return memdb.New(), nil
	}
	mongoClient, err := db.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return mongoClient, nil
}

// SetClock replaces the wall clock used for unbonding tickets and event timestamps.
func (s *Services) SetClock(now func() time.Time) {
	s.now = now
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}

func (s *Services) SaveUnprocessableMessages(ctx context.Context, messageBody, receipt, queueName string) error {
	err := s.DbClient.SaveUnprocessableMessage(ctx, messageBody, receipt, queueName)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while saving unprocessable message")
		return types.NewErrorWithMsg(http.StatusInternalServerError, types.InternalServiceError, "error while saving unprocessable message")
	}
	return nil
}

// runInTx runs fn as one atomic operation. Whatever fn fails with aborts the
// transaction and comes back as a *types.Error.
func (s *Services) runInTx(ctx context.Context, operation string, fn func(txCtx context.Context) *types.Error) *types.Error {
	_, err := tracing.WrapWithSpan(ctx, operation, func() (struct{}, error) {
		return struct{}{}, s.DbClient.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := fn(txCtx); err != nil {
				return err
			}
			return nil
		})
	})
	if err != nil {
		metrics.RecordVaultOperation(operation, metrics.Error)
		var typedErr *types.Error
		if errors.As(err, &typedErr) {
			return typedErr
		}
		log.Ctx(ctx).Error().Err(err).Str("operation", operation).Msg("vault operation failed")
		return types.NewInternalServiceError(err)
	}
	metrics.RecordVaultOperation(operation, metrics.Success)
	return nil
}

func (s *Services) loadVaultConfig(ctx context.Context) (*model.VaultConfigDocument, *types.Error) {
	cfg, err := s.DbClient.FindVaultConfig(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusForbidden, types.NotInitialized, "vault is not initialized")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to load vault config")
		return nil, types.NewInternalServiceError(err)
	}
	return cfg, nil
}

func (s *Services) poolTotals(ctx context.Context, cfg *model.VaultConfigDocument) (ledger.Totals, *types.Error) {
	totals, err := s.Ledger.PoolTotals(ctx, cfg)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to read pool totals")
		return ledger.Totals{}, types.NewInternalServiceError(err)
	}
	return totals, nil
}

// commitSnapshot bumps the last-update marker and reads the resulting pool totals.
// Every state-changing operation calls it once, as its last step.
func (s *Services) commitSnapshot(ctx context.Context, cfg *model.VaultConfigDocument) (queueclient.PoolSnapshot, *types.Error) {
	lastUpdate, err := s.DbClient.IncrementLastUpdate(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bump the pool last update marker")
		return queueclient.PoolSnapshot{}, types.NewInternalServiceError(err)
	}
	totals, typedErr := s.poolTotals(ctx, cfg)
	if typedErr != nil {
		return queueclient.PoolSnapshot{}, typedErr
	}
	return queueclient.PoolSnapshot{
		TotalAssets: totals.Assets,
		TotalShares: totals.Shares,
		LastUpdate:  lastUpdate,
		Timestamp:   s.now().Unix(),
	}, nil
}

// afterCommit updates the pool gauges and publishes the event. Failures are
// logged and counted, the operation itself has already committed.
func (s *Services) afterCommit(ctx context.Context, snapshot queueclient.PoolSnapshot, event queueclient.EventMessage) {
	if rate, err := shares.ExchangeRate(snapshot.TotalShares, snapshot.TotalAssets); err == nil {
		metrics.RecordPoolState(snapshot.TotalAssets, snapshot.TotalShares, rate)
	}

	logger := log.Ctx(ctx).With().
		Int("eventType", int(event.GetEventType())).
		Str("actor", event.GetActor()).
		Uint64("lastUpdate", snapshot.LastUpdate).
		Logger()
	logger.Info().Msg("vault state changed")

	if s.eventsQueue == nil {
		return
	}
	body, err := json.Marshal(event)
	if err == nil {
		err = s.eventsQueue.SendMessage(ctx, string(body))
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to publish vault event")
		metrics.RecordEventPublishFailure(int(event.GetEventType()))
	}
}

func conversionError(ctx context.Context, err error) *types.Error {
	switch {
	case errors.Is(err, shares.ErrOverflow):
		log.Ctx(ctx).Error().Err(err).Msg("share conversion overflowed")
		return types.NewError(http.StatusInternalServerError, types.Overflow, err)
	case errors.Is(err, shares.ErrDivisionByZero):
		log.Ctx(ctx).Error().Err(err).Msg("share conversion divided by zero")
		return types.NewError(http.StatusInternalServerError, types.DivisionByZero, err)
	default:
		return types.NewInternalServiceError(err)
	}
}

// ledgerError maps a ledger failure. insufficient is the code reported when
// the debited account lacks funds.
func ledgerError(ctx context.Context, err error, insufficient types.ErrorCode) *types.Error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return types.NewError(http.StatusForbidden, insufficient, err)
	case errors.Is(err, ledger.ErrAccountFrozen):
		return types.NewError(http.StatusForbidden, types.AccountFrozen, err)
	case errors.Is(err, ledger.ErrOverflow):
		return types.NewError(http.StatusInternalServerError, types.Overflow, err)
	default:
		log.Ctx(ctx).Error().Err(err).Msg("ledger operation failed")
		return types.NewInternalServiceError(fmt.Errorf("ledger operation failed: %w", err))
	}
}
