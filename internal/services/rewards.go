package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

type RewardPublicationPublic struct {
	Id          uint32 `json:"id"`
	Amount      uint64 `json:"amount"`
	PublishedAt string `json:"published_at"`
	Admin       string `json:"admin"`
}

func fromRewardPublicationDocument(record *model.RewardPublicationDocument) *RewardPublicationPublic {
	return &RewardPublicationPublic{
		Id:          record.Id,
		Amount:      record.Amount,
		PublishedAt: utils.FormatUnixTimestamp(record.PublishedAt),
		Admin:       record.Admin,
	}
}

// PublishReward mints amount of the base asset into the pool without issuing
// shares, which raises the exchange rate for every holder. Each id can be
// published once.
func (s *Services) PublishReward(ctx context.Context, caller string, id uint32, amount uint64) (*RewardPublicationPublic, *types.Error) {
	var (
		record model.RewardPublicationDocument
		event  queueclient.RewardsPublishedEvent
	)
	txErr := s.runInTx(ctx, "publish_reward", func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		if !types.AdministratorSet(cfg.RewardsAdministrators).Contains(caller) {
			log.Ctx(txCtx).Warn().Str("caller", caller).Msg("caller is not a rewards administrator")
			return types.NewErrorWithMsg(http.StatusForbidden, types.Unauthorized, "caller is not a rewards administrator")
		}
		if err := checkActive(txCtx, cfg); err != nil {
			return err
		}
		if amount == 0 {
			return invalidAmount(txCtx)
		}

		record = model.RewardPublicationDocument{
			Id:          id,
			Amount:      amount,
			PublishedAt: s.now().Unix(),
			Admin:       caller,
		}
		if dbErr := s.DbClient.InsertRewardPublication(txCtx, &record); dbErr != nil {
			if db.IsDuplicateKeyError(dbErr) {
				log.Ctx(txCtx).Warn().Uint32("rewardId", id).Msg("reward already published")
				return types.NewError(http.StatusConflict, types.AlreadyExists,
					fmt.Errorf("reward %d has already been published", id))
			}
			log.Ctx(txCtx).Error().Err(dbErr).Msg("failed to record reward publication")
			return types.NewInternalServiceError(dbErr)
		}

		if err := s.Clients.Minter.MintTo(txCtx, s.mintCredential, cfg.BaseAssetId, cfg.PoolAccount, amount); err != nil {
			return err
		}

		snapshot, err := s.commitSnapshot(txCtx, cfg)
		if err != nil {
			return err
		}
		event = queueclient.RewardsPublishedEvent{
			EventType:     queueclient.RewardsPublishedEventType,
			Admin:         caller,
			RewardId:      id,
			Amount:        amount,
			MintAuthority: s.mintCredential.Address(),
			PoolSnapshot:  snapshot,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCommit(ctx, event.PoolSnapshot, event)
	return fromRewardPublicationDocument(&record), nil
}

func (s *Services) GetRewardPublication(ctx context.Context, id uint32) (*RewardPublicationPublic, *types.Error) {
	record, err := s.DbClient.FindRewardPublication(ctx, id)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "reward publication not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to find reward publication")
		return nil, types.NewInternalServiceError(err)
	}
	return fromRewardPublicationDocument(record), nil
}
