package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

type InitializeRequest struct {
	BaseAssetId           string
	ShareAssetId          string
	UnbondingPeriod       int64
	FreezeAdministrators  []string
	RewardsAdministrators []string
}

func (s *Services) requireUpgradeAuthority(ctx context.Context, caller string) *types.Error {
	if caller != s.cfg.Vault.UpgradeAuthority {
		log.Ctx(ctx).Warn().Str("caller", caller).Msg("caller is not the upgrade authority")
		return types.NewErrorWithMsg(http.StatusForbidden, types.Unauthorized, "caller is not the upgrade authority")
	}
	return nil
}

func validateUnbondingPeriod(ctx context.Context, period int64) *types.Error {
	if err := types.ValidateUnbondingPeriod(period); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("invalid unbonding period")
		return types.NewError(http.StatusBadRequest, types.InvalidUnbondingPeriod, err)
	}
	return nil
}

func buildAdministratorSet(ctx context.Context, members []string) (types.AdministratorSet, *types.Error) {
	set, err := types.NewAdministratorSet(members)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("invalid administrator set")
		if errors.Is(err, types.ErrTooManyAdministrators) {
			return nil, types.NewError(http.StatusBadRequest, types.TooManyAdministrators, err)
		}
		return nil, types.NewError(http.StatusBadRequest, types.BadRequest, err)
	}
	for _, m := range set {
		if !utils.IsValidIdentity(m) {
			return nil, types.NewError(http.StatusBadRequest, types.BadRequest,
				fmt.Errorf("invalid administrator identity: %q", m))
		}
	}
	return set, nil
}

// Initialize creates the vault configuration. It can only run once.
func (s *Services) Initialize(ctx context.Context, caller string, req InitializeRequest) (*VaultOverviewPublic, *types.Error) {
	if err := s.requireUpgradeAuthority(ctx, caller); err != nil {
		return nil, err
	}
	if !utils.IsValidAssetId(req.BaseAssetId) || !utils.IsValidAssetId(req.ShareAssetId) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid asset id")
	}
	if req.BaseAssetId == req.ShareAssetId {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.AssetsCannotBeSame,
			"base asset and share asset must differ")
	}
	if err := validateUnbondingPeriod(ctx, req.UnbondingPeriod); err != nil {
		return nil, err
	}
	freezeAdmins, err := buildAdministratorSet(ctx, req.FreezeAdministrators)
	if err != nil {
		return nil, err
	}
	rewardsAdmins, err := buildAdministratorSet(ctx, req.RewardsAdministrators)
	if err != nil {
		return nil, err
	}

	var event queueclient.VaultInitializedEvent
	txErr := s.runInTx(ctx, "initialize", func(txCtx context.Context) *types.Error {
		now := s.now().Unix()
		cfg := &model.VaultConfigDocument{
			Id:                    model.VaultConfigId,
			BaseAssetId:           req.BaseAssetId,
			ShareAssetId:          req.ShareAssetId,
			PoolAccount:           utils.DeriveAddress(s.cfg.Vault.ProgramId, utils.VaultAuthoritySeed),
			UnbondingPeriod:       req.UnbondingPeriod,
			FreezeAdministrators:  freezeAdmins,
			RewardsAdministrators: rewardsAdmins,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if dbErr := s.DbClient.InsertVaultConfig(txCtx, cfg); dbErr != nil {
			if db.IsDuplicateKeyError(dbErr) {
				log.Ctx(txCtx).Warn().Msg("vault is already initialized")
				return types.NewErrorWithMsg(http.StatusConflict, types.AlreadyInitialized, "vault is already initialized")
			}
			log.Ctx(txCtx).Error().Err(dbErr).Msg("failed to insert vault config")
			return types.NewInternalServiceError(dbErr)
		}

		snapshot, err := s.commitSnapshot(txCtx, cfg)
		if err != nil {
			return err
		}
		event = queueclient.VaultInitializedEvent{
			EventType:       queueclient.VaultInitializedEventType,
			Admin:           caller,
			BaseAssetId:     cfg.BaseAssetId,
			ShareAssetId:    cfg.ShareAssetId,
			PoolAccount:     cfg.PoolAccount,
			UnbondingPeriod: cfg.UnbondingPeriod,
			PoolSnapshot:    snapshot,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCommit(ctx, event.PoolSnapshot, event)
	return s.VaultOverview(ctx)
}

// updateConfig applies mutate to the stored configuration and persists it.
// mutate returns the event to publish once the update has committed.
func (s *Services) updateConfig(
	ctx context.Context, operation, caller string,
	mutate func(ctx context.Context, cfg *model.VaultConfigDocument) (queueclient.EventMessage, *types.Error),
) *types.Error {
	if err := s.requireUpgradeAuthority(ctx, caller); err != nil {
		return err
	}

	var (
		event    queueclient.EventMessage
		snapshot queueclient.PoolSnapshot
	)
	txErr := s.runInTx(ctx, operation, func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		var snapshotErr *types.Error
		if event, err = mutate(txCtx, cfg); err != nil {
			return err
		}
		cfg.UpdatedAt = s.now().Unix()
		if dbErr := s.DbClient.UpdateVaultConfig(txCtx, cfg); dbErr != nil {
			log.Ctx(txCtx).Error().Err(dbErr).Msg("failed to update vault config")
			return types.NewInternalServiceError(dbErr)
		}
		snapshot, snapshotErr = s.commitSnapshot(txCtx, cfg)
		return snapshotErr
	})
	if txErr != nil {
		return txErr
	}

	s.afterCommit(ctx, snapshot, withSnapshot(event, snapshot))
	return nil
}

// withSnapshot fills in the pool snapshot of an admin event built before the
// snapshot was taken.
func withSnapshot(event queueclient.EventMessage, snapshot queueclient.PoolSnapshot) queueclient.EventMessage {
	switch e := event.(type) {
	case queueclient.PauseUpdatedEvent:
		e.PoolSnapshot = snapshot
		return e
	case queueclient.UnbondingPeriodUpdatedEvent:
		e.PoolSnapshot = snapshot
		return e
	case queueclient.AdministratorsUpdatedEvent:
		e.PoolSnapshot = snapshot
		return e
	default:
		return event
	}
}

func (s *Services) SetPaused(ctx context.Context, caller string, paused bool) *types.Error {
	return s.updateConfig(ctx, "set_paused", caller,
		func(_ context.Context, cfg *model.VaultConfigDocument) (queueclient.EventMessage, *types.Error) {
			cfg.Paused = paused
			return queueclient.PauseUpdatedEvent{
				EventType: queueclient.PauseUpdatedEventType,
				Admin:     caller,
				Paused:    paused,
			}, nil
		})
}

// UpdateUnbondingPeriod changes the period for every ticket, including the
// ones already open.
func (s *Services) UpdateUnbondingPeriod(ctx context.Context, caller string, period int64) *types.Error {
	if err := validateUnbondingPeriod(ctx, period); err != nil {
		return err
	}
	return s.updateConfig(ctx, "update_unbonding_period", caller,
		func(_ context.Context, cfg *model.VaultConfigDocument) (queueclient.EventMessage, *types.Error) {
			old := cfg.UnbondingPeriod
			cfg.UnbondingPeriod = period
			return queueclient.UnbondingPeriodUpdatedEvent{
				EventType: queueclient.UnbondingPeriodUpdatedEventType,
				Admin:     caller,
				OldPeriod: old,
				NewPeriod: period,
			}, nil
		})
}

func (s *Services) UpdateFreezeAdministrators(ctx context.Context, caller string, admins []string) *types.Error {
	return s.updateAdministrators(ctx, caller, queueclient.FreezeAdministratorsRole, admins)
}

func (s *Services) UpdateRewardsAdministrators(ctx context.Context, caller string, admins []string) *types.Error {
	return s.updateAdministrators(ctx, caller, queueclient.RewardsAdministratorsRole, admins)
}

func (s *Services) updateAdministrators(
	ctx context.Context, caller string, role queueclient.AdministratorRole, admins []string,
) *types.Error {
	set, err := buildAdministratorSet(ctx, admins)
	if err != nil {
		return err
	}
	return s.updateConfig(ctx, "update_administrators", caller,
		func(_ context.Context, cfg *model.VaultConfigDocument) (queueclient.EventMessage, *types.Error) {
			if role == queueclient.FreezeAdministratorsRole {
				cfg.FreezeAdministrators = set
			} else {
				cfg.RewardsAdministrators = set
			}
			return queueclient.AdministratorsUpdatedEvent{
				EventType:      queueclient.AdministratorsUpdatedEventType,
				Admin:          caller,
				Role:           role,
				Administrators: set,
			}, nil
		})
}

func (s *Services) FreezeAccount(ctx context.Context, caller, owner string) *types.Error {
	return s.setAccountFrozen(ctx, caller, owner, true)
}

func (s *Services) ThawAccount(ctx context.Context, caller, owner string) *types.Error {
	return s.setAccountFrozen(ctx, caller, owner, false)
}

// setAccountFrozen freezes or thaws owner's share account through the freeze
// capability. It works while the vault is paused.
func (s *Services) setAccountFrozen(ctx context.Context, caller, owner string, frozen bool) *types.Error {
	operation := "thaw_account"
	if frozen {
		operation = "freeze_account"
	}
	var event queueclient.AccountFreezeUpdatedEvent
	txErr := s.runInTx(ctx, operation, func(txCtx context.Context) *types.Error {
		cfg, err := s.loadVaultConfig(txCtx)
		if err != nil {
			return err
		}
		if !types.AdministratorSet(cfg.FreezeAdministrators).Contains(caller) {
			log.Ctx(txCtx).Warn().Str("caller", caller).Msg("caller is not a freeze administrator")
			return types.NewErrorWithMsg(http.StatusForbidden, types.Unauthorized, "caller is not a freeze administrator")
		}

		if frozen {
			err = s.Clients.Freezer.Freeze(txCtx, s.freezeCredential, cfg.ShareAssetId, owner)
		} else {
			err = s.Clients.Freezer.Thaw(txCtx, s.freezeCredential, cfg.ShareAssetId, owner)
		}
		if err != nil {
			return err
		}

		snapshot, err := s.commitSnapshot(txCtx, cfg)
		if err != nil {
			return err
		}
		event = queueclient.AccountFreezeUpdatedEvent{
			EventType:    queueclient.AccountFreezeUpdatedEventType,
			Admin:        caller,
			Account:      owner,
			Frozen:       frozen,
			PoolSnapshot: snapshot,
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.afterCommit(ctx, event.PoolSnapshot, event)
	return nil
}
