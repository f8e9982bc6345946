package db

import (
	"context"

	"github.com/babylonchain/staking-vault-service/internal/db/model"
)

// DBClient is the storage boundary of the vault. Every read or write made with
// the context handed to WithTransaction's callback joins that transaction.
type DBClient interface {
	Ping(ctx context.Context) error
	// WithTransaction runs fn atomically. Any error returned by fn aborts the
	// transaction and is returned unchanged.
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error

	InsertVaultConfig(ctx context.Context, cfg *model.VaultConfigDocument) error
	FindVaultConfig(ctx context.Context) (*model.VaultConfigDocument, error)
	UpdateVaultConfig(ctx context.Context, cfg *model.VaultConfigDocument) error
	// IncrementLastUpdate bumps the pool update marker and returns the new value.
	IncrementLastUpdate(ctx context.Context) (uint64, error)
	FindLastUpdate(ctx context.Context) (uint64, error)

	FindAccount(ctx context.Context, assetId, owner string) (*model.AccountDocument, error)
	SaveAccount(ctx context.Context, account *model.AccountDocument) error
	FindAssetSupply(ctx context.Context, assetId string) (*model.AssetSupplyDocument, error)
	SaveAssetSupply(ctx context.Context, supply *model.AssetSupplyDocument) error

	FindUnbondingTicket(ctx context.Context, owner string) (*model.UnbondingTicketDocument, error)
	SaveUnbondingTicket(ctx context.Context, ticket *model.UnbondingTicketDocument) error
	DeleteUnbondingTicket(ctx context.Context, owner string) error

	InsertRewardPublication(ctx context.Context, record *model.RewardPublicationDocument) error
	FindRewardPublication(ctx context.Context, id uint32) (*model.RewardPublicationDocument, error)

	SaveUnprocessableMessage(ctx context.Context, messageBody, receipt, queueName string) error
	FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error)
	DeleteUnprocessableMessage(ctx context.Context, receipt interface{}) error
}
