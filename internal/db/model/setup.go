package model

import (
	"context"
	"fmt"
	"time"

	"github.com/babylonchain/staking-vault-service/internal/config"
	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	VaultConfigCollection       = "vault_config"
	PoolStateCollection         = "pool_state"
	AccountCollection           = "accounts"
	AssetSupplyCollection       = "asset_supply"
	UnbondingTicketCollection   = "unbonding_tickets"
	RewardPublicationCollection = "reward_publications"
	UnprocessableMsgCollection  = "unprocessable_messages"
)

type index struct {
	// Keys keeps field order, compound indexes depend on it.
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	VaultConfigCollection: nil,
	PoolStateCollection:   nil,
	AccountCollection: {
		{Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "owner", Value: 1}}, Unique: true},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	},
	AssetSupplyCollection:       nil,
	UnbondingTicketCollection:   {{Keys: bson.D{{Key: "start_timestamp", Value: 1}}}},
	RewardPublicationCollection: {{Keys: bson.D{{Key: "published_at", Value: -1}}}},
	UnprocessableMsgCollection:  {{Keys: bson.D{{Key: "receipt", Value: 1}}}},
}

func Setup(ctx context.Context, cfg *config.Config) error {
	if cfg.Db.IsInMemory() {
		log.Info().Msg("In-memory database selected, skipping collection setup.")
		return nil
	}

	clientOps := options.Client().ApplyURI(cfg.Db.Address)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database := client.Database(cfg.Db.DbName)

	for name, idxs := range collections {
		// Collections must exist before a multi-document transaction writes to them.
		createCollection(ctx, database, name)
		for _, idx := range idxs {
			createIndex(ctx, database, name, idx)
		}
	}

	log.Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	names, err := database.ListCollectionNames(ctx, bson.M{"name": collectionName})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to list collections")
		return
	}
	if len(names) > 0 {
		log.Debug().Msg("Collection already exists: " + collectionName)
		return
	}

	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to create collection: " + collectionName)
		return
	}

	log.Debug().Msg("Collection created successfully: " + collectionName)
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) {
	if len(idx.Keys) == 0 {
		return
	}

	index := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, index); err != nil {
		log.Debug().Msg(fmt.Sprintf("Failed to create index on collection '%s': %v", collectionName, err))
		return
	}

	log.Debug().Msg("Index created successfully on collection: " + collectionName)
}
