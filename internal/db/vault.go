package db

import (
	"context"
	"errors"

	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) InsertVaultConfig(ctx context.Context, cfg *model.VaultConfigDocument) error {
	client := db.collection(model.VaultConfigCollection)
	cfg.Id = model.VaultConfigId

	_, err := client.InsertOne(ctx, cfg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     model.VaultConfigId,
				Message: "vault config already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindVaultConfig(ctx context.Context) (*model.VaultConfigDocument, error) {
	client := db.collection(model.VaultConfigCollection)
	filter := bson.M{"_id": model.VaultConfigId}

	var cfg model.VaultConfigDocument
	err := client.FindOne(ctx, filter).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.VaultConfigId,
				Message: "vault config not found",
			}
		}
		return nil, err
	}
	return &cfg, nil
}

func (db *Database) UpdateVaultConfig(ctx context.Context, cfg *model.VaultConfigDocument) error {
	client := db.collection(model.VaultConfigCollection)
	cfg.Id = model.VaultConfigId

	result, err := client.ReplaceOne(ctx, bson.M{"_id": model.VaultConfigId}, cfg)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     model.VaultConfigId,
			Message: "vault config not found during update",
		}
	}
	return nil
}

func (db *Database) IncrementLastUpdate(ctx context.Context) (uint64, error) {
	client := db.collection(model.PoolStateCollection)
	filter := bson.M{"_id": model.PoolStateId}
	update := bson.M{"$inc": bson.M{"last_update": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var state model.PoolStateDocument
	if err := client.FindOneAndUpdate(ctx, filter, update, opts).Decode(&state); err != nil {
		return 0, err
	}
	return state.LastUpdate, nil
}

func (db *Database) FindLastUpdate(ctx context.Context) (uint64, error) {
	client := db.collection(model.PoolStateCollection)

	var state model.PoolStateDocument
	err := client.FindOne(ctx, bson.M{"_id": model.PoolStateId}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// nothing has changed the pool yet
			return 0, nil
		}
		return 0, err
	}
	return state.LastUpdate, nil
}
