package db

import (
	"context"
	"errors"

	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) FindAccount(ctx context.Context, assetId, owner string) (*model.AccountDocument, error) {
	client := db.collection(model.AccountCollection)
	id := model.BuildAccountId(assetId, owner)

	var account model.AccountDocument
	err := client.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: "account not found",
			}
		}
		return nil, err
	}
	return &account, nil
}

// SaveAccount creates or replaces the account document.
func (db *Database) SaveAccount(ctx context.Context, account *model.AccountDocument) error {
	client := db.collection(model.AccountCollection)
	account.Id = model.BuildAccountId(account.AssetId, account.Owner)

	_, err := client.ReplaceOne(
		ctx, bson.M{"_id": account.Id}, account, options.Replace().SetUpsert(true),
	)
	return err
}

func (db *Database) FindAssetSupply(ctx context.Context, assetId string) (*model.AssetSupplyDocument, error) {
	client := db.collection(model.AssetSupplyCollection)

	var supply model.AssetSupplyDocument
	err := client.FindOne(ctx, bson.M{"_id": assetId}).Decode(&supply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     assetId,
				Message: "asset supply not found",
			}
		}
		return nil, err
	}
	return &supply, nil
}

func (db *Database) SaveAssetSupply(ctx context.Context, supply *model.AssetSupplyDocument) error {
	client := db.collection(model.AssetSupplyCollection)

	_, err := client.ReplaceOne(
		ctx, bson.M{"_id": supply.AssetId}, supply, options.Replace().SetUpsert(true),
	)
	return err
}
