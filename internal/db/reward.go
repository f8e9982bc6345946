package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertRewardPublication fails with DuplicateKeyError when the id was already published.
func (db *Database) InsertRewardPublication(ctx context.Context, record *model.RewardPublicationDocument) error {
	client := db.collection(model.RewardPublicationCollection)

	_, err := client.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     fmt.Sprint(record.Id),
				Message: "reward publication already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindRewardPublication(ctx context.Context, id uint32) (*model.RewardPublicationDocument, error) {
	client := db.collection(model.RewardPublicationCollection)

	var record model.RewardPublicationDocument
	err := client.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     fmt.Sprint(id),
				Message: "reward publication not found",
			}
		}
		return nil, err
	}
	return &record, nil
}
