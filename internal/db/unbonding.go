package db

import (
	"context"
	"errors"

	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) FindUnbondingTicket(ctx context.Context, owner string) (*model.UnbondingTicketDocument, error) {
	client := db.collection(model.UnbondingTicketCollection)

	var ticket model.UnbondingTicketDocument
	err := client.FindOne(ctx, bson.M{"_id": owner}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     owner,
				Message: "unbonding ticket not found",
			}
		}
		return nil, err
	}
	return &ticket, nil
}

// SaveUnbondingTicket overwrites any earlier ticket of the same owner.
func (db *Database) SaveUnbondingTicket(ctx context.Context, ticket *model.UnbondingTicketDocument) error {
	client := db.collection(model.UnbondingTicketCollection)

	_, err := client.ReplaceOne(
		ctx, bson.M{"_id": ticket.Owner}, ticket, options.Replace().SetUpsert(true),
	)
	return err
}

func (db *Database) DeleteUnbondingTicket(ctx context.Context, owner string) error {
	client := db.collection(model.UnbondingTicketCollection)

	result, err := client.DeleteOne(ctx, bson.M{"_id": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return &NotFoundError{
			Key:     owner,
			Message: "unbonding ticket not found during delete",
		}
	}
	return nil
}
