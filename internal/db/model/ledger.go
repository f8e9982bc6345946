package model

import "fmt"

type AccountDocument struct {
	Id      string `bson:"_id"` // Id is "<asset_id>:<owner>"
	AssetId string `bson:"asset_id"`
	Owner   string `bson:"owner"`
	Balance uint64 `bson:"balance"`
	Frozen  bool   `bson:"frozen"`
}

func BuildAccountId(assetId, owner string) string {
	return fmt.Sprintf("%s:%s", assetId, owner)
}

func NewAccountDocument(assetId, owner string) *AccountDocument {
	return &AccountDocument{
		Id:      BuildAccountId(assetId, owner),
		AssetId: assetId,
		Owner:   owner,
	}
}

type AssetSupplyDocument struct {
	AssetId string `bson:"_id"`
	Supply  uint64 `bson:"supply"`
}
