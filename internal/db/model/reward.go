package model

type RewardPublicationDocument struct {
	Id          uint32 `bson:"_id"`
	Amount      uint64 `bson:"amount"`
	PublishedAt int64  `bson:"published_at"`
	Admin       string `bson:"admin"`
}
