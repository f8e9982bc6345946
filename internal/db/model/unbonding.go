package model

// UnbondingTicketDocument is keyed by owner, one open request per account.
type UnbondingTicketDocument struct {
	Owner           string `bson:"_id"`
	RequestedAmount uint64 `bson:"requested_amount"`
	StartBalance    uint64 `bson:"start_balance"`
	StartTimestamp  int64  `bson:"start_timestamp"`
}
