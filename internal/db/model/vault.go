package model

const VaultConfigId = "vault_config"

type VaultConfigDocument struct {
	Id                    string   `bson:"_id"`
	BaseAssetId           string   `bson:"base_asset_id"`
	ShareAssetId          string   `bson:"share_asset_id"`
	PoolAccount           string   `bson:"pool_account"`
	UnbondingPeriod       int64    `bson:"unbonding_period"`
	FreezeAdministrators  []string `bson:"freeze_administrators"`
	RewardsAdministrators []string `bson:"rewards_administrators"`
	Paused                bool     `bson:"paused"`
	CreatedAt             int64    `bson:"created_at"`
	UpdatedAt             int64    `bson:"updated_at"`
}

type PoolStateDocument struct {
	Id         string `bson:"_id"`
	LastUpdate uint64 `bson:"last_update"`
}

const PoolStateId = "pool"
