package client

const (
	VaultEventsQueueName       string = "vault_events_queue"
	RewardPublicationQueueName string = "reward_publication_queue"
)

const (
	VaultInitializedEventType       EventType = 1
	DepositEventType                EventType = 2
	UnbondEventType                 EventType = 3
	RedeemEventType                 EventType = 4
	RewardsPublishedEventType       EventType = 5
	UnbondingPeriodUpdatedEventType EventType = 6
	PauseUpdatedEventType           EventType = 7
	AdministratorsUpdatedEventType  EventType = 8
	AccountFreezeUpdatedEventType   EventType = 9

	// PublishRewardCommandType is consumed, never emitted.
	PublishRewardCommandType EventType = 100
)

type EventType int

const (
	FreezeAdministratorsRole  AdministratorRole = "FREEZE"
	RewardsAdministratorsRole AdministratorRole = "REWARDS"
)

type AdministratorRole string

// EventMessage is implemented by every event published to the vault events queue.
type EventMessage interface {
	GetEventType() EventType
	GetActor() string
}

// PoolSnapshot is the pool state right after the operation committed.
type PoolSnapshot struct {
	TotalAssets uint64 `json:"total_assets"`
	TotalShares uint64 `json:"total_shares"`
	LastUpdate  uint64 `json:"last_update"`
	Timestamp   int64  `json:"timestamp"`
}

type VaultInitializedEvent struct {
	EventType       EventType `json:"event_type"` // always 1
	Admin           string    `json:"admin"`
	BaseAssetId     string    `json:"base_asset_id"`
	ShareAssetId    string    `json:"share_asset_id"`
	PoolAccount     string    `json:"pool_account"`
	UnbondingPeriod int64     `json:"unbonding_period"`
	PoolSnapshot
}

type DepositEvent struct {
	EventType         EventType `json:"event_type"` // always 2
	User              string    `json:"user"`
	DepositAmount     uint64    `json:"deposit_amount"`
	MintedShares      uint64    `json:"minted_shares"`
	TotalAssetsBefore uint64    `json:"total_assets_before"`
	TotalSharesBefore uint64    `json:"total_shares_before"`
	PoolSnapshot
}

type UnbondEvent struct {
	EventType    EventType `json:"event_type"` // always 3
	User         string    `json:"user"`
	Amount       uint64    `json:"amount"`
	StartBalance uint64    `json:"start_balance"`
	PoolSnapshot
}

type RedeemEvent struct {
	EventType       EventType `json:"event_type"` // always 4
	User            string    `json:"user"`
	RequestedAmount uint64    `json:"requested_amount"`
	SharesBurned    uint64    `json:"shares_burned"`
	AssetsRedeemed  uint64    `json:"assets_redeemed"`
	PoolSnapshot
}

type RewardsPublishedEvent struct {
	EventType     EventType `json:"event_type"` // always 5
	Admin         string    `json:"admin"`
	RewardId      uint32    `json:"reward_id"`
	Amount        uint64    `json:"amount"`
	MintAuthority string    `json:"mint_authority"`
	PoolSnapshot
}

type UnbondingPeriodUpdatedEvent struct {
	EventType EventType `json:"event_type"` // always 6
	Admin     string    `json:"admin"`
	OldPeriod int64     `json:"old_period"`
	NewPeriod int64     `json:"new_period"`
	PoolSnapshot
}

type PauseUpdatedEvent struct {
	EventType EventType `json:"event_type"` // always 7
	Admin     string    `json:"admin"`
	Paused    bool      `json:"paused"`
	PoolSnapshot
}

type AdministratorsUpdatedEvent struct {
	EventType      EventType         `json:"event_type"` // always 8
	Admin          string            `json:"admin"`
	Role           AdministratorRole `json:"role"`
	Administrators []string          `json:"administrators"`
	PoolSnapshot
}

type AccountFreezeUpdatedEvent struct {
	EventType EventType `json:"event_type"` // always 9
	Admin     string    `json:"admin"`
	Account   string    `json:"account"`
	Frozen    bool      `json:"frozen"`
	PoolSnapshot
}

// PublishRewardCommand asks the vault to publish a reward on behalf of Admin.
type PublishRewardCommand struct {
	EventType EventType `json:"event_type"` // always 100
	Admin     string    `json:"admin"`
	Id        uint32    `json:"id"`
	Amount    uint64    `json:"amount"`
}

func (e VaultInitializedEvent) GetEventType() EventType { return VaultInitializedEventType }
func (e VaultInitializedEvent) GetActor() string { return e.Admin }
func (e DepositEvent) GetEventType() EventType { return DepositEventType }
func (e DepositEvent) GetActor() string { return e.User }
func (e UnbondEvent) GetEventType() EventType { return UnbondEventType }
func (e UnbondEvent) GetActor() string { return e.User }
func (e RedeemEvent) GetEventType() EventType { return RedeemEventType }
func (e RedeemEvent) GetActor() string { return e.User }
func (e RewardsPublishedEvent) GetEventType() EventType { return RewardsPublishedEventType }
func (e RewardsPublishedEvent) GetActor() string { return e.Admin }
func (e UnbondingPeriodUpdatedEvent) GetEventType() EventType { return UnbondingPeriodUpdatedEventType }
func (e UnbondingPeriodUpdatedEvent) GetActor() string { return e.Admin }
func (e PauseUpdatedEvent) GetEventType() EventType { return PauseUpdatedEventType }
func (e PauseUpdatedEvent) GetActor() string { return e.Admin }
func (e AdministratorsUpdatedEvent) GetEventType() EventType { return AdministratorsUpdatedEventType }
func (e AdministratorsUpdatedEvent) GetActor() string { return e.Admin }
func (e AccountFreezeUpdatedEvent) GetEventType() EventType { return AccountFreezeUpdatedEventType }
func (e AccountFreezeUpdatedEvent) GetActor() string { return e.Admin }
