// Package memdb is an in-process DBClient. It backs the `memory://` database
// address and the service tests. Transactions are serialized by a single lock
// and roll back by restoring a snapshot taken when they start.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/babylonchain/staking-vault-service/internal/db"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
)

type txKey struct{}

type state struct {
	vaultConfig   *model.VaultConfigDocument
	lastUpdate    uint64
	accounts      map[string]model.AccountDocument
	supplies      map[string]model.AssetSupplyDocument
	tickets       map[string]model.UnbondingTicketDocument
	rewards       map[uint32]model.RewardPublicationDocument
	unprocessable []model.UnprocessableMessageDocument
}

func newState() *state {
	return &state{
		accounts: make(map[string]model.AccountDocument),
		supplies: make(map[string]model.AssetSupplyDocument),
		tickets:  make(map[string]model.UnbondingTicketDocument),
		rewards:  make(map[uint32]model.RewardPublicationDocument),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.vaultConfig = copyVaultConfig(s.vaultConfig)
	c.lastUpdate = s.lastUpdate
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.supplies {
		c.supplies[k] = v
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	for k, v := range s.rewards {
		c.rewards[k] = v
	}
	c.unprocessable = append(c.unprocessable, s.unprocessable...)
	return c
}

type Database struct {
	mu      sync.Mutex
	st      *state
	pingErr error
}

var _ db.DBClient = (*Database)(nil)

func New() *Database {
	return &Database{st: newState()}
}

// SetPingError makes Ping report err, nil restores a healthy store.
func (d *Database) SetPingError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pingErr = err
}

func (d *Database) Ping(ctx context.Context) error {
	return d.access(ctx, func(*state) error {
		return d.pingErr
	})
}

func (d *Database) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if d.inTx(ctx) {
		return fn(ctx)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := d.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, d)); err != nil {
		d.st = snapshot
		return err
	}
	return nil
}

func (d *Database) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Database)
	return owner == d
}

// access runs fn against the current state, taking the lock unless ctx
// already belongs to one of this store's transactions.
func (d *Database) access(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.inTx(ctx) {
		return fn(d.st)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.st)
}

func (d *Database) InsertVaultConfig(ctx context.Context, cfg *model.VaultConfigDocument) error {
	return d.access(ctx, func(st *state) error {
		if st.vaultConfig != nil {
			return &db.DuplicateKeyError{
				Key:     model.VaultConfigId,
				Message: "vault config already exists",
			}
		}
		cfg.Id = model.VaultConfigId
		st.vaultConfig = copyVaultConfig(cfg)
		return nil
	})
}

func (d *Database) FindVaultConfig(ctx context.Context) (*model.VaultConfigDocument, error) {
	var found *model.VaultConfigDocument
	err := d.access(ctx, func(st *state) error {
		if st.vaultConfig == nil {
			return &db.NotFoundError{
				Key:     model.VaultConfigId,
				Message: "vault config not found",
			}
		}
		found = copyVaultConfig(st.vaultConfig)
		return nil
	})
	return found, err
}

func (d *Database) UpdateVaultConfig(ctx context.Context, cfg *model.VaultConfigDocument) error {
	return d.access(ctx, func(st *state) error {
		if st.vaultConfig == nil {
			return &db.NotFoundError{
				Key:     model.VaultConfigId,
				Message: "vault config not found during update",
			}
		}
		cfg.Id = model.VaultConfigId
		st.vaultConfig = copyVaultConfig(cfg)
		return nil
	})
}

func (d *Database) IncrementLastUpdate(ctx context.Context) (uint64, error) {
	var value uint64
	err := d.access(ctx, func(st *state) error {
		st.lastUpdate++
		value = st.lastUpdate
		return nil
	})
	return value, err
}

func (d *Database) FindLastUpdate(ctx context.Context) (uint64, error) {
	var value uint64
	err := d.access(ctx, func(st *state) error {
		value = st.lastUpdate
		return nil
	})
	return value, err
}

func (d *Database) FindAccount(ctx context.Context, assetId, owner string) (*model.AccountDocument, error) {
	id := model.BuildAccountId(assetId, owner)
	var found model.AccountDocument
	err := d.access(ctx, func(st *state) error {
		account, ok := st.accounts[id]
		if !ok {
			return &db.NotFoundError{
				Key:     id,
				Message: "account not found",
			}
		}
		found = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (d *Database) SaveAccount(ctx context.Context, account *model.AccountDocument) error {
	return d.access(ctx, func(st *state) error {
		account.Id = model.BuildAccountId(account.AssetId, account.Owner)
		st.accounts[account.Id] = *account
		return nil
	})
}

func (d *Database) FindAssetSupply(ctx context.Context, assetId string) (*model.AssetSupplyDocument, error) {
	var found model.AssetSupplyDocument
	err := d.access(ctx, func(st *state) error {
		supply, ok := st.supplies[assetId]
		if !ok {
			return &db.NotFoundError{
				Key:     assetId,
				Message: "asset supply not found",
			}
		}
		found = supply
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (d *Database) SaveAssetSupply(ctx context.Context, supply *model.AssetSupplyDocument) error {
	return d.access(ctx, func(st *state) error {
		st.supplies[supply.AssetId] = *supply
		return nil
	})
}

func (d *Database) FindUnbondingTicket(ctx context.Context, owner string) (*model.UnbondingTicketDocument, error) {
	var found model.UnbondingTicketDocument
	err := d.access(ctx, func(st *state) error {
		ticket, ok := st.tickets[owner]
		if !ok {
			return &db.NotFoundError{
				Key:     owner,
				Message: "unbonding ticket not found",
			}
		}
		found = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (d *Database) SaveUnbondingTicket(ctx context.Context, ticket *model.UnbondingTicketDocument) error {
	return d.access(ctx, func(st *state) error {
		st.tickets[ticket.Owner] = *ticket
		return nil
	})
}

func (d *Database) DeleteUnbondingTicket(ctx context.Context, owner string) error {
	return d.access(ctx, func(st *state) error {
		if _, ok := st.tickets[owner]; !ok {
			return &db.NotFoundError{
				Key:     owner,
				Message: "unbonding ticket not found during delete",
			}
		}
		delete(st.tickets, owner)
		return nil
	})
}

func (d *Database) InsertRewardPublication(ctx context.Context, record *model.RewardPublicationDocument) error {
	return d.access(ctx, func(st *state) error {
		if _, ok := st.rewards[record.Id]; ok {
			return &db.DuplicateKeyError{
				Key:     fmt.Sprint(record.Id),
				Message: "reward publication already exists",
			}
		}
		st.rewards[record.Id] = *record
		return nil
	})
}

func (d *Database) FindRewardPublication(ctx context.Context, id uint32) (*model.RewardPublicationDocument, error) {
	var found model.RewardPublicationDocument
	err := d.access(ctx, func(st *state) error {
		record, ok := st.rewards[id]
		if !ok {
			return &db.NotFoundError{
				Key:     fmt.Sprint(id),
				Message: "reward publication not found",
			}
		}
		found = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (d *Database) SaveUnprocessableMessage(ctx context.Context, messageBody, receipt, queueName string) error {
	return d.access(ctx, func(st *state) error {
		st.unprocessable = append(
			st.unprocessable, *model.NewUnprocessableMessageDocument(messageBody, receipt, queueName),
		)
		return nil
	})
}

func (d *Database) FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error) {
	var found []model.UnprocessableMessageDocument
	err := d.access(ctx, func(st *state) error {
		found = append(found, st.unprocessable...)
		return nil
	})
	return found, err
}

func (d *Database) DeleteUnprocessableMessage(ctx context.Context, receipt interface{}) error {
	return d.access(ctx, func(st *state) error {
		for i, msg := range st.unprocessable {
			if msg.Receipt == receipt {
				st.unprocessable = append(st.unprocessable[:i], st.unprocessable[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Accounts returns every stored account sorted by id. Used by tests to
// compare full ledger snapshots.
func (d *Database) Accounts(ctx context.Context) ([]model.AccountDocument, error) {
	var accounts []model.AccountDocument
	err := d.access(ctx, func(st *state) error {
		for _, account := range st.accounts {
			accounts = append(accounts, account)
		}
		return nil
	})
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Id < accounts[j].Id
	})
	return accounts, err
}

func copyVaultConfig(cfg *model.VaultConfigDocument) *model.VaultConfigDocument {
	if cfg == nil {
		return nil
	}
	c := *cfg
	c.FreezeAdministrators = append([]string(nil), cfg.FreezeAdministrators...)
	c.RewardsAdministrators = append([]string(nil), cfg.RewardsAdministrators...)
	return &c
}
