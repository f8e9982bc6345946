package clients

import (
	"github.com/babylonchain/staking-vault-service/internal/clients/freezer"
	"github.com/babylonchain/staking-vault-service/internal/clients/minter"
	"github.com/babylonchain/staking-vault-service/internal/config"
	"github.com/babylonchain/staking-vault-service/internal/ledger"
)

type Clients struct {
	Minter  minter.MinterClientInterface
	Freezer freezer.FreezerClientInterface
}

func New(cfg *config.Config, l *ledger.Ledger) *Clients {
	return &Clients{
		Minter:  minter.NewMinterClient(l, cfg.Vault.AllowedExternalMintProgram),
		Freezer: freezer.NewFreezerClient(l, cfg.Vault.ProgramId),
	}
}
