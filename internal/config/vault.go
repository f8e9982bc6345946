package config

import (
	"fmt"

	"github.com/babylonchain/staking-vault-service/internal/utils"
)

// VaultConfig carries the identities the vault is deployed with.
type VaultConfig struct {
	// ProgramId is the identity every vault-owned address is derived from.
	ProgramId string `mapstructure:"program-id"`
	// UpgradeAuthority is the only caller allowed to run administrative operations.
	UpgradeAuthority string `mapstructure:"upgrade-authority"`
	// AllowedExternalMintProgram is the program whose credential the minter accepts.
	// Defaults to ProgramId when empty.
	AllowedExternalMintProgram string `mapstructure:"allowed-external-mint-program"`
}

func (cfg *VaultConfig) Validate() error {
	if !utils.IsValidIdentity(cfg.ProgramId) {
		return fmt.Errorf("invalid vault program id: %q", cfg.ProgramId)
	}

	if !utils.IsValidIdentity(cfg.UpgradeAuthority) {
		return fmt.Errorf("invalid vault upgrade authority: %q", cfg.UpgradeAuthority)
	}

	if cfg.AllowedExternalMintProgram == "" {
		cfg.AllowedExternalMintProgram = cfg.ProgramId
	} else if !utils.IsValidIdentity(cfg.AllowedExternalMintProgram) {
		return fmt.Errorf("invalid allowed external mint program: %q", cfg.AllowedExternalMintProgram)
	}

	return nil
}
