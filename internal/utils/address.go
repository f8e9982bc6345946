package utils

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

const (
	VaultAuthoritySeed         = "vault_authority"
	ExternalMintAuthoritySeed  = "external_mint_authority"
	FreezeAuthoritySeed        = "freeze_authority"
	derivedAddressDomainMarker = "DerivedAddress"
)

// DeriveAddress deterministically derives an identity owned by programId.
// The same program id and seeds always produce the same address, and no key
// pair is involved, so only code holding the program id can present it.
func DeriveAddress(programId string, seeds ...string) string {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write([]byte(seed))
	}
	h.Write([]byte(programId))
	h.Write([]byte(derivedAddressDomainMarker))
	return base58.Encode(h.Sum(nil))
}
