package types

import (
	"errors"
	"fmt"

	"github.com/babylonchain/staking-vault-service/internal/utils"
)

const (
	// MaxAdministrators bounds each administrator set.
	MaxAdministrators = 5

	MinUnbondingPeriod int64 = 1
	MaxUnbondingPeriod int64 = 365 * 24 * 60 * 60
)

var (
	ErrTooManyAdministrators  = errors.New("too many administrators")
	ErrDuplicateAdministrator = errors.New("duplicate administrator")
)

// AdministratorSet is a small bounded set of identities. Membership is a
// linear scan; the set never holds more than MaxAdministrators entries.
type AdministratorSet []string

// NewAdministratorSet validates the bound and rejects duplicate entries.
func NewAdministratorSet(members []string) (AdministratorSet, error) {
	if len(members) > MaxAdministrators {
		return nil, fmt.Errorf("%w: at most %d allowed, got %d",
			ErrTooManyAdministrators, MaxAdministrators, len(members))
	}
	set := make(AdministratorSet, 0, len(members))
	for _, m := range members {
		if set.Contains(m) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAdministrator, m)
		}
		set = append(set, m)
	}
	return set, nil
}

func (s AdministratorSet) Contains(id string) bool {
	return utils.Contains(s, id)
}

// ValidateUnbondingPeriod checks the period is within [1 second, 365 days].
func ValidateUnbondingPeriod(seconds int64) error {
	if seconds < MinUnbondingPeriod || seconds > MaxUnbondingPeriod {
		return fmt.Errorf("unbonding period must be between %d and %d seconds, got %d",
			MinUnbondingPeriod, MaxUnbondingPeriod, seconds)
	}
	return nil
}
