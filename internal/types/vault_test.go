package types

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdministratorSet(t *testing.T) {
	set, err := NewAdministratorSet([]string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.True(t, set.Contains("e"))
	assert.False(t, set.Contains("f"))

	_, err = NewAdministratorSet([]string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, ErrTooManyAdministrators)

	_, err = NewAdministratorSet([]string{"a", "a"})
	assert.ErrorIs(t, err, ErrDuplicateAdministrator)

	empty, err := NewAdministratorSet(nil)
	require.NoError(t, err)
	assert.False(t, empty.Contains(""))
}

func TestValidateUnbondingPeriod(t *testing.T) {
	assert.NoError(t, ValidateUnbondingPeriod(MinUnbondingPeriod))
	assert.NoError(t, ValidateUnbondingPeriod(MaxUnbondingPeriod))
	assert.Error(t, ValidateUnbondingPeriod(0))
	assert.Error(t, ValidateUnbondingPeriod(-5))
	assert.Error(t, ValidateUnbondingPeriod(MaxUnbondingPeriod+1))
}

func TestErrorDefaultsAndCodes(t *testing.T) {
	err := NewError(0, "", errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, InternalServiceError, err.ErrorCode)

	var wrapped error = NewErrorWithMsg(http.StatusForbidden, ProtocolPaused, "paused")
	assert.True(t, IsErrorCode(wrapped, ProtocolPaused))
	assert.False(t, IsErrorCode(wrapped, Unauthorized))
	assert.False(t, IsErrorCode(errors.New("plain"), ProtocolPaused))
}
