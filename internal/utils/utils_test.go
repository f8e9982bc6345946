package utils

import (
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
)

func TestIsValidIdentity(t *testing.T) {
	valid := base58.Encode(make([]byte, 32))
	assert.True(t, IsValidIdentity(valid))
	assert.True(t, IsValidIdentity("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"))

	assert.False(t, IsValidIdentity(""))
	assert.False(t, IsValidIdentity(base58.Encode(make([]byte, 31))))
	assert.False(t, IsValidIdentity("0OIl"), "characters outside the base58 alphabet")
}

func TestDeriveAddressIsDeterministic(t *testing.T) {
	program := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

	pool := DeriveAddress(program, VaultAuthoritySeed)
	assert.Equal(t, pool, DeriveAddress(program, VaultAuthoritySeed))
	assert.True(t, IsValidIdentity(pool))

	assert.NotEqual(t, pool, DeriveAddress(program, ExternalMintAuthoritySeed))
	assert.NotEqual(t, pool, DeriveAddress(base58.Encode(make([]byte, 32)), VaultAuthoritySeed))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]int{1, 2}, 3))
}

func TestFormatUnixTimestamp(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00Z", FormatUnixTimestamp(0))
	assert.Equal(t, "2024-01-01T00:00:00Z", FormatUnixTimestamp(1704067200))
}

func TestSleepOverride(t *testing.T) {
	var slept time.Duration
	SetSleepFunc(func(d time.Duration) { slept = d })
	defer ResetSleepFunc()

	Sleep(3 * time.Second)
	assert.Equal(t, 3*time.Second, slept)
}

func TestIsValidAssetId(t *testing.T) {
	assert.True(t, IsValidAssetId("usdc"))
	assert.True(t, IsValidAssetId("staked-usdc_v2"))
	assert.True(t, IsValidAssetId("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"))
	assert.False(t, IsValidAssetId(""))
	assert.False(t, IsValidAssetId("has space"))
	assert.False(t, IsValidAssetId("base:owner"))
}
