package testutils

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"github.com/babylonchain/staking-vault-service/internal/config"
)

// Identity returns a fixed, valid identity built from a single repeated byte.
func Identity(b byte) string {
	return base58.Encode(bytes.Repeat([]byte{b}, 32))
}

// RandomIdentity returns a valid identity drawn from r.
func RandomIdentity(r *rand.Rand) string {
	raw := make([]byte, 32)
	r.Read(raw)
	return base58.Encode(raw)
}

// RandomAmount returns an amount in [1, max].
func RandomAmount(r *rand.Rand, max uint64) uint64 {
	return uint64(r.Int63n(int64(max))) + 1
}

// TestConfig returns a valid configuration backed by the in-memory store.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:                "127.0.0.1",
			Port:                8090,
			AllowedOrigins:      []string{"*"},
			LogLevel:            "error",
			MaxContentLength:    4096,
			HealthCheckInterval: 2,
		},
		Db: config.DbConfig{
			DbName:           "staking-vault-test",
			Address:          "memory://",
			DbBatchSizeLimit: 100,
		},
		Queue: config.QueueConfig{
			QueueUser:              "user",
			QueuePassword:          "password",
			Url:                    "localhost:5672",
			QueueProcessingTimeout: 5 * time.Second,
			MsgMaxRetryAttempts:    3,
		},
		Metrics: config.DefaultMetricsConfig(),
		Vault: config.VaultConfig{
			ProgramId:        Identity(0xA0),
			UpgradeAuthority: Identity(0xA1),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}
