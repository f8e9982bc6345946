package config

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	MongoScheme  = "mongodb"
	MemoryScheme = "memory"
)

type DbConfig struct {
	DbName           string `mapstructure:"db-name"`
	Address          string `mapstructure:"address"`
	DbBatchSizeLimit int64  `mapstructure:"db-batch-size-limit"`
}

func (cfg *DbConfig) Validate() error {
	if cfg.Address == "" {
		return fmt.Errorf("missing db address")
	}

	if cfg.DbName == "" {
		return fmt.Errorf("missing db name")
	}

	if cfg.DbBatchSizeLimit <= 0 {
		return fmt.Errorf("db batch size limit must be greater than 0")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}

	switch u.Scheme {
	case MemoryScheme:
		// in-process store, nothing to dial
		return nil
	case MongoScheme:
	default:
		return fmt.Errorf("unsupported db scheme: %s", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("missing host in db address")
	}

	port := u.Port()
	if port == "" {
		return fmt.Errorf("missing port in db address")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port in db address: %w", err)
	}

	if portNum < 1024 || portNum > 65535 {
		return fmt.Errorf("port number must be between 1024 and 65535 (inclusive)")
	}

	return nil
}

// IsInMemory reports whether the address selects the in-process store.
func (cfg *DbConfig) IsInMemory() bool {
	u, err := url.Parse(cfg.Address)
	return err == nil && u.Scheme == MemoryScheme
}
