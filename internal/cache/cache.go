// Package cache stores rendered simulation responses so repeated requests
// for the same loan on the same day skip the simulation.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"go.uber.org/zap"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl. A zero ttl keeps the value until evicted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Config selects and tunes a cache backend.
type Config struct {
	Backend  string `yaml:"backend"` // none, memory, redis
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
	Prefix   string `yaml:"prefix"`
	MaxItems int    `yaml:"maxItems"`
}

// DefaultTTL applies when Config.TTL is empty.
const DefaultTTL = 24 * time.Hour

// TTLDuration parses Config.TTL.
func (c Config) TTLDuration() (time.Duration, error) {
	if strings.TrimSpace(c.TTL) == "" {
		return DefaultTTL, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.TTL))
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("cache ttl must not be negative, got %s", c.TTL)
	}
	return d, nil
}

// New builds the backend named in cfg. The "none" backend returns a nil
// Cache and no error.
func New(logger *zap.Logger, cfg Config) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = constants.DefaultCacheKeyPrefix
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", constants.CacheBackendNone:
		logger.Debug("response cache disabled", zap.String("op", "cache.New"))
		return nil, nil
	case constants.CacheBackendMemory:
		logger.Info("using in-memory response cache",
			zap.String("op", "cache.New"),
			zap.Int("maxItems", cfg.MaxItems),
		)
		return NewMemory(cfg.MaxItems), nil
	case constants.CacheBackendRedis:
		if cfg.Address == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		logger.Info("using redis response cache",
			zap.String("op", "cache.New"),
			zap.String("address", cfg.Address),
			zap.Int("db", cfg.DB),
		)
		return NewRedis(cfg.Address, cfg.Password, cfg.DB, prefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
