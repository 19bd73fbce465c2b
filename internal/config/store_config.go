package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	storeBackendKey  = "store_backend"
	storePathKey     = "store_path"
	storeKeyKey      = "store_key"
	redisAddrKey     = "redis_addr"
	redisPasswordKey = "redis_password"
	redisDBKey       = "redis_db"
	redisPrefixKey   = "redis_prefix"
)

// Session store backends
const (
	StoreBackendFile   = "file"
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type StoreConfig interface {
	GetStoreBackend() string
	GetStorePath() string
	GetStoreKey() ([]byte, error)
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Store struct {
	v *viper.Viper
}

var _ StoreConfig = Store{}

func (s Store) GetStoreBackend() string {
	switch backend := strings.ToLower(s.v.GetString(storeBackendKey)); backend {
	case StoreBackendMemory, StoreBackendRedis:
		return backend
	default:
		return StoreBackendFile
	}
}

func (s Store) GetStorePath() string {
	return s.v.GetString(storePathKey)
}

// GetStoreKey returns the 32-byte session file key, or nil when no key is configured.
func (s Store) GetStoreKey() ([]byte, error) {
	raw := strings.TrimSpace(s.v.GetString(storeKeyKey))
	if raw == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("[config GetStoreKey] %s is not hex: %w", storeKeyKey, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("[config GetStoreKey] %s must be 32 bytes, got %d", storeKeyKey, len(key))
	}
	return key, nil
}

func (s Store) GetRedisAddr() string {
	return s.v.GetString(redisAddrKey)
}

func (s Store) GetRedisPassword() string {
	return s.v.GetString(redisPasswordKey)
}

func (s Store) GetRedisDB() int {
	return s.v.GetInt(redisDBKey)
}

func (s Store) GetRedisPrefix() string {
	return s.v.GetString(redisPrefixKey)
}
