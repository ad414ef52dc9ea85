package storage

import (
	"context"
	"fmt"

	"github.com/inkspire/inkspire-client/config"
	"github.com/inkspire/inkspire-client/pkg/metrics"
)

// Keys written by the session store
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is the durable string key/value store behind the session.
// Get reports ok=false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// New opens the store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageDriverFile, "":
		return NewFileStore(cfg.StateDir)
	case config.StorageDriverRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.Profile)
	case config.StorageDriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func observe(driver, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StorageOperations.WithLabelValues(driver, operation, status).Inc()
}
