package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string // FileCache root
	Redis   RedisConfig
}

// Open returns the backend named by cfg.Backend. An empty name selects the
// file cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: directory is required")
		}
		return NewFileCache(cfg.Dir)
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (must be one of: file, none, redis)", cfg.Backend)
	}
}
