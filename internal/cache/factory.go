// SPDX-License-Identifier: MIT

package cache

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/config"
)

// New builds the cache backend selected in configuration: "memory"
// (default), "redis" or "none".
func New(name string, cfg config.Config, logger zerolog.Logger) (Cache, error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return NewMemory(name, time.Minute), nil
	case "redis":
		return NewRedis(name, RedisConfig{Addr: cfg.RedisAddr}, logger)
	case "none":
		return NewNoOp(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
