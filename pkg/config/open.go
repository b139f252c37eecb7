package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/graphlive/pkg/cache"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/layout"
	"github.com/matzehuels/graphlive/pkg/storage"
)

// DefaultCacheDir returns ~/.cache/graphlive.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "graphlive"), nil
}

// OpenCache builds the configured cache backend.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	case "file":
		dir := c.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Backend)
	}
}

// Keyer returns the key scheme, scoped when Scope is set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Scope)
}

// OpenStore builds the configured scene store.
func (s StorageConfig) OpenStore(ctx context.Context) (storage.Store, error) {
	switch s.Backend {
	case "file":
		return storage.NewFileStore(s.Dir)
	case "mongo":
		return storage.NewMongoStore(ctx, s.MongoURI, s.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "storage.backend: unknown backend %q", s.Backend)
	}
}

// Algorithm resolves name with the configured canvas. When c is not a null
// cache the algorithm is wrapped in a layout cache.
func (l LayoutConfig) Algorithm(name string, c cache.Cache, cc CacheConfig) (layout.Algorithm, error) {
	alg, err := layout.New(name, l.Params())
	if err != nil {
		return nil, err
	}
	if c == nil || name == layout.NameNone {
		return alg, nil
	}
	if _, ok := c.(cache.NullCache); ok {
		return alg, nil
	}
	return layout.NewCached(alg, c, cc.Keyer(), cc.TTL), nil
}
