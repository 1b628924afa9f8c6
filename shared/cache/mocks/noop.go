package mocks

import (
	"context"
	"errors"

	"github.com/lphuocloc/Oasis-Go-BE/shared/cache"
)

var errCacheMiss = errors.New("cache miss")

type noopCache struct {
}

// Save implements cache.RedisCache.
func (n *noopCache) Save(_ context.Context, _ string, _ any, _ int) error {
	return nil
}

// Get implements cache.RedisCache. It always misses.
func (n *noopCache) Get(_ context.Context, _ string, _ any) error {
	return errCacheMiss
}

// Delete implements cache.RedisCache.
func (n *noopCache) Delete(_ context.Context, _ string) error {
	return nil
}

// Clear implements cache.RedisCache.
func (n *noopCache) Clear(_ context.Context, _ string) error {
	return nil
}

func NewNoop() cache.RedisCache {
	return &noopCache{}
}
