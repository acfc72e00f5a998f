package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchClient defines the interface for fetching ranked products from the
// assortment search API. Implementations make a single attempt; re-running a
// failed analysis is a user decision, never an automatic retry.
type SearchClient interface {
	Search(ctx context.Context, shopID string, env Environment, query string, size int) ([]Product, error)
}
