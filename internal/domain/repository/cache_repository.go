package repository

import (
	"context"
	"time"
)

// CacheRepository fronts hot reads. A nil, nil return means cache miss.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
