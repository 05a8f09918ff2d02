package usecase

import (
	"context"
	"time"
)

// TreeCache is the slice of the cache the tree usecases need. The redis
// implementation degrades to a no-op when the server is unreachable.
type TreeCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}
