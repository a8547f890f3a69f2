package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Ping(ctx context.Context) error
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key string, expected interface{}) (bool, error)
}
