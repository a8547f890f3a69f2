package contracts

import (
	"context"
	"time"
)

type Storage interface {
	PutObject(ctx context.Context, objectName string, payload []byte, contentType string) error
	GetObjectUrlWithExpiryTime(ctx context.Context, objectName string, expiryTime time.Duration) (string, error)
}
