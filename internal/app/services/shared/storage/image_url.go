package storage

import (
	"context"
	"nursecare-service/internal/app/contracts"
	"strings"
	"time"
)

const imageURLExpiry = 24 * time.Hour

// ResolveImageURL turns a stored object key into a presigned link. Values that
// are already absolute URLs, and empty values, are returned as is.
func ResolveImageURL(ctx context.Context, store contracts.Storage, image string) (string, error) {
	if image == "" || store == nil || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image, nil
	}
	return store.GetObjectUrlWithExpiryTime(ctx, image, imageURLExpiry)
}
