// Package tags forwards entitlement tags to the push-notification layer.
package tags

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/novaplan/premium/internal/premium/domain"
)

// RedisTagService stores push tags in a Redis hash the notification worker
// reads from. Keys are namespaced per device: tags:device:{device_id}.
type RedisTagService struct {
	client   *redis.Client
	deviceID string
}

// NewRedisTagService creates a tag service scoped to one device.
func NewRedisTagService(client *redis.Client, deviceID string) *RedisTagService {
	return &RedisTagService{client: client, deviceID: deviceID}
}

func (s *RedisTagService) key() string {
	return fmt.Sprintf("tags:device:%s", s.deviceID)
}

// SetTags writes the given tags into the device's tag hash. Re-writing the
// same tag value is a no-op at the hash level, so the call is idempotent.
func (s *RedisTagService) SetTags(ctx context.Context, tags map[string]bool) error {
	if len(tags) == 0 {
		return nil
	}
	fields := make([]any, 0, len(tags)*2)
	for name, value := range tags {
		fields = append(fields, name, fmt.Sprintf("%t", value))
	}
	return s.client.HSet(ctx, s.key(), fields...).Err()
}

// Tags reads the device's current tag hash.
func (s *RedisTagService) Tags(ctx context.Context) (map[string]string, error) {
	return s.client.HGetAll(ctx, s.key()).Result()
}

var _ domain.TagService = (*RedisTagService)(nil)
