package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores raw model answers by description.
type Cache interface {
	Get(ctx context.Context, description string) (string, bool, error)
	Set(ctx context.Context, description, code string) error
}

// RedisCache keys entries by a hash of the deployment name and description,
// so answers from different models never mix.
type RedisCache struct {
	Client    *redis.Client
	Namespace string
	TTL       time.Duration
}

func (c *RedisCache) key(description string) string {
	sum := sha256.Sum256([]byte(c.Namespace + "\x00" + description))
	return "hs:" + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, description string) (string, bool, error) {
	val, err := c.Client.Get(ctx, c.key(description)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, description, code string) error {
	return c.Client.Set(ctx, c.key(description), code, c.TTL).Err()
}
