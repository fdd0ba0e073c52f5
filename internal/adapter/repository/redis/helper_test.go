package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestRedisClient starts an in-process server that lives for the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// expiringClaimClient loses the SetNX race a fixed number of times while
// leaving no value behind, as when a claim expires between SETNX and GET.
type expiringClaimClient struct {
	redislib.Cmdable
	lostRaces int
}

func (c *expiringClaimClient) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redislib.BoolCmd {
	if c.lostRaces > 0 {
		c.lostRaces--
		return redislib.NewBoolResult(false, nil)
	}
	return c.Cmdable.SetNX(ctx, key, value, ttl)
}
