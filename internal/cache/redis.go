package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"buildcost/internal/logger"
)

const (
	keyPrefix = "buildcost:snapshot:"
	genPrefix = "buildcost:snapshot-gen:"
)

// setIfCurrent writes the snapshot only while the generation counter still
// holds the value the caller read before loading. A missing counter is 0.
var setIfCurrent = redis.NewScript(`
local gen = redis.call("GET", KEYS[1]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// Redis stores JSON-encoded snapshots under buildcost:snapshot:<user id>
// and the invalidation counter under buildcost:snapshot-gen:<user id>.
type Redis struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewRedisClient parses url (with or without the redis:// scheme) and
// checks the server answers within five seconds.
func NewRedisClient(url string) (*redis.Client, error) {
	if !strings.Contains(url, "://") {
		url = "redis://" + url
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, log: logger.Named("cache")}
}

func key(userID string) string {
	return keyPrefix + userID
}

func genKey(userID string) string {
	return genPrefix + userID
}

func (c *Redis) Get(ctx context.Context, userID string) (*Snapshot, bool) {
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnw("snapshot cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.log.Warnw("discarding undecodable snapshot", "user_id", userID, "error", err)
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return &snap, true
}

func (c *Redis) Generation(ctx context.Context, userID string) uint64 {
	gen, err := c.client.Get(ctx, genKey(userID)).Uint64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnw("snapshot generation read failed", "user_id", userID, "error", err)
		}
		return 0
	}
	return gen
}

func (c *Redis) Set(ctx context.Context, userID string, gen uint64, snap *Snapshot, ttl time.Duration) {
	if ttl <= 0 || snap == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		c.log.Warnw("snapshot encode failed", "user_id", userID, "error", err)
		return
	}
	err = setIfCurrent.Run(ctx, c.client,
		[]string{genKey(userID), key(userID)},
		strconv.FormatUint(gen, 10), data, ttl.Milliseconds(),
	).Err()
	if err != nil {
		c.log.Warnw("snapshot cache write failed", "user_id", userID, "error", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context, userID string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(userID))
		pipe.Del(ctx, key(userID))
		return nil
	})
	if err != nil {
		c.log.Warnw("snapshot cache invalidate failed", "user_id", userID, "error", err)
	}
}
