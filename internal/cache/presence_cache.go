package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// PresenceCache tracks which users hold at least one open presence
// connection. Each connection is a member of a per-user set; a user is online
// while that set is non-empty.
type PresenceCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewPresenceCache(client *redisv9.Client, ttl time.Duration) *PresenceCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PresenceCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *PresenceCache) MarkOnline(ctx context.Context, userID uint, connID string) error {
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, c.connectionsKey(userID), connID)
	pipe.Expire(ctx, c.connectionsKey(userID), c.ttl)
	pipe.SAdd(ctx, c.onlineKey(), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis mark online failed: %w", err)
	}
	return nil
}

// Refresh extends the lifetime of a live connection. Holders of an open
// connection call it at an interval below the TTL.
func (c *PresenceCache) Refresh(ctx context.Context, userID uint, connID string) error {
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, c.connectionsKey(userID), connID)
	pipe.Expire(ctx, c.connectionsKey(userID), c.ttl)
	pipe.SAdd(ctx, c.onlineKey(), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis refresh presence failed: %w", err)
	}
	return nil
}

// TTL is how long a connection stays registered without a Refresh.
func (c *PresenceCache) TTL() time.Duration {
	return c.ttl
}

// MarkOffline drops one connection and removes the user from the online set
// once no connection is left.
func (c *PresenceCache) MarkOffline(ctx context.Context, userID uint, connID string) error {
	key := c.connectionsKey(userID)
	if err := c.client.SRem(ctx, key, connID).Err(); err != nil {
		return fmt.Errorf("redis remove connection failed: %w", err)
	}
	remaining, err := c.client.SCard(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis count connections failed: %w", err)
	}
	if remaining > 0 {
		return nil
	}
	if err := c.client.SRem(ctx, c.onlineKey(), userID).Err(); err != nil {
		return fmt.Errorf("redis mark offline failed: %w", err)
	}
	return nil
}

func (c *PresenceCache) IsOnline(ctx context.Context, userID uint) (bool, error) {
	n, err := c.client.SCard(ctx, c.connectionsKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check presence failed: %w", err)
	}
	return n > 0, nil
}

// OnlineUsers returns online user ids in ascending order. Users whose
// connection set expired are pruned on the way.
func (c *PresenceCache) OnlineUsers(ctx context.Context) ([]uint, error) {
	members, err := c.client.SMembers(ctx, c.onlineKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list online users failed: %w", err)
	}

	users := make([]uint, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		online, err := c.IsOnline(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		if !online {
			_ = c.client.SRem(ctx, c.onlineKey(), member).Err()
			continue
		}
		users = append(users, uint(id))
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users, nil
}

func (c *PresenceCache) onlineKey() string {
	return "presence:online"
}

func (c *PresenceCache) connectionsKey(userID uint) string {
	return fmt.Sprintf("presence:user:%d:conns", userID)
}
