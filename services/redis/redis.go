package redis

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence keys expire on their own so a crashed process never leaves a user
// marked online forever. Each live connection refreshes the TTL periodically.
const presenceTTL = 90 * time.Second

// RedisClient handles Redis operations. One instance is shared process-wide;
// the subscriber bridge opens its own PubSub on top of the same client.
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}
}

// FormatPresenceKey returns the key tracking whether a user has at least one
// live socket connection on any chat-service instance.
func FormatPresenceKey(userID string) string {
	return fmt.Sprintf("presence:%s", userID)
}

// SetUserOnline registers one more live connection for the user. The key
// holds a connection count so a user with a second device stays online until
// the last connection is gone.
func (rc *RedisClient) SetUserOnline(userID string) error {
	key := FormatPresenceKey(userID)
	pipe := rc.Client.TxPipeline()
	pipe.Incr(rc.Ctx, key)
	pipe.Expire(rc.Ctx, key, presenceTTL)
	if _, err := pipe.Exec(rc.Ctx); err != nil {
		return fmt.Errorf("error setting presence for %s: %v", userID, err)
	}
	return nil
}

// RefreshUserPresence extends the TTL of the presence key. Each connection
// calls this on an interval well under presenceTTL; when a process dies the
// refreshes stop and the key ages out on its own.
func (rc *RedisClient) RefreshUserPresence(userID string) error {
	key := FormatPresenceKey(userID)
	if err := rc.Client.Expire(rc.Ctx, key, presenceTTL).Err(); err != nil {
		return fmt.Errorf("error refreshing presence for %s: %v", userID, err)
	}
	return nil
}

// SetUserOffline drops one connection from the count and deletes the key once
// no connections remain.
func (rc *RedisClient) SetUserOffline(userID string) error {
	key := FormatPresenceKey(userID)
	n, err := rc.Client.Decr(rc.Ctx, key).Result()
	if err != nil {
		return fmt.Errorf("error clearing presence for %s: %v", userID, err)
	}
	if n <= 0 {
		if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
			return fmt.Errorf("error clearing presence for %s: %v", userID, err)
		}
	}
	return nil
}

// IsUserOnline reports whether any instance currently holds a connection for
// the user. Errors count as offline, push notifications are cheap compared to
// a missed one.
func (rc *RedisClient) IsUserOnline(userID string) bool {
	key := FormatPresenceKey(userID)
	raw, err := rc.Client.Get(rc.Ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("[PRESENCE-ERROR] Error checking presence for %s: %v", userID, err)
		return false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[PRESENCE-ERROR] Unreadable presence count for %s: %q", userID, raw)
		return false
	}
	return n > 0
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
