package redis

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// presenceTestClient connects to the Redis named by REDIS_URL (default
// localhost). Presence semantics need a real key space, so without a
// reachable Redis these tests skip.
func presenceTestClient(t *testing.T) *RedisClient {
	t.Helper()

	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	rc, err := InitRedis(addr, 0)
	if err != nil {
		t.Skipf("Redis unavailable, skipping presence tests: %v", err)
	}
	t.Cleanup(func() { CloseRedis(rc) })
	return rc
}

func TestPresenceCountsConnections(t *testing.T) {
	rc := presenceTestClient(t)
	userID := uuid.NewString()
	t.Cleanup(func() { rc.CleanupKeys([]string{FormatPresenceKey(userID)}) })

	assert.False(t, rc.IsUserOnline(userID))

	// Two devices connect.
	require.NoError(t, rc.SetUserOnline(userID))
	require.NoError(t, rc.SetUserOnline(userID))
	assert.True(t, rc.IsUserOnline(userID))

	// One device disconnects, the other keeps the user online.
	require.NoError(t, rc.SetUserOffline(userID))
	assert.True(t, rc.IsUserOnline(userID))

	require.NoError(t, rc.SetUserOffline(userID))
	assert.False(t, rc.IsUserOnline(userID))
}

func TestPresenceRefreshExtendsTTL(t *testing.T) {
	rc := presenceTestClient(t)
	userID := uuid.NewString()
	key := FormatPresenceKey(userID)
	t.Cleanup(func() { rc.CleanupKeys([]string{key}) })

	require.NoError(t, rc.SetUserOnline(userID))
	require.NoError(t, rc.RefreshUserPresence(userID))

	ttl, err := rc.Client.TTL(rc.Ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), 0.0, "presence key must keep a TTL after refresh")
	assert.LessOrEqual(t, ttl, presenceTTL)
}

func TestPresenceOfflineIdempotent(t *testing.T) {
	rc := presenceTestClient(t)
	userID := uuid.NewString()
	t.Cleanup(func() { rc.CleanupKeys([]string{FormatPresenceKey(userID)}) })

	require.NoError(t, rc.SetUserOnline(userID))
	require.NoError(t, rc.SetUserOffline(userID))
	// A stray extra decrement must not resurrect or corrupt the key.
	require.NoError(t, rc.SetUserOffline(userID))
	assert.False(t, rc.IsUserOnline(userID))
}
