package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestRedis connects to STREAKS_TEST_REDIS_ADDR or skips the test.
func openTestRedis(t *testing.T) *RedisKV {
	t.Helper()
	addr := os.Getenv("STREAKS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STREAKS_TEST_REDIS_ADDR not set")
	}
	kv, err := OpenRedis(context.Background(), RedisOptions{
		Addr:   addr,
		Prefix: "streaks-test:" + uuid.NewString() + ":",
	})
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestRedisKV_RoundTrip(t *testing.T) {
	kv := openTestRedis(t)
	ctx := context.Background()

	_, found, err := kv.Get(ctx, KeyHabits)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, KeyHabits, []byte(`[]`)))
	v, found, err := kv.Get(ctx, KeyHabits)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(v))

	require.NoError(t, kv.Delete(ctx, KeyHabits))
	_, found, err = kv.Get(ctx, KeyHabits)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRedisKV_DefaultPrefix(t *testing.T) {
	kv := NewRedisKV(nil, "")
	assert.Equal(t, DefaultRedisPrefix+"habits", kv.key("habits"))
}
