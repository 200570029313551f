package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestJSONRoundTrip(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	type stats struct {
		Total int64 `json:"total"`
		OP    int64 `json:"op"`
	}

	var miss stats
	found, err := GetJSON(ctx, "k", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", stats{Total: 4, OP: 1}, time.Minute))

	var got stats
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stats{Total: 4, OP: 1}, got)
}

func TestTryLockAndUnlock(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, "lock", "a", time.Minute, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TryLock(ctx, "lock", "b", time.Minute, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	UnLock(ctx, "lock", "b")
	v, _ := GetValue(ctx, "lock")
	assert.Equal(t, "a", v)

	UnLock(ctx, "lock", "a")
	v, _ = GetValue(ctx, "lock")
	assert.Empty(t, v)
}

func TestHelpersWithoutClient(t *testing.T) {
	SetClient(nil)
	_, err := GetValue(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, DeleteKey(context.Background(), "x"), ErrUnavailable)
}

func TestBatchHelpers(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSONBatch(ctx, map[string]interface{}{
		"a": map[string]int{"total": 1},
		"c": map[string]int{"total": 3},
	}, time.Minute))

	values, err := MGetValues(ctx, "a", "b", "c")
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.JSONEq(t, `{"total":1}`, values[0])
	assert.Equal(t, "", values[1])
	assert.JSONEq(t, `{"total":3}`, values[2])
}
