package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned by helpers when no client has been initialised.
var ErrUnavailable = errors.New("redis client not initialised")

// SetWithExpiration sets key to value with a ttl.
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrUnavailable
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue returns "" with a nil error for a missing key.
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", ErrUnavailable
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetJSON stores value encoded as JSON.
func SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return SetWithExpiration(ctx, key, b, expiration)
}

// GetJSON decodes the JSON stored at key into dest. found is false on a miss.
func GetJSON(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	raw, err := GetValue(ctx, key)
	if err != nil || raw == "" {
		return false, err
	}
	if err = json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// TryLock takes a SETNX lock, retrying retryTimes times (-1 retries forever).
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	if Rdb == nil {
		return false, ErrUnavailable
	}
	for i := 0; ; i++ {
		success, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		if retryTimes != -1 && i >= retryTimes {
			return false, nil
		}
		time.Sleep(time.Millisecond * 200)
	}
}

// UnLock releases the lock only when it is still held with value.
func UnLock(ctx context.Context, key string, value interface{}) {
	if Rdb == nil {
		return
	}
	Rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

// DeleteKey removes keys.
func DeleteKey(ctx context.Context, keys ...string) error {
	if Rdb == nil {
		return ErrUnavailable
	}
	if len(keys) == 0 {
		return nil
	}
	return Rdb.Del(ctx, keys...).Err()
}

// MGetValues returns one entry per key, "" for a miss.
func MGetValues(ctx context.Context, keys ...string) ([]string, error) {
	if Rdb == nil {
		return nil, ErrUnavailable
	}
	out := make([]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	values, err := Rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out, nil
}

// SetJSONBatch writes every entry as JSON in one pipeline.
func SetJSONBatch(ctx context.Context, entries map[string]interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrUnavailable
	}
	if len(entries) == 0 {
		return nil
	}
	_, err := Rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			b, err := json.Marshal(value)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key, b, expiration)
		}
		return nil
	})
	return err
}
