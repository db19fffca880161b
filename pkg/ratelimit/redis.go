package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "booking_rl"

// Redis фиксированное окно в Redis, общее для всех инстансов сервиса
type Redis struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRedis создает лимитер поверх Redis
func NewRedis(rdb redis.Scripter, limit int, window time.Duration, prefix string) *Redis {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow засчитывает попытку. Ошибка Redis возвращается вызывающему: решение fail-open/fail-closed за ним.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.incr(ctx, r.prefix+":"+key)
	if err != nil {
		return false, err
	}
	return count <= int64(r.limit), nil
}

func (r *Redis) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, r.window.Milliseconds()).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: redis script: %w", err)
	}

	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("ratelimit: parse counter: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("ratelimit: unexpected script result type %T", res)
	}
}
