package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// slidingWindowScript 清理窗口外成员、计数、未超限时记入本次请求，整体原子执行
// KEYS[1] 限流键；ARGV: 窗口起点(ms) 当前时间(ms) 上限 成员 过期(ms)
var slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local count = redis.call('ZCARD', KEYS[1])
if count >= tonumber(ARGV[3]) then
  return {0, count}
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {1, count + 1}
`)

// RateLimiter 基于有序集合的滑动窗口限流器，被拒绝的请求不计入窗口
type RateLimiter struct {
	client *Client
	now    func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// Allow 判断 key 在 window 内是否还有余量，有则占用一次
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	now := l.now().UnixMilli()
	// 同一毫秒内的请求也要是不同成员
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	res, err := slidingWindowScript.Run(ctx, l.client.rdb, []string{key},
		now-window.Milliseconds(), now, limit, member, (2 * window).Milliseconds(),
	).Int64Slice()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("sliding window %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, fmt.Errorf("sliding window %s: unexpected reply %v", key, res)
	}

	allowed := res[0] == 1
	span.SetAttributes(
		attribute.Int64("ratelimit.current_count", res[1]),
		attribute.Bool("ratelimit.allowed", allowed),
	)
	return allowed, nil
}
