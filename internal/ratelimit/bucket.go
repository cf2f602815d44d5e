package ratelimit

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Decision 一次准入判定的结果
type Decision struct {
	Allowed bool
	// Remaining 准入后两个桶剩余令牌数的较小值（向下取整）
	Remaining int64
	// RetryAfterSeconds 拒绝时距最紧缺的桶下一次产出令牌的秒数（向下取整）
	RetryAfterSeconds int64
}

// tokenBucket 单个连续补充的令牌桶。补充是贪心式的：按流逝时间
// 按比例补足小数令牌，而不是整点重置。
type tokenBucket struct {
	capacity     float64
	refillPerSec float64
	tokens       float64
	lastRefill   time.Time
}

func (b *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.refillPerSec)
	b.lastRefill = now
}

// secondsUntilToken 距凑满一个完整令牌还需要的秒数
func (b *tokenBucket) secondsUntilToken() float64 {
	if b.tokens >= 1 {
		return 0
	}
	return (1 - b.tokens) / b.refillPerSec
}

// Bucket 一个客户端 key 对应的双桶状态：分钟桶 + 小时桶。
// 同一 key 的并发请求共享同一个 Bucket，两个计数器的扣减
// 必须在同一个临界区内完成（要么都扣，要么都不扣）。
type Bucket struct {
	mu         sync.Mutex
	minute     tokenBucket
	hour       tokenBucket
	lastAccess int64 // unix nano，原子读写，供空闲回收使用
}

func newBucket(perMinute, perHour int, now time.Time) *Bucket {
	return &Bucket{
		minute: tokenBucket{
			capacity:     float64(perMinute),
			refillPerSec: float64(perMinute) / 60,
			tokens:       float64(perMinute),
			lastRefill:   now,
		},
		hour: tokenBucket{
			capacity:     float64(perHour),
			refillPerSec: float64(perHour) / 3600,
			tokens:       float64(perHour),
			lastRefill:   now,
		},
		lastAccess: now.UnixNano(),
	}
}

// TryConsume 尝试从两个桶各消费一个令牌。任一桶不足则整体拒绝，
// 且不扣减任何一侧。
func (b *Bucket) TryConsume(now time.Time) Decision {
	atomic.StoreInt64(&b.lastAccess, now.UnixNano())

	b.mu.Lock()
	defer b.mu.Unlock()

	b.minute.refill(now)
	b.hour.refill(now)

	if b.minute.tokens >= 1 && b.hour.tokens >= 1 {
		b.minute.tokens--
		b.hour.tokens--
		return Decision{
			Allowed:   true,
			Remaining: int64(math.Min(b.minute.tokens, b.hour.tokens)),
		}
	}

	// 等待时间取更紧缺一侧
	wait := math.Max(b.minute.secondsUntilToken(), b.hour.secondsUntilToken())
	return Decision{
		Allowed:           false,
		RetryAfterSeconds: int64(wait),
	}
}

// LastAccess 最近一次访问时间
func (b *Bucket) LastAccess() time.Time {
	return time.Unix(0, atomic.LoadInt64(&b.lastAccess))
}
