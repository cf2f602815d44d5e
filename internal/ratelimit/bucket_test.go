package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinuteLimitRejectsSixtyFirst(t *testing.T) {
	now := time.Unix(1700000000, 0)
	b := newBucket(60, 1000, now)

	var prev int64 = 61
	for i := 0; i < 60; i++ {
		d := b.TryConsume(now)
		require.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Less(t, d.Remaining, prev, "remaining must strictly decrease")
		assert.GreaterOrEqual(t, d.Remaining, int64(0))
		prev = d.Remaining
	}

	d := b.TryConsume(now)
	assert.False(t, d.Allowed, "61st request within the window must be rejected")
}

func TestHourBucketRejectsWithoutTouchingMinuteBucket(t *testing.T) {
	now := time.Unix(1700000000, 0)
	b := newBucket(10, 2, now)

	require.True(t, b.TryConsume(now).Allowed)
	require.True(t, b.TryConsume(now).Allowed)

	minuteBefore := b.minute.tokens
	d := b.TryConsume(now)
	assert.False(t, d.Allowed, "hour quota exhausted, minute tokens are irrelevant")
	assert.Equal(t, minuteBefore, b.minute.tokens,
		"rejection must not deduct from the minute bucket")
	assert.GreaterOrEqual(t, b.hour.tokens, 0.0)
}

func TestGreedyRefill(t *testing.T) {
	now := time.Unix(1700000000, 0)
	b := newBucket(60, 1000, now)

	for i := 0; i < 60; i++ {
		require.True(t, b.TryConsume(now).Allowed)
	}
	require.False(t, b.TryConsume(now).Allowed)

	// 60/min 即每秒连续补充 1 个令牌
	now = now.Add(1 * time.Second)
	assert.True(t, b.TryConsume(now).Allowed)
	assert.False(t, b.TryConsume(now).Allowed)

	// 半秒只补了 0.5 个，不够消费
	now = now.Add(500 * time.Millisecond)
	assert.False(t, b.TryConsume(now).Allowed)
	now = now.Add(500 * time.Millisecond)
	assert.True(t, b.TryConsume(now).Allowed)
}

func TestRetryAfterIsFlooredSeconds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	b := newBucket(60, 1000, now)

	for i := 0; i < 60; i++ {
		require.True(t, b.TryConsume(now).Allowed)
	}

	// 令牌刚好为 0，下一个令牌还差整整 1 秒
	d := b.TryConsume(now)
	require.False(t, d.Allowed)
	assert.Equal(t, int64(1), d.RetryAfterSeconds)

	// 已经补了 0.5 个令牌，剩余等待 0.5s，向下取整为 0
	now = now.Add(500 * time.Millisecond)
	d = b.TryConsume(now)
	require.False(t, d.Allowed)
	assert.Equal(t, int64(0), d.RetryAfterSeconds)
}

func TestRetryAfterUsesMoreConstrainedBucket(t *testing.T) {
	now := time.Unix(1700000000, 0)
	// 小时桶 1 个令牌，补充一个要 3600 秒
	b := newBucket(60, 1, now)

	require.True(t, b.TryConsume(now).Allowed)
	d := b.TryConsume(now)
	require.False(t, d.Allowed)
	assert.Equal(t, int64(3600), d.RetryAfterSeconds)
}

func TestRemainingIsMinOfBothBuckets(t *testing.T) {
	now := time.Unix(1700000000, 0)
	b := newBucket(60, 5, now)

	d := b.TryConsume(now)
	require.True(t, d.Allowed)
	// 分钟桶剩 59，小时桶剩 4，对外报告较小值
	assert.Equal(t, int64(4), d.Remaining)
}

func TestTokensNeverExceedCapacity(t *testing.T) {
	now := time.Unix(1700000000, 0)
	b := newBucket(60, 1000, now)

	// 长时间空闲后桶应封顶在容量，不能无限积累
	now = now.Add(24 * time.Hour)
	d := b.TryConsume(now)
	require.True(t, d.Allowed)
	assert.Equal(t, int64(59), d.Remaining)
}
