package ratelimit

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxBuckets 注册表容量上限的默认值。IP 维度的 key 在大 NAT
// 或伪造头场景下基数可能非常高，必须有硬上限兜底。
const DefaultMaxBuckets = 100000

// DefaultIdleTTL 空闲多久之后的桶可以被周期回收。满额的小时桶
// 一小时即可完全恢复，继续保留没有意义。
const DefaultIdleTTL = 2 * time.Hour

// Registry 按客户端 key 管理限流桶。桶在首次请求时惰性创建；
// 不同 key 之间的读写不做全局串行化。
type Registry struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket

	perMinute  int
	perHour    int
	maxBuckets int

	// now 可在测试里替换，生产固定为 time.Now
	now func() time.Time
}

func NewRegistry(perMinute, perHour, maxBuckets int) *Registry {
	if perMinute <= 0 {
		perMinute = 60
	}
	if perHour <= 0 {
		perHour = 1000
	}
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	return &Registry{
		buckets:    make(map[string]*Bucket),
		perMinute:  perMinute,
		perHour:    perHour,
		maxBuckets: maxBuckets,
		now:        time.Now,
	}
}

// TryAdmit 对 key 做一次准入判定
func (r *Registry) TryAdmit(key string) Decision {
	now := r.now()
	return r.resolveBucket(key, now).TryConsume(now)
}

func (r *Registry) resolveBucket(key string, now time.Time) *Bucket {
	r.mu.RLock()
	b, ok := r.buckets[key]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// 双重检查，避免并发重复创建
	if b, ok := r.buckets[key]; ok {
		return b
	}
	if len(r.buckets) >= r.maxBuckets {
		r.evictOldestLocked()
	}
	b = newBucket(r.perMinute, r.perHour, now)
	r.buckets[key] = b
	return b
}

// evictOldestLocked 淘汰最久未访问的桶。只有容量打满时才走到这里，
// 线性扫描可以接受。
func (r *Registry) evictOldestLocked() {
	var oldestKey string
	var oldest int64
	for key, b := range r.buckets {
		last := b.LastAccess().UnixNano()
		if oldestKey == "" || last < oldest {
			oldestKey = key
			oldest = last
		}
	}
	if oldestKey != "" {
		delete(r.buckets, oldestKey)
		zap.L().Warn("Rate limit registry full, evicted oldest bucket",
			zap.String("client_key", oldestKey),
			zap.Int("max_buckets", r.maxBuckets))
	}
}

// EvictIdle 回收空闲超过 maxIdle 的桶，返回回收数量。由调度器周期触发。
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for key, b := range r.buckets {
		if b.LastAccess().Before(cutoff) {
			delete(r.buckets, key)
			evicted++
		}
	}
	return evicted
}

// Len 当前桶数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buckets)
}

// Clear 移除指定 key 的桶
func (r *Registry) Clear(key string) {
	r.mu.Lock()
	delete(r.buckets, key)
	r.mu.Unlock()
}
