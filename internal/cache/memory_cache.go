package cache

import (
	"sync"

	"shorturl-go/internal/model"
)

// MemoryURLCache 进程内实现，供测试和未配置 Redis 的部署使用。
// 读多写少，RWMutex 足够；失效与在途读之间的竞态按 last-writer-wins 处理。
type MemoryURLCache struct {
	mu      sync.RWMutex
	entries map[string]*model.ShortURL // 值为 nil 表示空值缓存
}

func NewMemoryURLCache() *MemoryURLCache {
	return &MemoryURLCache{entries: make(map[string]*model.ShortURL)}
}

func (c *MemoryURLCache) Get(shortCode string) (*model.ShortURL, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.entries[shortCode]
	if !ok {
		return nil, false
	}
	if url == nil {
		return nil, true
	}
	clone := *url
	return &clone, true
}

func (c *MemoryURLCache) Put(shortCode string, url *model.ShortURL) {
	clone := *url
	c.mu.Lock()
	c.entries[shortCode] = &clone
	c.mu.Unlock()
}

func (c *MemoryURLCache) PutNotFound(shortCode string) {
	c.mu.Lock()
	c.entries[shortCode] = nil
	c.mu.Unlock()
}

func (c *MemoryURLCache) Invalidate(shortCode string) {
	c.mu.Lock()
	delete(c.entries, shortCode)
	c.mu.Unlock()
}

// Len 当前条目数，仅测试用
func (c *MemoryURLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
