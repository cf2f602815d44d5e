package cache

import (
	"encoding/json"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"shorturl-go/constant"
	"shorturl-go/internal/model"
)

// URLCache 短链解析缓存。正常条目不带 TTL，目标 URL、启用状态或过期时间
// 一旦变更必须显式 Invalidate，下一个请求立即看到新值。
// Get 的第二个返回值表示是否命中；命中但记录为 nil 表示命中了空值缓存。
type URLCache interface {
	Get(shortCode string) (*model.ShortURL, bool)
	Put(shortCode string, url *model.ShortURL)
	// PutNotFound 缓存一个短 TTL 的空值，防止未知 code 反复打到数据库
	PutNotFound(shortCode string)
	Invalidate(shortCode string)
}

// 编译期接口检查
var (
	_ URLCache = (*RedisURLCache)(nil)
	_ URLCache = (*MemoryURLCache)(nil)
)

// RedisURLCache 基于 redigo 连接池的实现，缓存整条记录的 JSON。
// 所有 Redis 错误都按未命中处理并记日志，不向上传播。
type RedisURLCache struct {
	pool *redis.Pool
}

func NewRedisURLCache(pool *redis.Pool) *RedisURLCache {
	return &RedisURLCache{pool: pool}
}

func (c *RedisURLCache) Get(shortCode string) (*model.ShortURL, bool) {
	conn := c.pool.Get()
	defer closeConn(conn)

	cacheKey := constant.GetResolveKey(shortCode)
	cachedValue, err := redis.Bytes(conn.Do("GET", cacheKey))
	if err != nil {
		if err != redis.ErrNil {
			zap.L().Warn("Error getting from Redis",
				zap.String("cache_key", cacheKey),
				zap.Error(err))
		}
		return nil, false
	}

	// 空值缓存命中
	if string(cachedValue) == constant.NotFoundPlaceholder {
		return nil, true
	}

	var shortURL model.ShortURL
	if err := json.Unmarshal(cachedValue, &shortURL); err != nil {
		zap.L().Warn("Failed to unmarshal cached value",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
		return nil, false
	}
	return &shortURL, true
}

func (c *RedisURLCache) Put(shortCode string, url *model.ShortURL) {
	conn := c.pool.Get()
	defer closeConn(conn)

	cacheKey := constant.GetResolveKey(shortCode)
	cachedValue, err := json.Marshal(url)
	if err != nil {
		zap.L().Warn("Failed to marshal value for cache",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
		return
	}

	if _, err := conn.Do("SET", cacheKey, cachedValue); err != nil {
		zap.L().Error("设置缓存失败",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	}
}

func (c *RedisURLCache) PutNotFound(shortCode string) {
	conn := c.pool.Get()
	defer closeConn(conn)

	cacheKey := constant.GetResolveKey(shortCode)
	_, err := conn.Do("SET", cacheKey, constant.NotFoundPlaceholder,
		"EX", constant.NotFoundCacheTTLSeconds)
	if err != nil {
		zap.L().Error("设置空值缓存失败",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	}
}

func (c *RedisURLCache) Invalidate(shortCode string) {
	conn := c.pool.Get()
	defer closeConn(conn)

	cacheKey := constant.GetResolveKey(shortCode)
	if _, err := conn.Do("DEL", cacheKey); err != nil {
		zap.L().Warn("Redis 删除缓存失败",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	}
}

func closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		zap.L().Error("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"))
	}
}
