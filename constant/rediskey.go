package constant

import "fmt"

// 常量定义
const (
	BasePrefix = "shorturl:"
	Separator  = ":"
)

// Redis 键模板
const (
	ResolveKey = BasePrefix + "resolve" + Separator + "%s" // shorturl:resolve:shortcode
)

// 空值缓存的 TTL（秒），防止未知 short_code 的缓存穿透；
// 正常缓存条目不设 TTL，失效完全依赖显式 invalidate
const NotFoundCacheTTLSeconds = 300

// 空值缓存使用的占位内容
const NotFoundPlaceholder = ""

// GetResolveKey 生成短链解析缓存的 key
func GetResolveKey(shortCode string) string {
	return fmt.Sprintf(ResolveKey, shortCode)
}
