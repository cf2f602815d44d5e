package ratelimit

import (
	"fmt"
	"hash/fnv"
	"net"
	"net/http"
	"strings"
)

// 取客户端 IP 时依次检查的转发头
var ipHeaders = []string{"X-Forwarded-For", "X-Real-IP", "Proxy-Client-IP"}

// ClientKey 派生限流用的客户端 key，优先级：API key > Bearer token > IP。
// API key 用全量内容的定宽哈希而不是前缀截断，避免共享前缀的不同
// 凭证落进同一个桶。
func ClientKey(r *http.Request) string {
	apiKey := r.Header.Get("X-API-Key")
	if strings.TrimSpace(apiKey) != "" {
		return "apikey:" + hashKey(apiKey)
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		end := len(authHeader)
		if end > 20 {
			end = 20
		}
		return "jwt:" + authHeader[7:end]
	}

	return "ip:" + clientIP(r)
}

func hashKey(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("%016x", h.Sum64())
}

func clientIP(r *http.Request) string {
	for _, header := range ipHeaders {
		ip := r.Header.Get(header)
		if ip != "" && !strings.EqualFold(ip, "unknown") {
			// X-Forwarded-For 可能是逗号分隔的链路，取第一跳
			return strings.TrimSpace(strings.Split(ip, ",")[0])
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
