package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shorturl-go/internal/ratelimit"
	"shorturl-go/response"
)

// 不参与限流的路径前缀：健康检查、交互式文档、文档 JSON。
// 这些请求既不消耗配额也不做检查。
var exemptPrefixes = []string{
	"/health",
	"/swagger",
	"/api-docs",
}

// RateLimitMiddleware 每客户端双窗口限流。enabled 为 false 时全量放行。
func RateLimitMiddleware(registry *ratelimit.Registry, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		clientKey := ratelimit.ClientKey(c.Request)
		decision := registry.TryAdmit(clientKey)

		if decision.Allowed {
			c.Header("X-Rate-Limit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			c.Next()
			return
		}

		zap.L().Warn("Rate limit exceeded",
			zap.String("client_key", clientKey),
			zap.String("path", c.Request.URL.Path),
			zap.Int64("retry_after_seconds", decision.RetryAfterSeconds))

		c.Header("X-Rate-Limit-Retry-After-Seconds", strconv.FormatInt(decision.RetryAfterSeconds, 10))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error(
			fmt.Sprintf("Rate limit exceeded. Please try again in %d seconds.", decision.RetryAfterSeconds)))
	}
}

func isExempt(path string) bool {
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
