package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shorturl-go/internal/service"
)

// RedirectHandler 重定向热路径。302 响应立即返回，
// 点击记录由独立 goroutine 完成，不阻塞也不影响本次响应。
func RedirectHandler(c *gin.Context) {
	shortCode := c.Param("shortCode")

	shortURL, err := service.Resolve(c.Request.Context(), shortCode)
	if err != nil {
		// 未知、已停用、已过期统一 404，不向调用方泄露 code 是否存在过
		if errors.Is(err, service.ErrNotFound) ||
			errors.Is(err, service.ErrDeactivated) ||
			errors.Is(err, service.ErrExpired) {
			c.Status(http.StatusNotFound)
			return
		}
		zap.L().Error("Redirect resolution failed",
			zap.String("short_code", shortCode),
			zap.Error(err))
		c.Status(http.StatusNotFound)
		return
	}

	service.RecordClick(shortURL, service.ClickMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	})

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, shortURL.TargetURL)
}
