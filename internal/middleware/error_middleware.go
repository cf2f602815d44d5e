package middleware

import (
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
	"strings"
	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/i18n"
	"shorturl-go/response"
)

// GlobalErrorMiddleware 全局错误中间件
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果有错误发生
		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				var appErr *apperrors.AppError
				if errors.As(err.Err, &appErr) {
					// 校验类错误的 Message 是消息 key，按请求语言本地化
					if strings.HasPrefix(appErr.Message, "error.") {
						appErr = apperrors.WithCode(appErr.Code,
							i18n.TDefault(c.Request.Context(), appErr.Message, appErr.Message))
					}
					c.AbortWithStatusJSON(appErr.Code, response.ErrorFromAppError(appErr))
					return
				}
			}

			// 默认处理未定义的错误
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("系统内部错误"))
			return
		}
	}
}
