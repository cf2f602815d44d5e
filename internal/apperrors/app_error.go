package apperrors

import (
	"net/http"
)

// AppError 自定义错误类型
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// BusinessError 封装业务逻辑错误（通用）
func BusinessError(code int, message string) *AppError {
	return WithCode(code, message)
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "Parameter verification failed")
}

// NotFoundError 短链不存在/不可用，对外统一表现为 404，
// 不暴露 code 是否存在过
func NotFoundError() *AppError {
	return WithCode(http.StatusNotFound, "Short URL not found")
}

// DuplicateAliasError 自定义别名已被占用
func DuplicateAliasError(alias string) *AppError {
	return WithCode(http.StatusBadRequest, "Custom alias is already taken: "+alias)
}

// InvalidAliasError 自定义别名不合法
func InvalidAliasError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// GenerationExhaustedError 随机生成多次碰撞，码空间异常饱和
func GenerationExhaustedError() *AppError {
	return WithCode(http.StatusInternalServerError, "Failed to generate unique short code")
}

// RateLimitError 触发限流
func RateLimitError(message string) *AppError {
	return WithCode(http.StatusTooManyRequests, message)
}

// SystemError 封装系统内部错误
func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "System error")
}
