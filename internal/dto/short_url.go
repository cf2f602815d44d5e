package dto

import (
	"time"

	"shorturl-go/internal/model"
)

// CreateShortURLRequest 创建短链的请求参数
type CreateShortURLRequest struct {
	URL string `json:"url" binding:"required,url"`
	// CustomAlias 可选；为空时走随机生成
	CustomAlias string `json:"customAlias"`
	// ExpirationDays 为 nil 时使用配置的默认过期天数
	ExpirationDays *int `json:"expirationDays" binding:"omitempty,min=1"`
}

// UpdateShortURLRequest 更新短链目标地址的请求参数
type UpdateShortURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ShortURLResponse 对外返回的短链信息
type ShortURLResponse struct {
	ID          uint       `json:"id"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	TargetURL   string     `json:"targetUrl"`
	CustomAlias bool       `json:"customAlias"`
	ClickCount  int64      `json:"clickCount"`
	IsActive    bool       `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToShortURLResponse 模型转响应
func ToShortURLResponse(u *model.ShortURL, baseURL string) ShortURLResponse {
	return ShortURLResponse{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		ShortURL:    baseURL + "/r/" + u.ShortCode,
		TargetURL:   u.TargetURL,
		CustomAlias: u.CustomAlias,
		ClickCount:  u.ClickCount,
		IsActive:    u.IsActive,
		ExpiresAt:   u.ExpiresAt,
		CreatedAt:   u.CreatedAt,
	}
}
