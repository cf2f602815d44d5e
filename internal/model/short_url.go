package model

import "time"

// ShortURL 短链记录。short_code 的唯一性由数据库唯一索引兜底，
// 生成器这一侧只负责降低碰撞概率。
type ShortURL struct {
	BaseModel
	ShortCode   string     `gorm:"uniqueIndex;size:20;not null" json:"shortCode"`
	TargetURL   string     `gorm:"size:2048;not null" json:"targetUrl"`
	UserID      *uint      `gorm:"index" json:"userId,omitempty"`
	CustomAlias bool       `gorm:"not null;default:false" json:"customAlias"`
	ClickCount  int64      `gorm:"not null;default:0" json:"clickCount"`
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	ExpiresAt   *time.Time `gorm:"index" json:"expiresAt,omitempty"`
}

// IsExpired 按传入时钟判断是否过期，不依赖 is_active 字段
func (u *ShortURL) IsExpired(now time.Time) bool {
	return u.ExpiresAt != nil && now.After(*u.ExpiresAt)
}
