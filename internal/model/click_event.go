package model

import "time"

// ClickEvent 点击事件，按 short_code 弱引用短链记录，写入后不再修改
type ClickEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ShortCode  string    `gorm:"index;size:20;not null" json:"shortCode"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	UserAgent  string    `gorm:"size:1024" json:"userAgent"`
	Referer    string    `gorm:"size:2048" json:"referer"`
	DeviceType string    `gorm:"size:20" json:"deviceType"`
	Browser    string    `gorm:"size:50" json:"browser"`
	OS         string    `gorm:"size:50" json:"os"`
	ClickedAt  time.Time `gorm:"index;autoCreateTime" json:"clickedAt"`
}
