package repository

import (
	"time"

	"shorturl-go/internal/model"
)

// CreateClickEvent 追加一条点击事件
func CreateClickEvent(event *model.ClickEvent) error {
	return DB.Create(event).Error
}

// CountClicksSince 统计某 short_code 自 since 以来的点击数
func CountClicksSince(shortCode string, since time.Time) (int64, error) {
	var count int64
	err := DB.Model(&model.ClickEvent{}).
		Where("short_code = ? AND clicked_at >= ?", shortCode, since).
		Count(&count).Error
	return count, err
}

// StatEntry 单个维度的分组统计
type StatEntry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// GroupClicksBy 按指定字段分组统计点击数，降序，最多取前 10
func GroupClicksBy(shortCode string, column string) ([]StatEntry, error) {
	var entries []StatEntry
	err := DB.Model(&model.ClickEvent{}).
		Select(column+" AS name, COUNT(*) AS count").
		Where("short_code = ?", shortCode).
		Group(column).
		Order("count DESC").
		Limit(10).
		Scan(&entries).Error
	return entries, err
}
