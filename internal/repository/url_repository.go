package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"shorturl-go/internal/model"
)

// FindByShortCode 按 short_code 查询记录，不存在时返回 (nil, nil)
func FindByShortCode(shortCode string) (*model.ShortURL, error) {
	var shortURL model.ShortURL
	err := DB.Where("short_code = ?", shortCode).First(&shortURL).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shortURL, nil
}

// ExistsByShortCode 判断 short_code 是否已被占用（含已停用的记录）
func ExistsByShortCode(shortCode string) (bool, error) {
	var count int64
	err := DB.Model(&model.ShortURL{}).
		Where("short_code = ?", shortCode).
		Count(&count).Error
	return count > 0, err
}

// CreateShortURL 持久化新记录，唯一索引兜底并发下的碰撞
func CreateShortURL(shortURL *model.ShortURL) error {
	return DB.Create(shortURL).Error
}

// UpdateTargetURL 仅更新目标 URL
func UpdateTargetURL(shortCode string, targetURL string) error {
	return DB.Model(&model.ShortURL{}).
		Where("short_code = ?", shortCode).
		Update("target_url", targetURL).Error
}

// DeactivateShortURL 停用记录（本核心不做物理删除）
func DeactivateShortURL(shortCode string) error {
	return DB.Model(&model.ShortURL{}).
		Where("short_code = ?", shortCode).
		Update("is_active", false).Error
}

// ListShortURLs 分页查询
func ListShortURLs(page, size int) ([]model.ShortURL, int64, error) {
	var total int64
	db := DB.Model(&model.ShortURL{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var urls []model.ShortURL
	if err := db.
		Limit(size).
		Offset((page - 1) * size).
		Order("id DESC").
		Find(&urls).Error; err != nil {
		return nil, 0, err
	}
	return urls, total, nil
}

// IncrementClickCount 原子自增点击计数。必须走 SQL 表达式，
// 不能读改写缓存里的副本，否则并发点击会丢增量。
func IncrementClickCount(shortCode string) error {
	return DB.Model(&model.ShortURL{}).
		Where("short_code = ?", shortCode).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1)).Error
}

// FindExpiredCodes 查出所有已过期但仍处于启用状态的 short_code
func FindExpiredCodes(now time.Time) ([]string, error) {
	var codes []string
	err := DB.Model(&model.ShortURL{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Pluck("short_code", &codes).Error
	return codes, err
}

// DeactivateExpired 批量停用过期记录，返回影响行数。幂等：
// 第二次执行没有新过期时影响 0 行。
func DeactivateExpired(now time.Time) (int64, error) {
	result := DB.Model(&model.ShortURL{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
