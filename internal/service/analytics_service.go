package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
	"shorturl-go/pkg/useragent"
)

// ClickMeta 重定向请求里与分析相关的原始信息
type ClickMeta struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// RecordClick 异步记录一次点击。调用方不等待：写库失败、解析失败
// 都只记日志，绝不影响重定向响应。事件落库之后才对 click_count
// 做原子自增，并发点击不会丢计数。
func RecordClick(shortURL *model.ShortURL, meta ClickMeta) {
	shortCode := shortURL.ShortCode

	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("Click recording panicked",
					zap.String("short_code", shortCode),
					zap.Any("panic", r))
			}
		}()

		info := useragent.Parse(meta.UserAgent)
		event := &model.ClickEvent{
			ShortCode:  shortCode,
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			Referer:    meta.Referer,
			DeviceType: info.DeviceType,
			Browser:    info.Browser,
			OS:         info.OS,
		}

		if err := repository.CreateClickEvent(event); err != nil {
			zap.L().Error("Failed to record click event",
				zap.String("short_code", shortCode),
				zap.Error(err))
			return
		}

		if err := repository.IncrementClickCount(shortCode); err != nil {
			zap.L().Error("Failed to increment click count",
				zap.String("short_code", shortCode),
				zap.Error(err))
			return
		}

		zap.L().Debug("Recorded click", zap.String("short_code", shortCode))
	}()
}

// AnalyticsSummary 单条短链的点击统计
type AnalyticsSummary struct {
	TotalClicks      int64                  `json:"totalClicks"`
	ClicksLast24h    int64                  `json:"clicksLast24Hours"`
	ClicksLast7Days  int64                  `json:"clicksLast7Days"`
	ClicksLast30Days int64                  `json:"clicksLast30Days"`
	TopBrowsers      []repository.StatEntry `json:"topBrowsers"`
	TopDevices       []repository.StatEntry `json:"topDevices"`
	TopOS            []repository.StatEntry `json:"topOperatingSystems"`
}

// GetAnalyticsSummary 汇总某 short_code 的点击统计
func GetAnalyticsSummary(ctx context.Context, shortCode string) (*AnalyticsSummary, error) {
	shortURL, err := GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := &AnalyticsSummary{TotalClicks: shortURL.ClickCount}

	if summary.ClicksLast24h, err = repository.CountClicksSince(shortCode, now.Add(-24*time.Hour)); err != nil {
		return nil, apperrors.SystemErrorDefault()
	}
	if summary.ClicksLast7Days, err = repository.CountClicksSince(shortCode, now.AddDate(0, 0, -7)); err != nil {
		return nil, apperrors.SystemErrorDefault()
	}
	if summary.ClicksLast30Days, err = repository.CountClicksSince(shortCode, now.AddDate(0, 0, -30)); err != nil {
		return nil, apperrors.SystemErrorDefault()
	}

	if summary.TopBrowsers, err = repository.GroupClicksBy(shortCode, "browser"); err != nil {
		return nil, apperrors.SystemErrorDefault()
	}
	if summary.TopDevices, err = repository.GroupClicksBy(shortCode, "device_type"); err != nil {
		return nil, apperrors.SystemErrorDefault()
	}
	if summary.TopOS, err = repository.GroupClicksBy(shortCode, "os"); err != nil {
		return nil, apperrors.SystemErrorDefault()
	}

	return summary, nil
}
