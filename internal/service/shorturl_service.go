package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/cache"
	"shorturl-go/internal/config"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
	"shorturl-go/pkg/base62"
	"shorturl-go/pkg/utils"
	"shorturl-go/response"
)

// 随机生成与存在性检查的重试上限。正常表规模下碰撞概率可以忽略，
// 固定上限是为了在码空间被异常占满时不会陷入死循环。
const maxGenerateAttempts = 10

// Resolve 的结果分类。对外（HTTP 层）三者统一表现为 404。
var (
	ErrNotFound    = errors.New("short url not found")
	ErrDeactivated = errors.New("short url deactivated")
	ErrExpired     = errors.New("short url expired")
)

var (
	urlCache cache.URLCache
	cfg      config.AppConfig
)

// Init 注入解析缓存和业务配置，main 和测试各自调用
func Init(c cache.URLCache, conf config.AppConfig) {
	urlCache = c
	cfg = conf
}

// CreateShortURL 创建短链。自定义别名与随机生成共用同一套存在性检查，
// 唯一性最终由数据库唯一索引保证。
func CreateShortURL(ctx context.Context, req dto.CreateShortURLRequest) (*model.ShortURL, error) {
	if err := utils.ValidateTargetURL(req.URL); err != nil {
		return nil, apperrors.InvalidRequestError(err.Error())
	}

	var shortCode string
	isCustom := req.CustomAlias != ""
	if isCustom {
		code, err := validateCustomAlias(req.CustomAlias)
		if err != nil {
			return nil, err
		}
		shortCode = code
	} else {
		code, err := generateUniqueShortCode()
		if err != nil {
			return nil, err
		}
		shortCode = code
	}

	shortURL := &model.ShortURL{
		ShortCode:   shortCode,
		TargetURL:   req.URL,
		CustomAlias: isCustom,
		IsActive:    true,
		ExpiresAt:   resolveExpiresAt(req.ExpirationDays),
	}

	if err := repository.CreateShortURL(shortURL); err != nil {
		zap.L().Error("数据库写入短链失败",
			zap.String("short_code", shortCode),
			zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	// 该 code 此前可能被缓存为空值，创建后必须立刻失效
	urlCache.Invalidate(shortCode)

	zap.L().Info("Created short URL",
		zap.String("short_code", shortCode),
		zap.Bool("custom_alias", isCustom))
	return shortURL, nil
}

func validateCustomAlias(alias string) (string, error) {
	if err := utils.ValidateCustomAlias(alias, cfg.MaxAliasLength); err != nil {
		return "", apperrors.InvalidAliasError(err.Error())
	}
	exists, err := repository.ExistsByShortCode(alias)
	if err != nil {
		return "", apperrors.SystemErrorDefault()
	}
	if exists {
		return "", apperrors.DuplicateAliasError(alias)
	}
	return alias, nil
}

func generateUniqueShortCode() (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := base62.Generate(cfg.ShortCodeLength)
		exists, err := repository.ExistsByShortCode(code)
		if err != nil {
			return "", apperrors.SystemErrorDefault()
		}
		if !exists {
			return code, nil
		}
	}
	// 走到这里说明码空间异常饱和，必须高优先级报警
	zap.L().Error("短码生成连续碰撞，码空间可能已饱和",
		zap.Int("attempts", maxGenerateAttempts),
		zap.Int("code_length", cfg.ShortCodeLength))
	return "", apperrors.GenerationExhaustedError()
}

func resolveExpiresAt(expirationDays *int) *time.Time {
	days := 0
	if expirationDays != nil && *expirationDays > 0 {
		days = *expirationDays
	} else if cfg.DefaultExpirationDays > 0 {
		days = cfg.DefaultExpirationDays
	}
	if days <= 0 {
		return nil
	}
	t := time.Now().AddDate(0, 0, days)
	return &t
}

// Resolve 解析短链：先查缓存，未命中回源数据库并回填。
// 过期判断用当前时钟实时计算，不等清理任务把 is_active 翻成 false。
func Resolve(ctx context.Context, shortCode string) (*model.ShortURL, error) {
	if cached, hit := urlCache.Get(shortCode); hit {
		if cached == nil {
			return nil, ErrNotFound
		}
		return checkUsable(cached)
	}

	shortURL, err := repository.FindByShortCode(shortCode)
	if err != nil {
		zap.L().Error("查询短链失败",
			zap.String("short_code", shortCode),
			zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}
	if shortURL == nil {
		// 空值缓存，防止未知 code 穿透
		urlCache.PutNotFound(shortCode)
		return nil, ErrNotFound
	}

	usable, err := checkUsable(shortURL)
	if err != nil {
		return nil, err
	}

	urlCache.Put(shortCode, usable)
	return usable, nil
}

// checkUsable 对缓存命中和回源结果统一做启用/过期校验
func checkUsable(shortURL *model.ShortURL) (*model.ShortURL, error) {
	if !shortURL.IsActive {
		return nil, ErrDeactivated
	}
	if shortURL.IsExpired(time.Now()) {
		return nil, ErrExpired
	}
	return shortURL, nil
}

// GetByShortCode 管理接口用，不过滤停用/过期状态
func GetByShortCode(ctx context.Context, shortCode string) (*model.ShortURL, error) {
	shortURL, err := repository.FindByShortCode(shortCode)
	if err != nil {
		return nil, apperrors.SystemErrorDefault()
	}
	if shortURL == nil {
		return nil, apperrors.NotFoundError()
	}
	return shortURL, nil
}

// ListShortURLs 分页查询短链列表
func ListShortURLs(ctx context.Context, page, size int) (*response.PageResponse[dto.ShortURLResponse], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	urls, total, err := repository.ListShortURLs(page, size)
	if err != nil {
		zap.L().Error("查询短链列表失败", zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	list := make([]dto.ShortURLResponse, 0, len(urls))
	for i := range urls {
		list = append(list, dto.ToShortURLResponse(&urls[i], cfg.BaseURL))
	}

	totalPage := (int(total) + size - 1) / size
	return &response.PageResponse[dto.ShortURLResponse]{
		Page:      page,
		Size:      size,
		Total:     int(total),
		TotalPage: totalPage,
		List:      list,
	}, nil
}

// UpdateTargetURL 更新目标地址并使缓存失效，下一个请求立即拿到新地址
func UpdateTargetURL(ctx context.Context, shortCode string, targetURL string) error {
	if err := utils.ValidateTargetURL(targetURL); err != nil {
		return apperrors.InvalidRequestError(err.Error())
	}

	existing, err := repository.FindByShortCode(shortCode)
	if err != nil {
		return apperrors.SystemErrorDefault()
	}
	if existing == nil {
		return apperrors.NotFoundError()
	}

	if existing.TargetURL != targetURL {
		if err := repository.UpdateTargetURL(shortCode, targetURL); err != nil {
			zap.L().Error("更新短链失败",
				zap.String("short_code", shortCode),
				zap.Error(err))
			return apperrors.SystemErrorDefault()
		}
	}

	urlCache.Invalidate(shortCode)
	return nil
}

// Deactivate 停用短链（不做物理删除）并使缓存失效
func Deactivate(ctx context.Context, shortCode string) error {
	existing, err := repository.FindByShortCode(shortCode)
	if err != nil {
		return apperrors.SystemErrorDefault()
	}
	if existing == nil {
		return apperrors.NotFoundError()
	}

	if err := repository.DeactivateShortURL(shortCode); err != nil {
		zap.L().Error("停用短链失败",
			zap.String("short_code", shortCode),
			zap.Error(err))
		return apperrors.SystemErrorDefault()
	}

	urlCache.Invalidate(shortCode)
	zap.L().Info("Deactivated short URL", zap.String("short_code", shortCode))
	return nil
}
