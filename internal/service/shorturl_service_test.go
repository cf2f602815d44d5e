package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/cache"
	"shorturl-go/internal/config"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
	"shorturl-go/pkg/base62"
)

var testDBSeq int

// initTestEnv 用内存 sqlite 和内存缓存搭一套独立环境
func initTestEnv(t *testing.T) *cache.MemoryURLCache {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared&_busy_timeout=5000", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.ShortURL{}, &model.ClickEvent{}))
	repository.DB = db

	memCache := cache.NewMemoryURLCache()
	Init(memCache, config.AppConfig{
		BaseURL:               "http://localhost:8080",
		RateLimitEnabled:      true,
		RateLimitPerMinute:    60,
		RateLimitPerHour:      1000,
		ShortCodeLength:       7,
		DefaultExpirationDays: 365,
		MaxAliasLength:        20,
	})
	return memCache
}

func mustCreate(t *testing.T, req dto.CreateShortURLRequest) *model.ShortURL {
	t.Helper()
	u, err := CreateShortURL(context.Background(), req)
	require.NoError(t, err)
	return u
}

func TestCreateShortURLRandomCode(t *testing.T) {
	initTestEnv(t)

	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})
	assert.Len(t, u.ShortCode, 7)
	assert.True(t, base62.IsValidAlphabet(u.ShortCode))
	assert.False(t, u.CustomAlias)
	assert.True(t, u.IsActive)
	assert.Equal(t, int64(0), u.ClickCount)

	// 默认 365 天过期
	require.NotNil(t, u.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 365), *u.ExpiresAt, time.Minute)
}

func TestCreateShortURLExplicitExpiration(t *testing.T) {
	initTestEnv(t)

	days := 30
	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com", ExpirationDays: &days})
	require.NotNil(t, u.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *u.ExpiresAt, time.Minute)
}

func TestCreateShortURLNoAutoExpiration(t *testing.T) {
	memCache := initTestEnv(t)
	Init(memCache, config.AppConfig{
		BaseURL:         "http://localhost:8080",
		ShortCodeLength: 7,
		MaxAliasLength:  20,
		// 默认过期天数 <= 0 时不自动过期
		DefaultExpirationDays: 0,
	})

	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})
	assert.Nil(t, u.ExpiresAt)
}

func TestCreateShortURLCustomAlias(t *testing.T) {
	initTestEnv(t)

	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com", CustomAlias: "myLink01"})
	assert.Equal(t, "myLink01", u.ShortCode)
	assert.True(t, u.CustomAlias)
}

func TestCreateShortURLDuplicateAlias(t *testing.T) {
	initTestEnv(t)
	mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com", CustomAlias: "taken01"})

	_, err := CreateShortURL(context.Background(),
		dto.CreateShortURLRequest{URL: "https://other.example.com", CustomAlias: "taken01"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "already taken")
}

func TestCreateShortURLInvalidAlias(t *testing.T) {
	initTestEnv(t)

	cases := []string{"ab", "no spaces", "bad_char!", "这不是字母数字", "waaaaaaaaaaaaaaaaaaaytoolong"}
	for _, alias := range cases {
		_, err := CreateShortURL(context.Background(),
			dto.CreateShortURLRequest{URL: "https://example.com", CustomAlias: alias})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, "alias=%q", alias)
		assert.Equal(t, 400, appErr.Code, "alias=%q", alias)
	}
}

func TestCreateShortURLInvalidTarget(t *testing.T) {
	initTestEnv(t)

	for _, target := range []string{"", "not-a-url", "ftp://example.com/file"} {
		_, err := CreateShortURL(context.Background(), dto.CreateShortURLRequest{URL: target})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, "target=%q", target)
		assert.Equal(t, 400, appErr.Code, "target=%q", target)
	}
}

func TestConcurrentCreationYieldsDistinctCodes(t *testing.T) {
	initTestEnv(t)

	const workers = 8
	const perWorker = 5

	var mu sync.Mutex
	codes := make(map[string]struct{})
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				u, err := CreateShortURL(context.Background(),
					dto.CreateShortURLRequest{URL: "https://example.com"})
				if err != nil {
					continue
				}
				mu.Lock()
				codes[u.ShortCode] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, repository.DB.Model(&model.ShortURL{}).Count(&count).Error)
	assert.Equal(t, int(count), len(codes), "no two successful creations may share a code")
}

func TestResolveNotFound(t *testing.T) {
	initTestEnv(t)

	_, err := Resolve(context.Background(), "nope123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveDeactivated(t *testing.T) {
	initTestEnv(t)
	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})

	require.NoError(t, Deactivate(context.Background(), u.ShortCode))

	_, err := Resolve(context.Background(), u.ShortCode)
	assert.ErrorIs(t, err, ErrDeactivated)
}

func TestResolveExpiredBeforeSweeperRuns(t *testing.T) {
	initTestEnv(t)
	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})

	// 直接把过期时间改到过去，is_active 仍为 true
	past := time.Now().Add(-time.Hour)
	require.NoError(t, repository.DB.Model(&model.ShortURL{}).
		Where("short_code = ?", u.ShortCode).
		Update("expires_at", past).Error)

	_, err := Resolve(context.Background(), u.ShortCode)
	assert.ErrorIs(t, err, ErrExpired,
		"expiration must be checked live, without waiting for the sweeper")
}

func TestResolveExpiredOnCacheHit(t *testing.T) {
	initTestEnv(t)
	soon := time.Now().Add(50 * time.Millisecond)
	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})
	require.NoError(t, repository.DB.Model(&model.ShortURL{}).
		Where("short_code = ?", u.ShortCode).
		Update("expires_at", soon).Error)

	// 第一次解析命中数据库并回填缓存
	_, err := Resolve(context.Background(), u.ShortCode)
	require.NoError(t, err)

	// 缓存条目不会自然老化，过期必须在命中时实时判断
	time.Sleep(80 * time.Millisecond)
	_, err = Resolve(context.Background(), u.ShortCode)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestResolvePopulatesCache(t *testing.T) {
	memCache := initTestEnv(t)
	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})
	memCache.Invalidate(u.ShortCode)

	got, err := Resolve(context.Background(), u.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.TargetURL)

	cached, hit := memCache.Get(u.ShortCode)
	require.True(t, hit)
	assert.Equal(t, "https://example.com", cached.TargetURL)
}

func TestUpdateTargetVisibleImmediately(t *testing.T) {
	initTestEnv(t)
	u := mustCreate(t, dto.CreateShortURLRequest{URL: "https://old.example.com"})

	// 先解析一次，确保旧值进了缓存
	got, err := Resolve(context.Background(), u.ShortCode)
	require.NoError(t, err)
	require.Equal(t, "https://old.example.com", got.TargetURL)

	require.NoError(t, UpdateTargetURL(context.Background(), u.ShortCode, "https://new.example.com"))

	got, err = Resolve(context.Background(), u.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", got.TargetURL,
		"the very next resolve must see the new target, never the cached one")
}

func TestNegativeCacheInvalidatedOnCreate(t *testing.T) {
	initTestEnv(t)

	// 先对未知 code 解析，触发空值缓存
	_, err := Resolve(context.Background(), "myLink01")
	require.ErrorIs(t, err, ErrNotFound)

	mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com", CustomAlias: "myLink01"})

	got, err := Resolve(context.Background(), "myLink01")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.TargetURL)
}

func TestListShortURLs(t *testing.T) {
	initTestEnv(t)
	for i := 0; i < 12; i++ {
		mustCreate(t, dto.CreateShortURLRequest{URL: "https://example.com"})
	}

	page, err := ListShortURLs(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.TotalPage)
	assert.Len(t, page.List, 10)

	page, err = ListShortURLs(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.List, 2)
}
