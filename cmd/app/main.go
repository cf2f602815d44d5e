package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"shorturl-go/internal/cache"
	"shorturl-go/internal/config"
	"shorturl-go/internal/handler"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/middleware"
	"shorturl-go/internal/ratelimit"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/scheduler"
	"shorturl-go/internal/service"
	"shorturl-go/pkg/logging"
)

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

func startServer(r *gin.Engine, sched scheduler.Scheduler) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	conn := repository.RedisPool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			logging.Logger.Warn("Redis connection close failed", zap.Error(err))
		}
	}()

	logging.Logger.Info("Server exiting")
}

func main() {

	initConfig()
	logging.InitLoggerFromConfig()

	logging.Logger.Info("Application started")

	repository.InitDB(logging.Logger, logging.AtomicLevel)
	repository.InitRedis()

	appCfg := config.Load()
	urlCache := cache.NewRedisURLCache(repository.RedisPool)
	service.Init(urlCache, appCfg)
	handler.Init(appCfg)

	registry := ratelimit.NewRegistry(
		appCfg.RateLimitPerMinute,
		appCfg.RateLimitPerHour,
		ratelimit.DefaultMaxBuckets,
	)

	// 初始化 i18n（加载 TOML 文件）
	bundle, err := i18n.InitI18n([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		panic(err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))
	// 限流放在业务路由之前，健康检查与文档路径豁免
	r.Use(middleware.RateLimitMiddleware(registry, appCfg.RateLimitEnabled))

	r.GET("/health", handler.HealthHandler)

	api := r.Group("/api")
	{
		api.POST("/urls", handler.CreateShortURLHandler)
		api.GET("/urls", handler.ListShortURLsHandler)
		api.PUT("/urls/:shortCode", handler.UpdateShortURLHandler)
		api.DELETE("/urls/:shortCode", handler.DeactivateShortURLHandler)
		api.GET("/urls/:shortCode/analytics", handler.GetAnalyticsHandler)
	}

	// 重定向热路径
	r.GET("/r/:shortCode", handler.RedirectHandler)

	sched := scheduler.NewCronScheduler()

	// 每小时整点清理过期短链；上一轮没结束时跳过本轮
	if err := sched.Schedule("0 * * * *", "sweep-expired", func() {
		if _, err := service.SweepExpired(time.Now()); err != nil {
			logging.Logger.Error("Expired URL sweep failed", zap.Error(err))
		}
	}); err != nil {
		logging.Logger.Fatal("Failed to schedule sweep job", zap.Error(err))
	}

	// 每十分钟回收一轮空闲限流桶，防止 key 基数失控
	if err := sched.Schedule("*/10 * * * *", "evict-idle-buckets", func() {
		evicted := registry.EvictIdle(ratelimit.DefaultIdleTTL)
		if evicted > 0 {
			logging.Logger.Info("Evicted idle rate limit buckets",
				zap.Int("evicted", evicted),
				zap.Int("remaining", registry.Len()))
		}
	}); err != nil {
		logging.Logger.Fatal("Failed to schedule bucket eviction job", zap.Error(err))
	}

	sched.Start()

	startServer(r, sched)
}
