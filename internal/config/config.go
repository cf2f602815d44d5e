package config

import "github.com/spf13/viper"

// AppConfig 业务配置项，启动时从 viper 读取一次
type AppConfig struct {
	BaseURL               string
	RateLimitEnabled      bool
	RateLimitPerMinute    int
	RateLimitPerHour      int
	ShortCodeLength       int
	DefaultExpirationDays int // 0 或负数表示新短链不自动过期
	MaxAliasLength        int
}

// Load 读取 app.* 配置并填充默认值
func Load() AppConfig {
	viper.SetDefault("app.base_url", "http://localhost:8080")
	viper.SetDefault("app.rate_limit.enabled", true)
	viper.SetDefault("app.rate_limit.per_minute", 60)
	viper.SetDefault("app.rate_limit.per_hour", 1000)
	viper.SetDefault("app.short_code_length", 7)
	viper.SetDefault("app.default_expiration_days", 365)
	viper.SetDefault("app.max_alias_length", 20)

	return AppConfig{
		BaseURL:               viper.GetString("app.base_url"),
		RateLimitEnabled:      viper.GetBool("app.rate_limit.enabled"),
		RateLimitPerMinute:    viper.GetInt("app.rate_limit.per_minute"),
		RateLimitPerHour:      viper.GetInt("app.rate_limit.per_hour"),
		ShortCodeLength:       viper.GetInt("app.short_code_length"),
		DefaultExpirationDays: viper.GetInt("app.default_expiration_days"),
		MaxAliasLength:        viper.GetInt("app.max_alias_length"),
	}
}
