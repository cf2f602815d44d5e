package utils

import (
	"fmt"
	"net/url"
	"strings"

	"shorturl-go/pkg/base62"
)

const (
	// MinAliasLength 自定义别名的最小长度
	MinAliasLength = 3
	// MaxTargetURLLength 目标 URL 的最大长度
	MaxTargetURLLength = 2048
)

// ValidateTargetURL 校验目标 URL 的合法性（仅允许 http/https）
func ValidateTargetURL(targetURL string) error {
	if targetURL == "" {
		return fmt.Errorf("error.target_url_required")
	}

	u, err := url.ParseRequestURI(targetURL)
	if err != nil {
		return fmt.Errorf("error.target_url_invalid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("error.target_url_invalid")
	}
	if u.Host == "" {
		return fmt.Errorf("error.target_url_invalid")
	}

	if len(targetURL) > MaxTargetURLLength {
		return fmt.Errorf("error.target_url_max_length")
	}
	return nil
}

// ValidateCustomAlias 校验自定义别名：3 到 maxLength 个 62 进制字符
func ValidateCustomAlias(alias string, maxLength int) error {
	if strings.TrimSpace(alias) != alias {
		return fmt.Errorf("error.alias_invalid")
	}
	if len(alias) < MinAliasLength || len(alias) > maxLength {
		return fmt.Errorf("error.alias_length")
	}
	if !base62.IsValidAlphabet(alias) {
		return fmt.Errorf("error.alias_invalid")
	}
	return nil
}
