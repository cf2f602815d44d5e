package useragent

import "strings"

// Info 是从 User-Agent 解析出的分类结果
type Info struct {
	DeviceType string
	Browser    string
	OS         string
}

// Parse 按固定顺序做大小写不敏感的子串匹配，先命中先生效。
// User-Agent 为空时三个字段统一返回 Unknown。
func Parse(userAgent string) Info {
	if userAgent == "" {
		return Info{DeviceType: "Unknown", Browser: "Unknown", OS: "Unknown"}
	}
	ua := strings.ToLower(userAgent)
	return Info{
		DeviceType: parseDeviceType(ua),
		Browser:    parseBrowser(ua),
		OS:         parseOS(ua),
	}
}

func parseDeviceType(ua string) string {
	switch {
	case strings.Contains(ua, "mobile") ||
		(strings.Contains(ua, "android") && strings.Contains(ua, "mobile")):
		return "Mobile"
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "Tablet"
	default:
		return "Desktop"
	}
}

func parseBrowser(ua string) string {
	switch {
	// Edge 的 UA 同时带 chrome，必须先判断 edg
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "chrome") && !strings.Contains(ua, "edg"):
		return "Chrome"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome"):
		return "Safari"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		return "Opera"
	default:
		return "Other"
	}
}

func parseOS(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "linux") && !strings.Contains(ua, "android"):
		return "Linux"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ios"):
		return "iOS"
	default:
		return "Other"
	}
}
