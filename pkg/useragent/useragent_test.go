package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmpty(t *testing.T) {
	info := Parse("")
	assert.Equal(t, "Unknown", info.DeviceType)
	assert.Equal(t, "Unknown", info.Browser)
	assert.Equal(t, "Unknown", info.OS)
}

func TestParseEdgePrecedenceOverChrome(t *testing.T) {
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36 Edg/91.0.864.59"
	info := Parse(ua)
	assert.Equal(t, "Edge", info.Browser)
	assert.Equal(t, "Windows", info.OS)
	assert.Equal(t, "Desktop", info.DeviceType)
}

func TestParseBrowser(t *testing.T) {
	cases := []struct {
		ua      string
		browser string
	}{
		{"Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0 Safari/537.36", "Chrome"},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0", "Firefox"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/16.1 Safari/605.1.15", "Safari"},
		{"Opera/9.80 (Windows NT 6.0) Presto/2.12.388 Version/12.14", "Opera"},
		{"curl/8.4.0", "Other"},
	}
	for _, c := range cases {
		assert.Equal(t, c.browser, Parse(c.ua).Browser, "ua=%s", c.ua)
	}
}

func TestParseOS(t *testing.T) {
	cases := []struct {
		ua string
		os string
	}{
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Safari/605.1.15", "macOS"},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/115.0", "Linux"},
		// Android 的 UA 同样包含 linux，不能判成 Linux
		{"Mozilla/5.0 (Linux; Android 13; Pixel 7) Chrome/120.0 Mobile Safari/537.36", "Android"},
		{"Mozilla/5.0 (iPhone) AppleWebKit/605.1.15 Mobile/15E148", "iOS"},
		{"Wget/1.21", "Other"},
	}
	for _, c := range cases {
		assert.Equal(t, c.os, Parse(c.ua).OS, "ua=%s", c.ua)
	}
}

func TestParseDeviceType(t *testing.T) {
	assert.Equal(t, "Mobile", Parse("Mozilla/5.0 (Linux; Android 13) Chrome/120.0 Mobile").DeviceType)
	assert.Equal(t, "Tablet", Parse("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) Safari/605.1.15").DeviceType)
	assert.Equal(t, "Desktop", Parse("Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0").DeviceType)
}
