package utils

import "strings"

// DeviceTypeFromUA 根据 User-Agent 粗分设备类型：mobile / tablet / desktop
func DeviceTypeFromUA(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		return "tablet"
	case strings.Contains(lower, "mobi") || strings.Contains(lower, "android") || strings.Contains(lower, "iphone"):
		return "mobile"
	case lower == "":
		return "unknown"
	default:
		return "desktop"
	}
}

// OSFromUA 根据 User-Agent 粗分操作系统
func OSFromUA(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "windows"):
		return "windows"
	case strings.Contains(lower, "android"):
		return "android"
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") || strings.Contains(lower, "ios"):
		return "ios"
	case strings.Contains(lower, "mac os") || strings.Contains(lower, "macintosh"):
		return "macos"
	case strings.Contains(lower, "linux"):
		return "linux"
	default:
		return "unknown"
	}
}

// BrowserFromUA 根据 User-Agent 粗分浏览器
// 注意匹配顺序：Edge/Opera 的 UA 里也带 Chrome，Chrome 的 UA 里也带 Safari
func BrowserFromUA(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "edg/") || strings.Contains(lower, "edge"):
		return "edge"
	case strings.Contains(lower, "opr/") || strings.Contains(lower, "opera"):
		return "opera"
	case strings.Contains(lower, "firefox"):
		return "firefox"
	case strings.Contains(lower, "chrome"):
		return "chrome"
	case strings.Contains(lower, "safari"):
		return "safari"
	default:
		return "unknown"
	}
}
