package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(/[a-zA-Z0-9_-]+)*$`)

// ValidateSlug 校验 slug 是否合法
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("error.slug_required")
	}

	if ContainsWhitespace(slug) {
		return fmt.Errorf("error.slug_cannot_contain_spaces")
	}

	if len(slug) > 32 {
		return fmt.Errorf("error.slug_max_length")
	}

	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("error.slug_invalid")
	}

	return nil
}

// ValidateTargetURL 校验目标 URL 的合法性
// 必须是带 http/https scheme 和 host 的绝对 URL
func ValidateTargetURL(targetURL string) error {
	// 1. 检查目标 URL 是否为空
	if targetURL == "" {
		return fmt.Errorf("error.target_url_required")
	}

	// 2. URL 长度限制
	if len(targetURL) > 2048 {
		return fmt.Errorf("error.target_url_max_length")
	}

	// 3. URL 格式校验
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return fmt.Errorf("error.target_url_invalid")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("error.target_url_invalid")
	}
	if parsed.Host == "" {
		return fmt.Errorf("error.target_url_invalid")
	}

	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
