package constant

import (
	"fmt"
	"time"
)

// 常量定义
const (
	BasePrefix = "redirect:"
	Separator  = ":"
)

// Redis 键模板，短链以 domain:slug 定位
const (
	LinkCache = BasePrefix + "link:%s" + Separator + "%s"
	DailyPV   = BasePrefix + "pv" + Separator + "%s"                    // redirect:pv:yyyyMMdd
	DailyUV   = BasePrefix + "uv" + Separator + "%s" + Separator + "%s" // redirect:uv:yyyyMMdd:domain:slug
	TotalPV   = BasePrefix + "total_pv" + Separator + "%s"              // redirect:total_pv:domain:slug
	TotalUV   = BasePrefix + "total_uv" + Separator + "%s"              // redirect:total_uv:domain:slug
)

// LinkKey 组合 domain 和 slug 作为统计字段键
func LinkKey(domain, slug string) string {
	return domain + Separator + slug
}

// GetLinkCacheKey 生成短链缓存 key
func GetLinkCacheKey(domain, slug string) string {
	return fmt.Sprintf(LinkCache, domain, slug)
}

// GetDateKey 生成当前日期的键（格式：yyyyMMdd）
func GetDateKey() string {
	return time.Now().Format("20060102") // Go 中日期格式规则：2006-01-02
}

// GetDailyPVKey 生成每日 PV 键（格式：redirect:pv:yyyyMMdd）
func GetDailyPVKey(date string) string {
	return fmt.Sprintf(DailyPV, date)
}

// GetDailyUVKey 生成每日 UV 键（格式：redirect:uv:yyyyMMdd:domain:slug）
func GetDailyUVKey(linkKey, date string) string {
	return fmt.Sprintf(DailyUV, date, linkKey)
}

// GetTotalPVKey 生成总 PV 键（格式：redirect:total_pv:domain:slug）
func GetTotalPVKey(linkKey string) string {
	return fmt.Sprintf(TotalPV, linkKey)
}

// GetTotalUVKey 生成总 UV 键（格式：redirect:total_uv:domain:slug）
func GetTotalUVKey(linkKey string) string {
	return fmt.Sprintf(TotalUV, linkKey)
}
