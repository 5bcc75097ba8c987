package model

import "time"

// AnalyticsRecord 与 ShortLink 一对一的访问统计记录
// 五个描述字段只保留最近一次成功访问的观测值
type AnalyticsRecord struct {
	BaseModel
	ShortLinkID uint   `gorm:"uniqueIndex;not null" json:"shortLinkId"`
	Clicks      int64  `gorm:"default:0" json:"clicks"`
	Geo         string `gorm:"size:64" json:"geo"`
	Device      string `gorm:"size:32" json:"device"`
	OS          string `gorm:"size:32" json:"os"`
	Browser     string `gorm:"size:32" json:"browser"`
	Referrer    string `gorm:"size:512" json:"referrer"`
}

// AccessDescriptors 单次访问附带的请求描述，由外层从请求中提取
type AccessDescriptors struct {
	Geo      string `json:"geo"`
	Device   string `json:"device"`
	OS       string `json:"os"`
	Browser  string `json:"browser"`
	Referrer string `json:"referrer"`
}

// AccessSample 每次成功访问追加一条的历史采样，只增不删
type AccessSample struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ShortLinkID uint      `gorm:"index;not null" json:"shortLinkId"`
	AccessedAt  time.Time `gorm:"index;not null" json:"accessedAt"`
	Clicks      int64     `json:"clicks"`
}
