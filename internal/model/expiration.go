package model

import "time"

// ExpireType 过期策略类型标签
type ExpireType string

const (
	ExpireNone     ExpireType = "none"
	ExpireByDate   ExpireType = "date"
	ExpireByClicks ExpireType = "clicks"
)

// ExpirationPolicy 过期策略（带标签的变体类型）
// Kind 决定哪个字段有效：date 用 ExpiresAt，clicks 用 MaxClicks
type ExpirationPolicy struct {
	Kind      ExpireType
	ExpiresAt time.Time
	MaxClicks int64
}

func NoExpiration() ExpirationPolicy {
	return ExpirationPolicy{Kind: ExpireNone}
}

func ExpiresAt(t time.Time) ExpirationPolicy {
	return ExpirationPolicy{Kind: ExpireByDate, ExpiresAt: t}
}

func ClickLimit(max int64) ExpirationPolicy {
	return ExpirationPolicy{Kind: ExpireByClicks, MaxClicks: max}
}
