package model

import "time"

type ShortLink struct {
	BaseModel
	Domain     string     `gorm:"uniqueIndex:idx_domain_slug;size:255;not null" json:"domain"`
	Slug       string     `gorm:"uniqueIndex:idx_domain_slug;size:32;not null" json:"slug"`
	TargetURL  string     `gorm:"size:2048;not null" json:"targetUrl"`
	ExpireType ExpireType `gorm:"size:16;default:none" json:"expireType"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	MaxClicks  *int64     `json:"maxClicks,omitempty"`
	Password   string     `gorm:"size:64" json:"-"`
}

// Policy 将存储列还原为过期策略
func (l *ShortLink) Policy() ExpirationPolicy {
	switch l.ExpireType {
	case ExpireByDate:
		if l.ExpiresAt != nil {
			return ExpiresAt(*l.ExpiresAt)
		}
	case ExpireByClicks:
		if l.MaxClicks != nil {
			return ClickLimit(*l.MaxClicks)
		}
	}
	return NoExpiration()
}

// SetPolicy 写入过期策略，保证三列不会出现混搭状态
func (l *ShortLink) SetPolicy(p ExpirationPolicy) {
	l.ExpireType = p.Kind
	l.ExpiresAt = nil
	l.MaxClicks = nil
	switch p.Kind {
	case ExpireByDate:
		t := p.ExpiresAt
		l.ExpiresAt = &t
	case ExpireByClicks:
		n := p.MaxClicks
		l.MaxClicks = &n
	}
}
